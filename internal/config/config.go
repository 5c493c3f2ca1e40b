package config

import "time"

// Config holds relay server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	// SendBuffer bounds each connection's outbound event queue; DropLimit
	// is how many consecutive drops a slow receiver survives before the
	// relay detaches it.
	SendBuffer int `mapstructure:"send_buffer" yaml:"send_buffer"`
	DropLimit  int `mapstructure:"drop_limit" yaml:"drop_limit"`

	// MsgRateLimit caps inbound messages per connection per minute;
	// zero disables the limiter.
	MsgRateLimit int `mapstructure:"msg_rate_limit" yaml:"msg_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		SendBuffer:        32,
		DropLimit:         8,
		MsgRateLimit:      0,
	}
}
