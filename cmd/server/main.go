package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roomrelay/roomrelay/internal/app"
	"github.com/roomrelay/roomrelay/internal/config"
	"github.com/roomrelay/roomrelay/internal/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:           "roomrelay",
		Short:         "Room-based chat message relay server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootLogger := log.New("info", "console")

			cfg, path, err := config.Load(bootLogger, configPath)
			if err != nil {
				bootLogger.Error().Err(err).Msg("load config")
				return err
			}
			applyFlagOverrides(cmd, &cfg, overrides)

			logger := log.New(cfg.LogLevel, cfg.LogFormat)
			logger.Info().
				Str("addr", cfg.Addr).
				Str("config", path).
				Msg("starting roomrelay server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.New(cfg, logger).Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&overrides.Addr, "addr", defaults.Addr, "HTTP listen address")
	cmd.Flags().DurationVar(&overrides.ReadHeaderTimeout, "read-header-timeout", defaults.ReadHeaderTimeout, "HTTP read header timeout")
	cmd.Flags().DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", defaults.ShutdownTimeout, "graceful shutdown timeout")
	cmd.Flags().StringVar(&overrides.LogLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&overrides.LogFormat, "log-format", defaults.LogFormat, "log format (console, json)")
	cmd.Flags().IntVar(&overrides.SendBuffer, "send-buffer", defaults.SendBuffer, "per-connection outbound event buffer")
	cmd.Flags().IntVar(&overrides.DropLimit, "drop-limit", defaults.DropLimit, "consecutive drops before a slow client is detached")
	cmd.Flags().IntVar(&overrides.MsgRateLimit, "msg-rate-limit", defaults.MsgRateLimit, "inbound messages per connection per minute, 0 disables")

	return cmd
}

// applyFlagOverrides lets explicitly set flags win over file and env
// config, matching the loader's precedence contract.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, overrides config.Config) {
	if cmd.Flags().Changed("addr") {
		cfg.Addr = overrides.Addr
	}
	if cmd.Flags().Changed("read-header-timeout") {
		cfg.ReadHeaderTimeout = overrides.ReadHeaderTimeout
	}
	if cmd.Flags().Changed("shutdown-timeout") {
		cfg.ShutdownTimeout = overrides.ShutdownTimeout
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = overrides.LogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = overrides.LogFormat
	}
	if cmd.Flags().Changed("send-buffer") {
		cfg.SendBuffer = overrides.SendBuffer
	}
	if cmd.Flags().Changed("drop-limit") {
		cfg.DropLimit = overrides.DropLimit
	}
	if cmd.Flags().Changed("msg-rate-limit") {
		cfg.MsgRateLimit = overrides.MsgRateLimit
	}
}
