package core

import "errors"

// Error codes for relay errors.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeDecode     = "decode_error"
	ErrCodeNotJoined  = "not_joined"
	ErrCodeRateLimit  = "rate_limited"
)

var (
	ErrEmptyRoomName = errors.New("room name is empty")
	ErrEmptyMessage  = errors.New("message is empty")
	ErrNotJoined     = errors.New("not joined to a room")
)

// RelayError wraps a code and human-readable message. The code never
// reaches the wire; outbound error notices are plain system messages.
type RelayError struct {
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}

func relayError(code, msg string) *RelayError {
	return &RelayError{Code: code, Message: msg}
}
