package core

import "time"

// SystemSender is the sender identity for relay-generated notices.
const SystemSender = "System"

// EventKind is a notification the relay emits to clients.
type EventKind int

const (
	// EventChat carries a user-authored message.
	EventChat EventKind = iota
	// EventSystem carries a relay-generated notice (join/leave/error).
	EventSystem
)

// Event is a single in-flight chat or system notice. Timestamp is assigned
// by the hub at dispatch time, never by the client. Origin records the
// connection that triggered the event; whether a delivery is "own" is
// decided per recipient at encode time by comparing against Origin.
type Event struct {
	Kind      EventKind
	Room      string
	Sender    string
	Origin    string
	Text      string
	Timestamp time.Time
	Err       *RelayError
}
