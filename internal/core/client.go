package core

const defaultQueueSize = 32

// Client is a connected participant as seen by the relay core.
//
// Commands is written by the transport read path; Events is drained by the
// transport write path and closed by the hub when the client is detached.
// The room and drop-tracking fields are owned by the hub goroutine.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event

	room    string
	dropped int
	closed  bool
}

// NewClient constructs a client with initialized channels. A queueSize of
// zero selects the default outbound backlog bound.
func NewClient(id, name string, queueSize int) *Client {
	if name == "" {
		name = id
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Client{
		ID:       id,
		Name:     name,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, queueSize),
	}
}

// Room reports the room the client is currently joined to, or "" when
// unjoined. Only meaningful from the hub goroutine.
func (c *Client) Room() string {
	return c.room
}

// trySend enqueues an event without blocking. A full queue counts against
// the client's drop streak; any successful delivery resets it.
func (c *Client) trySend(ev *Event) bool {
	select {
	case c.Events <- ev:
		c.dropped = 0
		return true
	default:
		c.dropped++
		return false
	}
}
