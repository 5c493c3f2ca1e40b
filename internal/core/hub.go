package core

import (
	"context"
	"strings"
	"time"
)

const defaultDropLimit = 8

type inbound struct {
	client *Client
	cmd    *Command
}

// Hub is the relay dispatcher. One Run goroutine owns the registry and
// processes every command, registration, and snapshot request in turn, so
// all members of a room observe events in the same relative order.
type Hub struct {
	registry  *Registry
	clients   map[*Client]struct{}
	dropLimit int

	register   chan *Client
	unregister chan *Client
	commands   chan inbound
	snapshots  chan chan []RoomInfo
	done       chan struct{}
}

// NewHub creates a hub. dropLimit bounds how many consecutive events the
// hub will drop for a slow receiver before detaching it; zero selects the
// default.
func NewHub(dropLimit int) *Hub {
	if dropLimit <= 0 {
		dropLimit = defaultDropLimit
	}
	return &Hub{
		registry:   NewRegistry(),
		clients:    make(map[*Client]struct{}),
		dropLimit:  dropLimit,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan inbound),
		snapshots:  make(chan chan []RoomInfo),
		done:       make(chan struct{}),
	}
}

// RegisterClient hands a freshly opened connection to the hub. The client
// starts unjoined; no room is touched.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient detaches a connection, running the leave side effects
// for its current room. Safe to call more than once.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Rooms returns a snapshot of live rooms, answered through the dispatcher
// loop so counts are never read mid-mutation.
func (h *Hub) Rooms(ctx context.Context) []RoomInfo {
	reply := make(chan []RoomInfo, 1)
	select {
	case h.snapshots <- reply:
	case <-h.done:
		return nil
	case <-ctx.Done():
		return nil
	}
	select {
	case infos := <-reply:
		return infos
	case <-h.done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Run processes hub traffic until ctx is cancelled. It must be called
// exactly once, in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.detach(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			go h.pump(c)
		case c := <-h.unregister:
			h.detach(c)
		case in := <-h.commands:
			if in.client.closed {
				continue
			}
			h.dispatch(in.client, in.cmd)
		case reply := <-h.snapshots:
			reply <- h.registry.Snapshot()
		}
	}
}

// pump forwards one client's commands into the shared dispatch channel. It
// ends when the transport closes the Commands channel.
func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		select {
		case h.commands <- inbound{client: c, cmd: cmd}:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandSendChat:
		h.handleChat(c, cmd.Text)
	case CommandReject:
		err := cmd.Err
		if err == nil {
			err = relayError(ErrCodeDecode, "malformed payload")
		}
		h.sendError(c, err)
	}
}

func (h *Hub) handleJoin(c *Client, name string) {
	rejoin := c.room != "" && c.room == name

	room, prev, err := h.registry.Join(c, name)
	if err != nil {
		h.sendError(c, err)
		return
	}

	if prev != nil {
		h.fanout(prev.Name, h.systemEvent(prev.Name, c, c.Name+" left"), nil)
	}

	h.sendTo(c, h.systemEvent(room.Name, c, "You have joined "+room.Name))
	if !rejoin {
		h.fanout(room.Name, h.systemEvent(room.Name, c, c.Name+" joined"), c)
	}
}

func (h *Hub) handleChat(c *Client, text string) {
	if c.room == "" {
		h.sendError(c, relayError(ErrCodeNotJoined, "Join a room before sending messages"))
		return
	}
	if strings.TrimSpace(text) == "" {
		h.sendError(c, relayError(ErrCodeValidation, "message must not be empty"))
		return
	}

	ev := &Event{
		Kind:      EventChat,
		Room:      c.room,
		Sender:    c.Name,
		Origin:    c.ID,
		Text:      text,
		Timestamp: time.Now(),
	}
	// The sender receives its own copy; isOwn is resolved per recipient
	// when the event is encoded.
	h.fanout(c.room, ev, nil)
}

// detach runs the close side effects: leave the current room, notify the
// remaining members, and seal the client's event queue. Idempotent.
func (h *Hub) detach(c *Client) {
	if c.closed {
		return
	}
	if room := c.room; room != "" {
		h.registry.Leave(c, room)
		h.fanout(room, h.systemEvent(room, c, c.Name+" left"), nil)
	}
	c.closed = true
	close(c.Events)
	delete(h.clients, c)
}

// fanout broadcasts to a room and detaches any receiver that has exceeded
// its drop streak.
func (h *Hub) fanout(room string, ev *Event, exclude *Client) {
	for _, slow := range h.registry.Broadcast(room, ev, exclude) {
		if slow.dropped >= h.dropLimit {
			h.detach(slow)
		}
	}
}

func (h *Hub) sendTo(c *Client, ev *Event) {
	if c.closed {
		return
	}
	if !c.trySend(ev) && c.dropped >= h.dropLimit {
		h.detach(c)
	}
}

func (h *Hub) sendError(c *Client, err *RelayError) {
	h.sendTo(c, &Event{
		Kind:      EventSystem,
		Room:      c.room,
		Sender:    SystemSender,
		Origin:    c.ID,
		Text:      err.Message,
		Timestamp: time.Now(),
		Err:       err,
	})
}

func (h *Hub) systemEvent(room string, origin *Client, text string) *Event {
	return &Event{
		Kind:      EventSystem,
		Room:      room,
		Sender:    SystemSender,
		Origin:    origin.ID,
		Text:      text,
		Timestamp: time.Now(),
	}
}
