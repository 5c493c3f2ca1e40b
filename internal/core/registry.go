package core

import "strings"

// Registry is the single source of truth for room membership. It is not
// safe for concurrent use: the hub goroutine owns it, which is what makes
// every membership change and broadcast observe one global order.
//
// A registry entry exists iff its member set is non-empty; rooms are
// created on first join and deleted the moment the last member leaves.
type Registry struct {
	rooms map[string]*Room
}

// RoomInfo is a read-only snapshot of one room.
type RoomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Join adds c to the room called name, creating it on first use. If c is
// already a member of a different room it is removed from there first; that
// previous room is returned (nil after cleanup consideration — the entry is
// already deleted if c was its last member) so the caller can emit leave
// notices to whoever remains. Joining the room c is already in is a no-op
// apart from the returned handle.
func (reg *Registry) Join(c *Client, name string) (room *Room, prev *Room, err *RelayError) {
	if strings.TrimSpace(name) == "" {
		return nil, nil, relayError(ErrCodeValidation, "room name must not be empty")
	}
	if c.room == name {
		return reg.rooms[name], nil, nil
	}
	if c.room != "" {
		prev = reg.rooms[c.room]
		reg.Leave(c, c.room)
	}
	room, ok := reg.rooms[name]
	if !ok {
		room = NewRoom(name)
		reg.rooms[name] = room
	}
	room.AddMember(c)
	c.room = name
	return room, prev, nil
}

// Leave removes c's membership in the named room and deletes the entry if
// it is now empty. Leaving a room c is not a member of is a no-op.
func (reg *Registry) Leave(c *Client, name string) bool {
	room, ok := reg.rooms[name]
	if !ok {
		return false
	}
	if !room.RemoveMember(c) {
		return false
	}
	if c.room == name {
		c.room = ""
	}
	if room.Empty() {
		delete(reg.rooms, name)
	}
	return true
}

// Broadcast delivers ev to every current member of the named room except
// exclude. An unknown room is a no-op. Returns members whose queue was full.
func (reg *Registry) Broadcast(name string, ev *Event, exclude *Client) []*Client {
	room, ok := reg.rooms[name]
	if !ok {
		return nil
	}
	return room.Broadcast(ev, exclude)
}

// MemberCount returns the number of members in the named room, 0 for
// unknown rooms.
func (reg *Registry) MemberCount(name string) int {
	room, ok := reg.rooms[name]
	if !ok {
		return 0
	}
	return room.Len()
}

// Snapshot lists all live rooms with their member counts.
func (reg *Registry) Snapshot() []RoomInfo {
	infos := make([]RoomInfo, 0, len(reg.rooms))
	for name, room := range reg.rooms {
		infos = append(infos, RoomInfo{Name: name, Members: room.Len()})
	}
	return infos
}
