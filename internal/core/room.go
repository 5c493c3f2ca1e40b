package core

// Room groups the clients currently subscribed to one name. Rooms hold no
// state beyond membership; history is out of scope for the relay.
type Room struct {
	Name    string
	members map[*Client]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[*Client]struct{}),
	}
}

// AddMember inserts a client into the room. Returns true if newly added.
func (r *Room) AddMember(c *Client) bool {
	if _, exists := r.members[c]; exists {
		return false
	}
	r.members[c] = struct{}{}
	return true
}

// RemoveMember deletes a client from the room. Returns true if removed.
func (r *Room) RemoveMember(c *Client) bool {
	if _, exists := r.members[c]; !exists {
		return false
	}
	delete(r.members, c)
	return true
}

// Broadcast enqueues an event for every member except exclude. Members
// whose outbound queue was full are returned so the hub can track their
// drop streak; delivery to an empty room is a no-op.
func (r *Room) Broadcast(ev *Event, exclude *Client) []*Client {
	var slow []*Client
	for member := range r.members {
		if member == exclude {
			continue
		}
		if !member.trySend(ev) {
			slow = append(slow, member)
		}
	}
	return slow
}

// Empty returns true if no clients remain in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Len returns the current member count.
func (r *Room) Len() int {
	return len(r.members)
}
