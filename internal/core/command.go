package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room, leaving its current
	// room first if it has one.
	CommandJoinRoom CommandKind = iota
	// CommandSendChat delivers a chat message to the client's current room.
	CommandSendChat
	// CommandReject surfaces a transport-level decode failure through the
	// dispatcher so the error notice keeps its place in the global order.
	CommandReject
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	Room string
	Text string
	Err  *RelayError
}
