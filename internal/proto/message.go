package proto

// Message types on the wire. Field names are the contract with the client,
// not the encoding.
const (
	TypeJoin   = "join"
	TypeChat   = "chat"
	TypeSystem = "system"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

// Payload carries the inbound message body. RoomID is set for join
// requests, Message for chat.
type Payload struct {
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message,omitempty"`
}

// Outbound is the envelope for events sent to the client. IsOwn is filled
// in per recipient just before the event leaves the relay.
type Outbound struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	IsOwn     bool   `json:"isOwn"`
}
