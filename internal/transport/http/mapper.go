package http

import (
	"github.com/roomrelay/roomrelay/internal/core"
	"github.com/roomrelay/roomrelay/internal/proto"
)

// inboundToCommand maps a decoded client frame onto a dispatcher command.
// DecodeInbound has already rejected unknown types.
func inboundToCommand(in proto.Inbound) *core.Command {
	switch in.Type {
	case proto.TypeJoin:
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: in.Payload.RoomID,
		}
	case proto.TypeChat:
		return &core.Command{
			Kind: core.CommandSendChat,
			Text: in.Payload.Message,
		}
	default:
		return &core.Command{
			Kind: core.CommandReject,
			Err:  &core.RelayError{Code: core.ErrCodeDecode, Message: "unknown message type"},
		}
	}
}

// outboundFromEvent renders a relay event for one recipient. isOwn is
// relative to the receiving connection, so it is computed here rather than
// stored on the event.
func outboundFromEvent(ev *core.Event, recipientID string) proto.Outbound {
	typ := proto.TypeChat
	if ev.Kind == core.EventSystem {
		typ = proto.TypeSystem
	}
	return proto.Outbound{
		Type:      typ,
		Message:   ev.Text,
		Sender:    ev.Sender,
		Timestamp: proto.FormatTimestamp(ev.Timestamp),
		IsOwn:     ev.Origin == recipientID,
	}
}
