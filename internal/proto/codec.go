package proto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DecodeError reports an inbound payload that does not match any
// recognized shape. The connection that sent it is answered with a system
// notice and stays open; a DecodeError is never fatal.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Reason
}

// DecodeInbound parses a client frame. The primary path is the structured
// JSON envelope; a frame that is not JSON at all falls back to the legacy
// plain-text form, which treats the whole frame as a chat message. Valid
// JSON with an unrecognized type is an error, not legacy text.
func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		if text := legacyText(data); text != "" {
			return Inbound{Type: TypeChat, Payload: Payload{Message: text}}, nil
		}
		return Inbound{}, &DecodeError{Reason: err.Error()}
	}

	switch in.Type {
	case TypeJoin, TypeChat:
		return in, nil
	default:
		return Inbound{}, &DecodeError{Reason: fmt.Sprintf("unknown message type %q", in.Type)}
	}
}

// DecodeOutbound parses a server frame back into its envelope. When the
// frame is not structured JSON it applies the legacy heuristics the old
// client used: "joined"/"left" in the text marks a system notice, and the
// join confirmation is the only frame treated as the reader's own. The
// legacy path is a lossy compatibility shim, not a primary format.
func DecodeOutbound(data []byte) (Outbound, error) {
	var out Outbound
	if err := json.Unmarshal(data, &out); err != nil {
		text := legacyText(data)
		if text == "" {
			return Outbound{}, &DecodeError{Reason: err.Error()}
		}
		return legacyOutbound(text), nil
	}

	switch out.Type {
	case TypeSystem, TypeChat:
		return out, nil
	default:
		return Outbound{}, &DecodeError{Reason: fmt.Sprintf("unknown event type %q", out.Type)}
	}
}

// EncodeOutbound renders an outbound envelope to its wire form.
func EncodeOutbound(out Outbound) ([]byte, error) {
	return json.Marshal(out)
}

// EncodeInbound renders a client envelope to its wire form.
func EncodeInbound(in Inbound) ([]byte, error) {
	return json.Marshal(in)
}

// FormatTimestamp renders an event timestamp in the wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp reads a wire timestamp back into a time.Time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func legacyText(data []byte) string {
	if !utf8.Valid(data) {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func legacyOutbound(text string) Outbound {
	out := Outbound{
		Type:      TypeChat,
		Message:   text,
		Sender:    "User",
		Timestamp: FormatTimestamp(time.Now()),
	}
	if strings.Contains(text, "joined") || strings.Contains(text, "left") {
		out.Type = TypeSystem
	}
	if strings.Contains(text, "You have joined") {
		out.Sender = "System"
		out.IsOwn = true
	}
	return out
}
