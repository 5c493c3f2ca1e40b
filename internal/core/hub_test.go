package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(0)
	go hub.Run(ctx)
	return hub
}

func TestHubJoinConfirmationAndBroadcast(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}

	conf := mustSystemText(t, alice.Events, "You have joined Room 101")
	if conf.Origin != "a" || conf.Sender != SystemSender {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}

	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}

	// Bob gets his own confirmation; Alice sees the join notice.
	mustSystemText(t, bob.Events, "You have joined Room 101")
	notice := mustSystemText(t, alice.Events, "bob joined")
	if notice.Origin != "b" || notice.Room != "Room 101" {
		t.Fatalf("unexpected join notice: %+v", notice)
	}
}

func TestHubChatFanoutSharedTimestamp(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, alice.Events, "You have joined")
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, bob.Events, "You have joined")

	alice.Commands <- &Command{Kind: CommandSendChat, Text: "hello"}

	got := mustEvent(t, alice.Events, EventChat)
	other := mustEvent(t, bob.Events, EventChat)

	if got.Text != "hello" || got.Sender != "alice" || got.Origin != "a" {
		t.Fatalf("unexpected chat event: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("chat event missing server timestamp")
	}
	// Both recipients share one event, so one timestamp.
	if !got.Timestamp.Equal(other.Timestamp) || got.Text != other.Text {
		t.Fatalf("fanout diverged: %+v vs %+v", got, other)
	}
}

func TestHubChatBeforeJoinProducesError(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandSendChat, Text: "hi"}

	ev := mustEvent(t, alice.Events, EventSystem)
	if ev.Err == nil || ev.Err.Code != ErrCodeNotJoined {
		t.Fatalf("expected not_joined error, got %+v", ev)
	}

	// No room exists, so nothing to broadcast.
	if rooms := hub.Rooms(context.Background()); len(rooms) != 0 {
		t.Fatalf("expected no rooms, got %+v", rooms)
	}
}

func TestHubEmptyRoomNameRejected(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "   "}

	ev := mustEvent(t, alice.Events, EventSystem)
	if ev.Err == nil || ev.Err.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", ev)
	}
	if rooms := hub.Rooms(context.Background()); len(rooms) != 0 {
		t.Fatalf("expected no rooms, got %+v", rooms)
	}
}

func TestHubEmptyMessageRejected(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, alice.Events, "You have joined")
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, bob.Events, "You have joined")

	alice.Commands <- &Command{Kind: CommandSendChat, Text: "  \t "}

	ev := mustEvent(t, alice.Events, EventSystem)
	if ev.Err == nil || ev.Err.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", ev)
	}
	mustNoEvent(t, bob.Events, 100*time.Millisecond)
}

func TestHubSwitchRooms(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, alice.Events, "You have joined Room 101")
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, bob.Events, "You have joined Room 101")

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 102"}

	mustSystemText(t, bob.Events, "alice left")
	mustSystemText(t, alice.Events, "You have joined Room 102")

	rooms := hub.Rooms(context.Background())
	counts := make(map[string]int, len(rooms))
	for _, r := range rooms {
		counts[r.Name] = r.Members
	}
	if counts["Room 101"] != 1 || counts["Room 102"] != 1 {
		t.Fatalf("unexpected membership after switch: %+v", rooms)
	}
}

func TestHubRejoinSameRoomIsQuiet(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, alice.Events, "You have joined Room 101")
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, bob.Events, "You have joined Room 101")
	mustSystemText(t, alice.Events, "bob joined")

	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}

	mustSystemText(t, bob.Events, "You have joined Room 101")
	// No leave/join churn reaches the rest of the room.
	mustNoEvent(t, alice.Events, 100*time.Millisecond)
}

func TestHubDisconnectNotifiesRoom(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, alice.Events, "You have joined")
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, bob.Events, "You have joined")

	hub.UnregisterClient(alice)

	mustSystemText(t, bob.Events, "alice left")

	rooms := hub.Rooms(context.Background())
	if len(rooms) != 1 || rooms[0].Members != 1 {
		t.Fatalf("unexpected membership after disconnect: %+v", rooms)
	}
}

func TestHubLastLeaveRemovesRoom(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, alice.Events, "You have joined")

	hub.UnregisterClient(alice)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(hub.Rooms(context.Background())) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room not removed after last member left: %+v", hub.Rooms(context.Background()))
}

func TestHubGlobalChatOrder(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	carol := NewClient("c", "carol", 0)
	for _, c := range []*Client{alice, bob, carol} {
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
		mustSystemText(t, c.Events, "You have joined")
	}

	const perSender = 5
	go func() {
		for i := 0; i < perSender; i++ {
			alice.Commands <- &Command{Kind: CommandSendChat, Text: "from-alice"}
		}
	}()
	go func() {
		for i := 0; i < perSender; i++ {
			bob.Commands <- &Command{Kind: CommandSendChat, Text: "from-bob"}
		}
	}()

	collect := func(ch <-chan *Event) []*Event {
		events := make([]*Event, 0, 2*perSender)
		for len(events) < 2*perSender {
			events = append(events, mustEvent(t, ch, EventChat))
		}
		return events
	}

	seqA := collect(alice.Events)
	seqB := collect(bob.Events)
	seqC := collect(carol.Events)

	for i := range seqA {
		if seqA[i] != seqB[i] || seqA[i] != seqC[i] {
			t.Fatalf("delivery order diverged at %d: %q %q %q",
				i, seqA[i].Text, seqB[i].Text, seqC[i].Text)
		}
	}
}

func TestHubDetachesSlowReceiver(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(2)
	go hub.Run(ctx)

	sender := NewClient("s", "sender", 0)
	slow := NewClient("x", "slow", 1)
	hub.RegisterClient(sender)
	hub.RegisterClient(slow)

	sender.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}
	mustSystemText(t, sender.Events, "You have joined")
	slow.Commands <- &Command{Kind: CommandJoinRoom, Room: "Room 101"}

	// Nobody drains slow.Events; its queue of one fills and the drop
	// streak passes the limit.
	for i := 0; i < 10; i++ {
		sender.Commands <- &Command{Kind: CommandSendChat, Text: "flood"}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case _, ok := <-slow.Events:
			if !ok {
				return // detached, queue sealed
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatal("slow receiver was never detached")
}
