package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"

	"github.com/roomrelay/roomrelay/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "Room 101", "room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(in proto.Inbound) {
		data, marshalErr := proto.EncodeInbound(in)
		if marshalErr != nil {
			log.Printf("encode: %v", marshalErr)
			return
		}
		if writeErr := conn.Write(ctx, websocket.MessageText, data); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.Inbound{Type: proto.TypeJoin, Payload: proto.Payload{RoomID: *room}})

	fmt.Printf("Connected to %s, room %q\n", *addr, *room)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		out, err := proto.DecodeOutbound(data)
		if err != nil {
			log.Printf("decode event: %v", err)
			continue
		}

		switch out.Type {
		case proto.TypeSystem:
			fmt.Printf("* %s\n", out.Message)
		default:
			marker := ""
			if out.IsOwn {
				marker = " (you)"
			}
			fmt.Printf("%s%s: %s\n", out.Sender, marker, out.Message)
		}
	}
}

func writeLoop(ctx context.Context, send func(proto.Inbound)) {
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			send(proto.Inbound{Type: proto.TypeChat, Payload: proto.Payload{Message: text}})
		}
	}
}
