package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/roomrelay/roomrelay/internal/config"
	"github.com/roomrelay/roomrelay/internal/core"
	"github.com/roomrelay/roomrelay/internal/proto"
)

func startTestServer(t *testing.T, cfg config.Config) (*httptest.Server, *core.Hub) {
	t.Helper()

	hub := core.NewHub(cfg.DropLimit)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	logger := zerolog.Nop()
	server := NewServer(hub, cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, hub
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() {
		_ = conn.Close(websocket.StatusNormalClosure, "done")
	})
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, in proto.Inbound) {
	t.Helper()

	data, err := proto.EncodeInbound(in)
	if err != nil {
		t.Fatalf("encode inbound: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write inbound: %v", err)
	}
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Outbound {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	out, err := proto.DecodeOutbound(data)
	if err != nil {
		t.Fatalf("decode outbound: %v", err)
	}
	return out
}

// readUntil skips frames until match returns true, guarding against join
// notices interleaved with the frame under test.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(proto.Outbound) bool) proto.Outbound {
	t.Helper()

	for i := 0; i < 16; i++ {
		out := readOutbound(t, ctx, conn)
		if match(out) {
			return out
		}
	}
	t.Fatal("expected frame never arrived")
	return proto.Outbound{}
}
