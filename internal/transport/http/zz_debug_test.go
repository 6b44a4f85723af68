package http

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/roomrelay/roomrelay-server/internal/config"
	"github.com/roomrelay/roomrelay-server/internal/core"
)

func TestZZDebug(t *testing.T) {
	registry := core.NewRegistry()
	logger := zerolog.New(os.Stderr).Level(zerolog.DebugLevel)
	router := core.NewRouter(registry, &logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go router.Run(ctx)

	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		MaxMessageBytes:   1 << 20,
		SendBuffer:        32,
	}

	server := NewServer(router, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dcancel()

	conn, resp, err := websocket.Dial(dctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Logf("dial resp: %v, headers: %v", resp.StatusCode, resp.Header)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if err := conn.Write(dctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	typ, data, err := conn.Read(dctx)
	t.Logf("read: %v %q %v", typ, data, err)
}
