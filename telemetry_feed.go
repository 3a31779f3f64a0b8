package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	feedPath         = "/telemetry"
	feedClientBuffer = 16
	feedWriteTimeout = 2 * time.Second
)

// TelemetryFeed broadcasts instrument views to websocket clients. A client
// that falls behind loses frames; it never slows the session.
type TelemetryFeed struct {
	addr     string
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewTelemetryFeed(addr string, logger *slog.Logger) *TelemetryFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelemetryFeed{
		addr:     addr,
		logger:   logger.With("component", "feed"),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*feedClient]struct{}),
	}
}

func (f *TelemetryFeed) Callbacks() Callbacks {
	return Callbacks{TelemetryUpdated: f.Publish}
}

func (f *TelemetryFeed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(feedPath, f.serveWS)
	return mux
}

// Run serves the feed on the configured address until ctx is cancelled.
func (f *TelemetryFeed) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", f.addr, err)
	}
	srv := &http.Server{Handler: f.Handler(), ReadHeaderTimeout: 5 * time.Second}
	f.logger.Info("telemetry feed listening", "addr", ln.Addr().String(), "path", feedPath)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		f.closeAll()
		return err
	case err := <-errCh:
		f.closeAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve feed: %w", err)
	}
}

func (f *TelemetryFeed) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &feedClient{conn: conn, send: make(chan []byte, feedClientBuffer)}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()
	f.logger.Debug("feed client connected", "remote", r.RemoteAddr)

	go f.writeLoop(c)

	// Drain reads so close frames are seen.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	f.remove(c)
	f.logger.Debug("feed client disconnected", "remote", r.RemoteAddr)
}

func (f *TelemetryFeed) writeLoop(c *feedClient) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			f.remove(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

func (f *TelemetryFeed) remove(c *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

func (f *TelemetryFeed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
	}
}

// Publish sends the instrument view of d to every client.
func (f *TelemetryFeed) Publish(d AircraftData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clients) == 0 {
		return
	}

	msg, err := json.Marshal(NewInstrumentView(d))
	if err != nil {
		f.logger.Error("failed to encode telemetry", "error", err)
		return
	}
	for c := range f.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (f *TelemetryFeed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
