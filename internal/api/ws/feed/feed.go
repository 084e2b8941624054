// Package feed streams the clock board to browsers over a websocket.
//
// Every connected viewer receives a JSON Frame right away and then once per
// interval. Each frame carries every card with its SVG face, date label and
// background class, which is all a page needs to paint the board.
package feed

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshokin/world-clock/internal/logger"
	"github.com/oshokin/world-clock/internal/service/board"
)

const (
	// FramesPath is the websocket endpoint.
	FramesPath = "/frames"
	// HealthPath answers plain GET health checks.
	HealthPath = "/healthz"

	writeWait = 5 * time.Second
)

// Source provides the cards to stream.
type Source interface {
	Selection() string
	Snapshot() []board.Snapshot
}

// Frame is one message pushed to viewers.
type Frame struct {
	Selection string           `json:"selection"`
	Cards     []board.Snapshot `json:"cards"`
	SentAt    time.Time        `json:"sent_at"`
}

// Handler serves the feed endpoints.
type Handler struct {
	source   Source
	interval time.Duration
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewHandler creates a feed pushing a frame every interval.
func NewHandler(source Source, interval time.Duration) *Handler {
	return &Handler{
		source:   source,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			// Viewers are static pages served from anywhere.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Routes returns the HTTP handler with all feed endpoints mounted.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+FramesPath, h.ServeFrames)
	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// ServeFrames upgrades the request and streams frames until the viewer leaves.
func (h *Handler) ServeFrames(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithKV(r.Context(), "viewer", r.RemoteAddr)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logger.WarnKV(ctx, "Feed upgrade failed", "error", err)

		return
	}

	if !h.track(conn) {
		_ = conn.Close()

		return
	}

	defer h.untrack(conn)

	logger.InfoKV(ctx, "Viewer connected")

	err = h.stream(ctx, conn)

	switch {
	case err == nil,
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway),
		errors.Is(err, context.Canceled):
		logger.InfoKV(ctx, "Viewer disconnected")
	default:
		logger.WarnKV(ctx, "Viewer dropped", "error", err)
	}
}

// Close disconnects every viewer and refuses new ones.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for conn := range h.conns {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait),
		)
		_ = conn.Close()
	}
}

// Viewers reports how many viewers are connected.
func (h *Handler) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.conns)
}

// stream writes frames until the read side fails or the context ends.
func (h *Handler) stream(ctx context.Context, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	// Viewers never send anything meaningful; reading only detects hang-ups.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel(err)

				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.send(conn); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-ticker.C:
		}
	}
}

func (h *Handler) send(conn *websocket.Conn) error {
	frame := Frame{
		Selection: h.source.Selection(),
		Cards:     h.source.Snapshot(),
		SentAt:    time.Now().UTC(),
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return conn.WriteJSON(frame)
}

func (h *Handler) track(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.conns[conn] = struct{}{}

	return true
}

func (h *Handler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()

	_ = conn.Close()
}
