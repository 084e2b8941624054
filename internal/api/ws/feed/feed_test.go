package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/service/board"
)

func newSource(t *testing.T, keys ...string) *board.App {
	t.Helper()

	registry, err := zone.NewRegistry()
	require.NoError(t, err)

	app := board.New(registry, board.WithClock(clockwork.NewFakeClockAt(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))))
	for _, key := range keys {
		_, err := app.AddCard(context.Background(), key)
		require.NoError(t, err)
	}

	return app
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + FramesPath

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// TestFeed_StreamsFrames checks that viewers get the board right away and then periodically.
func TestFeed_StreamsFrames(t *testing.T) {
	t.Parallel()

	h := NewHandler(newSource(t, "tokyo", "london"), 20*time.Millisecond)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first Frame
	require.NoError(t, conn.ReadJSON(&first))
	require.Len(t, first.Cards, 2)
	require.Equal(t, "tokyo", first.Cards[0].ZoneKey)
	require.Equal(t, "evening-background", first.Cards[0].Background)
	require.Equal(t, "london", first.Cards[1].ZoneKey)
	require.Equal(t, "morning-background", first.Cards[1].Background)
	require.True(t, strings.HasPrefix(first.Cards[0].SVG, "<svg"))

	var second Frame
	require.NoError(t, conn.ReadJSON(&second))
	require.False(t, second.SentAt.Before(first.SentAt))

	require.Eventually(t, func() bool { return h.Viewers() == 1 }, time.Second, 5*time.Millisecond)

	h.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	require.Eventually(t, func() bool { return h.Viewers() == 0 }, time.Second, 5*time.Millisecond)
}

// TestFeed_Health answers the health endpoint.
func TestFeed_Health(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(newSource(t), time.Second).Routes())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + HealthPath)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

// TestFeed_RejectsPlainHTTP ensures non-websocket requests fail the upgrade.
func TestFeed_RejectsPlainHTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(newSource(t), time.Second).Routes())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + FramesPath)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
