package integration

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/world-clock/internal/api/ws/feed"
	"github.com/oshokin/world-clock/internal/config"
	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/service/common"
	"github.com/oshokin/world-clock/internal/service/server"
)

// freeAddress reserves a local port and releases it for the server to take.
func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startServer runs the real server with a temporary config.
// Returns a stop function that cancels it and waits for Run to return.
func startServer(t *testing.T, cfg *config.Config) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, config.Save(cfgPath, cfg))

	done := make(chan error, 1)

	go func() {
		done <- server.Run(ctx, &server.Options{ConfigPath: cfgPath})
	}()

	// Wait until the gRPC port accepts connections.
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", cfg.ServerAddress, 50*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		return true
	}, 5*time.Second, 20*time.Millisecond)

	return func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	}
}

// TestServer_Roundtrip starts the real server and drives the board through the client.
func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	addr := freeAddress(t)
	stop := startServer(t, &config.Config{
		ServerAddress: addr,
		FrameRate:     30,
		DefaultZone:   "msk",
		Zones: []zone.Descriptor{
			{Key: "honolulu", OffsetHours: -10, DisplayName: "HONOLULU"},
		},
	})
	defer stop()

	ctx := context.Background()

	c, err := common.Dial(ctx, addr, common.WithCallTimeout(3*time.Second), common.WithRequester("tester@localhost"))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	zones, err := c.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 6)
	require.Equal(t, "honolulu", zones[5].Key)

	// Startup shows the default card and selects its zone.
	selection, cards, err := c.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "msk", selection)
	require.Len(t, cards, 1)
	require.Equal(t, "msk", cards[0].ZoneKey)

	// Adding the same zone twice keeps one card.
	card, added, err := c.AddClock(ctx, "honolulu")
	require.NoError(t, err)
	require.True(t, added)
	require.True(t, strings.HasPrefix(card.SVG, "<svg"))

	again, added, err := c.AddClock(ctx, "honolulu")
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, card.ID, again.ID)

	// The loop keeps refreshing cards after they were added.
	require.Eventually(t, func() bool {
		_, cards, err := c.Snapshot(ctx)
		if err != nil || len(cards) != 2 {
			return false
		}

		return cards[1].RefreshedAt.After(card.RefreshedAt)
	}, 3*time.Second, 50*time.Millisecond)

	// Unknown zones fail and leave the board alone.
	_, _, err = c.AddClock(ctx, "atlantis")
	require.Error(t, err)

	removed, err := c.RemoveClock(ctx, "honolulu")
	require.NoError(t, err)
	require.True(t, removed)

	_, cards, err = c.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

// TestServer_Feed follows the board over the websocket feed.
func TestServer_Feed(t *testing.T) {
	t.Parallel()

	addr := freeAddress(t)
	feedAddr := freeAddress(t)

	stop := startServer(t, &config.Config{
		ServerAddress: addr,
		FeedAddress:   feedAddr,
		FeedInterval:  50 * time.Millisecond,
		DefaultZone:   "tokyo",
	})
	defer stop()

	var (
		conn *websocket.Conn
		err  error
	)

	require.Eventually(t, func() bool {
		conn, _, err = websocket.DefaultDialer.Dial("ws://"+feedAddr+feed.FramesPath, nil)

		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	defer func() {
		_ = conn.Close()
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frame feed.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, "tokyo", frame.Selection)
	require.Len(t, frame.Cards, 1)
	require.Equal(t, "TOKYO", frame.Cards[0].DisplayName)
	require.NotEmpty(t, frame.Cards[0].Background)
}

// TestServer_FeedPortTaken fails startup and releases the gRPC port when the feed cannot listen.
func TestServer_FeedPortTaken(t *testing.T) {
	t.Parallel()

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() { _ = busy.Close() })

	grpcAddress := freeAddress(t)
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, config.Save(cfgPath, &config.Config{
		ServerAddress: grpcAddress,
		FeedAddress:   busy.Addr().String(),
		Timeout:       time.Second,
	}))

	err = server.Run(context.Background(), &server.Options{ConfigPath: cfgPath})
	require.Error(t, err)

	_, port, err := net.SplitHostPort(grpcAddress)
	require.NoError(t, err)

	again, err := net.Listen("tcp", ":"+port)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
