//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	api "github.com/oshokin/world-clock/internal/api/grpc/worldclock"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior and requester metadata.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	_, ok := metadata.FromOutgoingContext(ctx)
	require.False(t, ok)

	c.callTimeout = 10 * time.Millisecond
	c.requester = "tester@localhost"

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"tester@localhost"}, md.Get(api.RequesterMetadataKey))
}

// TestClient_RequiresZone asserts that empty zones are rejected before any RPC.
func TestClient_RequiresZone(t *testing.T) {
	t.Parallel()

	c := new(Client)

	_, err := c.RemoveClock(context.Background(), " ")
	require.ErrorIs(t, err, errZoneRequired)

	require.ErrorIs(t, c.SelectZone(context.Background(), ""), errZoneRequired)
}

// TestClose_Nil is safe on a zero client.
func TestClose_Nil(t *testing.T) {
	t.Parallel()

	var c *Client
	require.NoError(t, c.Close())
	require.NoError(t, new(Client).Close())
}
