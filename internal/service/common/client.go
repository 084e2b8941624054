//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/world-clock/internal/api/grpc/worldclock"
	"github.com/oshokin/world-clock/internal/config"
	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/service/board"
	"github.com/oshokin/world-clock/internal/version"
)

// Client wraps the WorldClockService stub with timeouts and requester metadata.
type Client struct {
	// conn is the underlying gRPC connection to the clock server.
	conn *grpc.ClientConn
	// api is the WorldClockService stub.
	api *api.Client

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// requester is sent as metadata with every call.
	requester string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithRequester sets the "user@host" reported to the server.
func WithRequester(requester string) Option {
	return func(c *Client) {
		c.requester = requester
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errZoneRequired is returned when an operation needs a zone key.
	errZoneRequired = errors.New("zone must be provided")
)

// Dial establishes a gRPC connection to the clock server.
// Transport is insecure; run it on a trusted network or behind a TLS proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(
		address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent("world-clock/"+version.Short()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial clock server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// ListZones returns the zones the server can show.
func (c *Client) ListZones(ctx context.Context) ([]zone.Descriptor, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListZones(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	return api.ZonesFromStruct(resp), nil
}

// SelectZone changes the server-side selection.
func (c *Client) SelectZone(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errZoneRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.SelectZone(callCtx, wrapperspb.String(key)); err != nil {
		return fmt.Errorf("select zone: %w", err)
	}

	return nil
}

// AddClock adds a card for key, or for the current selection when key is empty.
// It reports false when the zone was already on the board.
func (c *Client) AddClock(ctx context.Context, key string) (board.Snapshot, bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.AddClock(callCtx, wrapperspb.String(strings.TrimSpace(key)))
	if err != nil {
		return board.Snapshot{}, false, fmt.Errorf("add clock: %w", err)
	}

	return api.AddResultFromStruct(resp)
}

// RemoveClock removes the card of key and reports whether it existed.
func (c *Client) RemoveClock(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, errZoneRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.RemoveClock(callCtx, wrapperspb.String(key))
	if err != nil {
		return false, fmt.Errorf("remove clock: %w", err)
	}

	return resp.GetValue(), nil
}

// Snapshot returns the selection and every card.
func (c *Client) Snapshot(ctx context.Context) (string, []board.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Snapshot(callCtx, new(emptypb.Empty))
	if err != nil {
		return "", nil, fmt.Errorf("snapshot: %w", err)
	}

	return api.SnapshotFromStruct(resp)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The requester is
// attached as outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requester != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, api.RequesterMetadataKey, c.requester)
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
