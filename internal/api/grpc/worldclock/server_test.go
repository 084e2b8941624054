package worldclock

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/service/board"
)

var morning = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newBoard(t *testing.T) *board.App {
	t.Helper()

	registry, err := zone.NewRegistry()
	require.NoError(t, err)

	return board.New(registry, board.WithClock(clockwork.NewFakeClockAt(morning)))
}

// TestServer_Validation ensures empty zones are rejected and unknown zones map to NotFound.
func TestServer_Validation(t *testing.T) {
	t.Parallel()

	s := NewServer(newBoard(t))
	ctx := context.Background()

	_, err := s.SelectZone(ctx, wrapperspb.String(" "))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.RemoveClock(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SelectZone(ctx, wrapperspb.String("atlantis"))
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = s.AddClock(ctx, wrapperspb.String("atlantis"))
	require.Equal(t, codes.NotFound, status.Code(err))
}

// TestServer_AddRemove exercises AddClock, Snapshot and RemoveClock on the handler directly.
func TestServer_AddRemove(t *testing.T) {
	t.Parallel()

	s := NewServer(newBoard(t))
	ctx := context.Background()

	out, err := s.AddClock(ctx, wrapperspb.String("tokyo"))
	require.NoError(t, err)

	card, added, err := AddResultFromStruct(out)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, "tokyo", card.ZoneKey)
	require.Equal(t, "evening-background", card.Background)
	require.Equal(t, "March 15, 2024", card.DateLabel)
	require.Equal(t, 9, card.OffsetHours)
	require.True(t, morning.Equal(card.RefreshedAt))

	out, err = s.AddClock(ctx, wrapperspb.String("tokyo"))
	require.NoError(t, err)

	again, added, err := AddResultFromStruct(out)
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, card.ID, again.ID)

	snap, err := s.Snapshot(ctx, new(emptypb.Empty))
	require.NoError(t, err)

	_, cards, err := SnapshotFromStruct(snap)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	removed, err := s.RemoveClock(ctx, wrapperspb.String("tokyo"))
	require.NoError(t, err)
	require.True(t, removed.GetValue())

	removed, err = s.RemoveClock(ctx, wrapperspb.String("tokyo"))
	require.NoError(t, err)
	require.False(t, removed.GetValue())
}

// TestService_Roundtrip goes through a real gRPC server and the client stub.
func TestService_Roundtrip(t *testing.T) {
	t.Parallel()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(nil)))
	RegisterWorldClockServer(srv, NewServer(newBoard(t)))

	go func() {
		_ = srv.Serve(lis)
	}()

	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
	})

	client := NewClient(conn)
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequesterMetadataKey, "tester@localhost")

	zones, err := client.ListZones(ctx, new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, zone.Builtin(), ZonesFromStruct(zones))

	_, err = client.SelectZone(ctx, wrapperspb.String("newyork"))
	require.NoError(t, err)

	out, err := client.AddClock(ctx, wrapperspb.String(""))
	require.NoError(t, err)

	card, added, err := AddResultFromStruct(out)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, "newyork", card.ZoneKey)
	require.Equal(t, "night", card.Period)
	require.Contains(t, card.SVG, "<svg")

	snap, err := client.Snapshot(ctx, new(emptypb.Empty))
	require.NoError(t, err)

	selection, cards, err := SnapshotFromStruct(snap)
	require.NoError(t, err)
	require.Equal(t, "newyork", selection)
	require.Len(t, cards, 1)
	require.Equal(t, card.ID, cards[0].ID)

	_, err = client.AddClock(ctx, wrapperspb.String("atlantis"))
	require.Equal(t, codes.NotFound, status.Code(err))

	removed, err := client.RemoveClock(ctx, wrapperspb.String("newyork"))
	require.NoError(t, err)
	require.True(t, removed.GetValue())
}
