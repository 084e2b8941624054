package worldclock

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/logger"
	"github.com/oshokin/world-clock/internal/service/board"
)

// RequesterMetadataKey carries "user@host" of the calling client.
const RequesterMetadataKey = "x-requester"

// Service abstracts the board operations the transport depends on.
type Service interface {
	Zones() []zone.Descriptor
	SelectZone(key string) error
	Selection() string
	AddCard(ctx context.Context, key string) (board.Snapshot, error)
	AddClock(ctx context.Context) (board.Snapshot, bool, error)
	RemoveCard(ctx context.Context, key string) bool
	Snapshot() []board.Snapshot
}

// Server implements WorldClockService.
type Server struct {
	// service provides the board operations.
	service Service
}

var _ WorldClockServer = (*Server)(nil)

// NewServer wires the provided service into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// ListZones returns the selectable zones in registry order.
func (s *Server) ListZones(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := zonesToStruct(s.service.Zones())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode zones")
	}

	return out, nil
}

// SelectZone changes the current selection.
func (s *Server) SelectZone(_ context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	key := strings.TrimSpace(req.GetValue())
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "zone is required")
	}

	if err := s.service.SelectZone(key); err != nil {
		return nil, toStatus(err)
	}

	return new(emptypb.Empty), nil
}

// AddClock adds a card for the requested zone or, when empty, for the selection.
// Adding a zone that is already shown returns its card with added=false.
func (s *Server) AddClock(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	var (
		card  board.Snapshot
		added bool
		err   error
	)

	key := strings.TrimSpace(req.GetValue())
	if key == "" {
		card, added, err = s.service.AddClock(ctx)
	} else {
		card, err = s.service.AddCard(ctx, key)
		added = err == nil

		if errors.Is(err, board.ErrDuplicateZone) {
			err = nil
		}
	}

	if err != nil {
		return nil, toStatus(err)
	}

	out, err := addResultToStruct(card, added)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode card")
	}

	return out, nil
}

// RemoveClock removes a card; the response tells whether one existed.
func (s *Server) RemoveClock(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	key := strings.TrimSpace(req.GetValue())
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "zone is required")
	}

	return wrapperspb.Bool(s.service.RemoveCard(ctx, key)), nil
}

// Snapshot returns the selection and every card.
func (s *Server) Snapshot(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := snapshotToStruct(s.service.Selection(), s.service.Snapshot())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode snapshot")
	}

	return out, nil
}

// toStatus maps board errors to gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, zone.ErrUnknownZone):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, board.ErrDuplicateZone):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingInterceptor puts base into every RPC context, scoped to the method
// and its requester, and logs each call with its outcome. A nil base keeps
// the global logger.
func LoggingInterceptor(base *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if base != nil {
			ctx = logger.ToContext(ctx, base)
		}

		requester := "unknown"
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(RequesterMetadataKey); len(values) > 0 {
				requester = values[0]
			}
		}

		ctx = logger.WithKV(ctx, "method", info.FullMethod, "requester", requester)
		started := time.Now()

		resp, err := handler(ctx, req)
		if err != nil {
			logger.WarnKV(ctx, "RPC failed", "code", status.Code(err).String(), "error", err)

			return resp, err
		}

		logger.DebugKV(ctx, "RPC served", "duration", time.Since(started))

		return resp, nil
	}
}
