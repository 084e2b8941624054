package worldclock

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "worldclock.v1.WorldClockService"

// RPC method names.
const (
	MethodListZones   = "ListZones"
	MethodSelectZone  = "SelectZone"
	MethodAddClock    = "AddClock"
	MethodRemoveClock = "RemoveClock"
	MethodSnapshot    = "Snapshot"
)

// WorldClockServer is the server API of the world clock service.
type WorldClockServer interface {
	ListZones(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SelectZone(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error)
	AddClock(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	RemoveClock(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	Snapshot(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes WorldClockService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Mirrors what protoc-gen-go-grpc emits.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorldClockServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodListZones, Handler: unary(MethodListZones, WorldClockServer.ListZones)},
		{MethodName: MethodSelectZone, Handler: unary(MethodSelectZone, WorldClockServer.SelectZone)},
		{MethodName: MethodAddClock, Handler: unary(MethodAddClock, WorldClockServer.AddClock)},
		{MethodName: MethodRemoveClock, Handler: unary(MethodRemoveClock, WorldClockServer.RemoveClock)},
		{MethodName: MethodSnapshot, Handler: unary(MethodSnapshot, WorldClockServer.Snapshot)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "worldclock/v1/worldclock.proto",
}

// RegisterWorldClockServer registers srv on s.
func RegisterWorldClockServer(s grpc.ServiceRegistrar, srv WorldClockServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the "/service/method" path of an RPC.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds a method handler that decodes Req and dispatches to call,
// going through the server interceptor when one is installed.
func unary[Req, Resp any](
	method string,
	call func(WorldClockServer, context.Context, *Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(WorldClockServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WorldClockServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// Client is the client stub of WorldClockService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// ListZones returns the selectable zones.
func (c *Client) ListZones(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(MethodListZones), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// SelectZone changes the selection used by AddClock with an empty zone.
func (c *Client) SelectZone(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, FullMethod(MethodSelectZone), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// AddClock adds a card.
func (c *Client) AddClock(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(MethodAddClock), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// RemoveClock removes a card.
func (c *Client) RemoveClock(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, FullMethod(MethodRemoveClock), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Snapshot returns every card with its latest drawing.
func (c *Client) Snapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(MethodSnapshot), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
