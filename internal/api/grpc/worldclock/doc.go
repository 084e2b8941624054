// Package worldclock exposes the clock board over gRPC.
//
// The service is described by a hand-written grpc.ServiceDesc whose messages
// are protobuf well-known types (Empty, StringValue, BoolValue, Struct), so
// no generated code is needed on either side. Server adapts the board to the
// RPCs; Client is the matching stub.
package worldclock
