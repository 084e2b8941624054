// Package common holds helpers shared by the client commands.
//
// It provides a gRPC client wrapper for WorldClockService with per-call
// timeouts and the requester identity (user@host) attached as metadata.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
