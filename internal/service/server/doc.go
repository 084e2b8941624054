// Package server runs the world clock board as a long-lived process.
//
// Run loads the settings, builds the zone registry and the board, starts the
// frame loop with the default card, and serves the gRPC API plus the optional
// websocket frame feed until the context is canceled.
package server
