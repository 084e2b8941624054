// Package client implements the world-clock commands that talk to a running
// server: listing zones, adding and removing cards, taking snapshots of the
// board (optionally saved as SVG files) and watching it.
package client
