// Command world-clock-server keeps a board of analog clock cards up to date
// and serves it over gRPC and a websocket frame feed.
package main

import "github.com/oshokin/world-clock/cmd/world-clock-server/cmd"

func main() {
	cmd.Execute()
}
