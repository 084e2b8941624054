// Command world-clock manages the cards of a running world-clock-server.
package main

import "github.com/oshokin/world-clock/cmd/world-clock/cmd"

func main() {
	cmd.Execute()
}
