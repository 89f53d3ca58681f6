// Command a2achat talks to an A2A agent from the terminal.
//
//	a2achat health --agent-url http://localhost:8080
//	a2achat send "What can you do?"
//	a2achat chat --session demo
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
