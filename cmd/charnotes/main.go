// Command charnotes keeps per-character notes in a terminal panel.
package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = ""

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
