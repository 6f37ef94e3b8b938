// Command gifsmith converts short video clips to animated GIF, preserving
// real alpha channels and inferring transparency from near-black backgrounds
// when the source has none.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or the conversion pipeline over the named inputs
// (or the current directory when none are given).
package main

import (
	"fmt"
	"os"
)

// version and commit are injected at build time via -ldflags. When built
// with plain "go build" these retain their defaults.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gifsmith: %v\n", err)
		return 1
	}
	return 0
}
