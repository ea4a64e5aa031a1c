package main

import (
	"fmt"
	"os"
)

// Set with -ldflags "-X main.version=..." at build time.
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "trackexport: %v\n", err)
		os.Exit(1)
	}
}
