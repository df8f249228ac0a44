// Package main is the entry point for the outliner command.
package main

import (
	"os"

	"github.com/dshills/outliner/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := cli.NewRootCmd()
	cmd.Version = version + " (" + commit + ", " + date + ")"
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
