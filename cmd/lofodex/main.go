// Package main provides the entry point for the lofodex CLI tool.
package main

import "github.com/lofasm4/lofodex/cmd/lofodex/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
