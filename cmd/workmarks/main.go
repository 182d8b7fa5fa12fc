// Package main is the entry point for the workmarks CLI application.
package main

import (
	"github.com/wexinc/workmarks/cmd/workmarks/cmd"
)

// Version information - will be set by build flags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Version, cmd.Commit, cmd.Date = version, commit, date
	cmd.Execute()
}
