// Package main provides the entry point for the recforge CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/recforge/internal/cli"
	"github.com/mrz1836/recforge/internal/signal"
)

// Set at build time via ldflags.
var (
	version = "" //nolint:gochecknoglobals // ldflags target
	commit  = "" //nolint:gochecknoglobals // ldflags target
	date    = "" //nolint:gochecknoglobals // ldflags target
)

func main() {
	handler := signal.NewHandler(context.Background())
	err := cli.Execute(handler.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	handler.Stop()
	os.Exit(cli.ExitCodeForError(err))
}
