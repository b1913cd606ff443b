package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/erraggy/oastest/internal/mcpserver"
)

func setupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		writef(fs.Output(), "Usage: oastest mcp\n\n")
		writef(fs.Output(), "Run the Model Context Protocol server on stdio. AI assistants connect to\n")
		writef(fs.Output(), "it to list endpoints and check recorded exchanges against a specification.\n\n")
		writef(fs.Output(), "The server speaks the protocol on stdin/stdout, so it prints nothing itself.\n")
		writef(fs.Output(), "Configuration comes from OASTEST_* environment variables; see the project\n")
		writef(fs.Output(), "README for the full list.\n\n")
		writef(fs.Output(), "Examples:\n")
		writef(fs.Output(), "  oastest mcp\n")
		writef(fs.Output(), "  OASTEST_CHECK_STRICT=true oastest mcp\n")
	}

	return fs
}

func handleMCP(args []string) error {
	fs := setupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	// stdio carries the protocol, so nothing is printed here.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return mcpserver.Run(ctx)
}
