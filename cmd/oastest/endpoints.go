package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/oastest/parser"
	"github.com/erraggy/oastest/tester"
)

// endpointsFlags contains flags for the endpoints command
type endpointsFlags struct {
	format string
	quiet  bool
}

func setupEndpointsFlags() (*flag.FlagSet, *endpointsFlags) {
	fs := flag.NewFlagSet("endpoints", flag.ContinueOnError)
	flags := &endpointsFlags{}

	fs.StringVar(&flags.format, "format", formatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.quiet, "q", false, "quiet mode: no headers, tab-separated rows for piping")
	fs.BoolVar(&flags.quiet, "quiet", false, "quiet mode: no headers, tab-separated rows for piping")

	fs.Usage = func() {
		writef(fs.Output(), "Usage: oastest endpoints [flags] <spec>\n\n")
		writef(fs.Output(), "List every operation a specification documents, sorted by path then method.\n\n")
		writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		writef(fs.Output(), "\nOutput Formats:\n")
		writef(fs.Output(), "  text (default)  Table with method, path, operationId, and summary\n")
		writef(fs.Output(), "  json            JSON array for programmatic processing\n")
		writef(fs.Output(), "  yaml            YAML sequence for programmatic processing\n")
		writef(fs.Output(), "\nExamples:\n")
		writef(fs.Output(), "  oastest endpoints openapi.yaml\n")
		writef(fs.Output(), "  oastest endpoints -q openapi.yaml | cut -f2\n")
		writef(fs.Output(), "  oastest endpoints --format json openapi.yaml | jq '.[].operationId'\n")
	}

	return fs, flags
}

func handleEndpoints(args []string) error {
	fs, flags := setupEndpointsFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("endpoints command requires exactly one spec file path")
	}
	specPath := fs.Arg(0)

	if err := validateOutputFormat(flags.format); err != nil {
		return err
	}

	result, err := parser.ParseWithOptions(
		parser.WithFilePath(specPath),
		parser.WithResolveRefs(true),
	)
	if err != nil {
		return fmt.Errorf("parsing specification: %w", err)
	}

	t, err := tester.New(result)
	if err != nil {
		return fmt.Errorf("reading specification paths: %w", err)
	}
	endpoints := t.Endpoints()

	if flags.format == formatJSON || flags.format == formatYAML {
		return outputStructured(os.Stdout, endpoints, flags.format)
	}

	if !flags.quiet {
		outputSpecHeader(specPath, result.Version)
		writef(os.Stderr, "Endpoints: %d\n\n", len(endpoints))
	}

	headers := []string{"METHOD", "PATH", "OPERATION ID", "SUMMARY"}
	rows := make([][]string, 0, len(endpoints))
	for _, e := range endpoints {
		summary := e.Summary
		if e.Deprecated {
			summary += " (deprecated)"
		}
		rows = append(rows, []string{e.Method, e.Path, e.OperationID, summary})
	}
	renderTable(os.Stdout, headers, rows, flags.quiet)
	return nil
}
