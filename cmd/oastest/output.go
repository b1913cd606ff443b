package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oastest"
)

// Output format constants
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writef writes formatted output, reporting a failed write on stderr rather
// than surfacing an error every caller would ignore.
func writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// validateOutputFormat validates an output format and returns an error if invalid.
func validateOutputFormat(format string) error {
	if format != formatText && format != formatJSON && format != formatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, formatText, formatJSON, formatYAML)
	}
	return nil
}

// outputStructured writes data to w in the specified format (json or yaml).
func outputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case formatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case formatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	_, err = fmt.Fprintln(w, strings.TrimRight(string(bytes), "\n"))
	return err
}

// renderTable renders rows as a fixed-width table with headers.
// In quiet mode, headers are omitted and rows are tab-separated for piping.
func renderTable(w io.Writer, headers []string, rows [][]string, quiet bool) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if !quiet {
		for i, h := range headers {
			if i > 0 {
				writef(w, "  ")
			}
			writef(w, "%-*s", widths[i], h)
		}
		writef(w, "\n")
	}

	for _, row := range rows {
		for i, cell := range row {
			if quiet {
				if i > 0 {
					writef(w, "\t")
				}
				writef(w, "%s", cell)
			} else {
				if i > 0 {
					writef(w, "  ")
				}
				writef(w, "%-*s", widths[i], cell)
			}
		}
		writef(w, "\n")
	}
}

// outputSpecHeader writes the common specification header to stderr.
func outputSpecHeader(specPath, version string) {
	writef(os.Stderr, "oastest version: %s\n", oastest.Version())
	writef(os.Stderr, "Specification: %s\n", specPath)
	writef(os.Stderr, "OAS Version: %s\n", version)
}
