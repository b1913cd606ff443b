package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/erraggy/oastest/parser"
	"github.com/erraggy/oastest/tester"
)

// stdinBodyPath is the -body value that reads the response body from stdin.
const stdinBodyPath = "-"

// checkFlags contains flags for the check command
type checkFlags struct {
	method      string
	path        string
	status      int
	body        string
	contentType string
	strict      bool
	noWarnings  bool
	caseConv    string
	format      string
	quiet       bool
}

func setupCheckFlags() (*flag.FlagSet, *checkFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &checkFlags{}

	fs.StringVar(&flags.method, "method", "", "HTTP method of the recorded exchange (required)")
	fs.StringVar(&flags.path, "path", "", "concrete request path, e.g. /pets/42 (required)")
	fs.IntVar(&flags.status, "status", 0, "observed HTTP status code (required)")
	fs.StringVar(&flags.body, "body", "", "file holding the response body, or '-' for stdin (omit for an empty body)")
	fs.StringVar(&flags.contentType, "content-type", "application/json", "response Content-Type header value")
	fs.BoolVar(&flags.strict, "strict", false, "report payload keys the schema does not document")
	fs.BoolVar(&flags.noWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	fs.StringVar(&flags.caseConv, "case", "", "enforce a payload key naming convention: camelCase, PascalCase, snake_case, or kebab-case")
	fs.StringVar(&flags.format, "format", formatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.quiet, "q", false, "quiet mode: suppress diagnostic output, print only the verdict")
	fs.BoolVar(&flags.quiet, "quiet", false, "quiet mode: suppress diagnostic output, print only the verdict")

	fs.Usage = func() {
		writef(fs.Output(), "Usage: oastest check [flags] <spec>\n\n")
		writef(fs.Output(), "Compare one recorded HTTP response against what the specification documents\n")
		writef(fs.Output(), "for its operation and status code.\n\n")
		writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		writef(fs.Output(), "\nOutput Formats:\n")
		writef(fs.Output(), "  text (default)  Human-readable mismatch listing and verdict\n")
		writef(fs.Output(), "  json            Structured report for programmatic processing\n")
		writef(fs.Output(), "  yaml            Structured report for programmatic processing\n")
		writef(fs.Output(), "\nExamples:\n")
		writef(fs.Output(), "  oastest check -method GET -path /pets/42 -status 200 -body response.json openapi.yaml\n")
		writef(fs.Output(), "  curl -s https://api.example.com/pets/42 | oastest check -method GET -path /pets/42 -status 200 -body - openapi.yaml\n")
		writef(fs.Output(), "  oastest check -method DELETE -path /pets/42 -status 204 openapi.yaml\n")
		writef(fs.Output(), "  oastest check -strict -format json -method GET -path /pets -status 200 -body list.json openapi.yaml\n")
		writef(fs.Output(), "\nExit Codes:\n")
		writef(fs.Output(), "  0    Response matches the documented schema\n")
		writef(fs.Output(), "  1    Response diverges from the documented schema\n")
	}

	return fs, flags
}

// checkReport is the structured output of the check command. It flattens the
// tester result into stable, marshal-friendly fields.
type checkReport struct {
	Valid       bool          `json:"valid" yaml:"valid"`
	Method      string        `json:"method,omitempty" yaml:"method,omitempty"`
	Path        string        `json:"path,omitempty" yaml:"path,omitempty"`
	OperationID string        `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Status      int           `json:"status,omitempty" yaml:"status,omitempty"`
	ResponseKey string        `json:"responseKey,omitempty" yaml:"responseKey,omitempty"`
	Summary     string        `json:"summary" yaml:"summary"`
	Errors      []issueReport `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings    []issueReport `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// issueReport is one mismatch in structured output.
type issueReport struct {
	Path     string `json:"path" yaml:"path"`
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"`
	Field    string `json:"field,omitempty" yaml:"field,omitempty"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
}

func issueReports(mismatches []tester.Mismatch) []issueReport {
	if len(mismatches) == 0 {
		return nil
	}
	reports := make([]issueReport, len(mismatches))
	for i, m := range mismatches {
		reports[i] = issueReport{
			Path:     m.Path,
			Message:  m.Message,
			Severity: m.Severity.String(),
			Field:    m.Field,
			Expected: m.Expected,
			Value:    m.Value,
		}
	}
	return reports
}

func handleCheck(args []string) error {
	fs, flags := setupCheckFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("check command requires exactly one spec file path")
	}
	specPath := fs.Arg(0)

	// Validate flags early to fail fast before reading anything
	if err := validateOutputFormat(flags.format); err != nil {
		return err
	}
	if flags.method == "" {
		return fmt.Errorf("check requires -method (e.g., -method GET)")
	}
	if !strings.HasPrefix(flags.path, "/") {
		return fmt.Errorf("check requires -path starting with '/' (e.g., -path /pets/42)")
	}
	if flags.status < 100 || flags.status > 599 {
		return fmt.Errorf("check requires -status between 100 and 599, got %d", flags.status)
	}

	body, err := readBodyArg(flags.body)
	if err != nil {
		return err
	}

	parsed, err := parser.ParseWithOptions(
		parser.WithFilePath(specPath),
		parser.WithResolveRefs(true),
	)
	if err != nil {
		return fmt.Errorf("parsing specification: %w", err)
	}

	opts := []tester.Option{
		tester.WithIncludeWarnings(!flags.noWarnings),
		tester.WithStrictMode(flags.strict),
	}
	if flags.caseConv != "" {
		opts = append(opts, tester.WithCase(tester.CaseConvention(flags.caseConv)))
	}
	t, err := tester.New(parsed, opts...)
	if err != nil {
		return fmt.Errorf("preparing tester: %w", err)
	}

	req, err := http.NewRequest(flags.method, flags.path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s %s: %w", flags.method, flags.path, err)
	}
	header := http.Header{}
	if len(body) > 0 {
		header.Set("Content-Type", flags.contentType)
	}

	res := t.ValidateResponseData(req, flags.status, header, body)
	defer res.Release()

	// Handle structured output formats
	if flags.format == formatJSON || flags.format == formatYAML {
		report := checkReport{
			Valid:       res.Valid,
			Method:      res.Method,
			Path:        res.Path,
			OperationID: res.OperationID,
			Status:      res.Status,
			ResponseKey: res.ResponseKey,
			Summary:     res.Summary(),
			Errors:      issueReports(res.Errors),
			Warnings:    issueReports(res.Warnings),
		}
		if err := outputStructured(os.Stdout, report, flags.format); err != nil {
			return err
		}
		if !res.Valid {
			os.Exit(1)
		}
		return nil
	}

	if !flags.quiet {
		outputSpecHeader(specPath, parsed.Version)
		writef(os.Stderr, "Exchange: %s %s -> %d\n\n", res.Method, flags.path, flags.status)

		if len(res.Errors) > 0 {
			writef(os.Stderr, "Errors (%d):\n", len(res.Errors))
			for _, m := range res.Errors {
				writef(os.Stderr, "  %s\n", m.String())
			}
			writef(os.Stderr, "\n")
		}
		if len(res.Warnings) > 0 {
			writef(os.Stderr, "Warnings (%d):\n", len(res.Warnings))
			for _, m := range res.Warnings {
				writef(os.Stderr, "  %s\n", m.String())
			}
			writef(os.Stderr, "\n")
		}
	}

	if res.Valid {
		writef(os.Stdout, "✓ %s\n", res.Summary())
	} else {
		writef(os.Stdout, "✗ Check failed: %d error(s)", len(res.Errors))
		if len(res.Warnings) > 0 {
			writef(os.Stdout, ", %d warning(s)", len(res.Warnings))
		}
		writef(os.Stdout, "\n")
	}

	if !res.Valid {
		os.Exit(1)
	}
	return nil
}

// readBodyArg loads the recorded response body. An empty value means the
// exchange carried no body; "-" reads from stdin.
func readBodyArg(arg string) ([]byte, error) {
	switch arg {
	case "":
		return nil, nil
	case stdinBodyPath:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading body from stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		return data, nil
	}
}
