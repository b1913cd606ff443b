package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oastest/parser"
	"github.com/erraggy/oastest/tester"
)

type checkResponseInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OAS document to check against"`
	Method      string    `json:"method"                 jsonschema:"HTTP method of the recorded request (e.g. GET)"`
	Path        string    `json:"path"                   jsonschema:"Concrete request path (e.g. /pets/42)"`
	Status      int       `json:"status"                 jsonschema:"HTTP status code of the recorded response"`
	Body        string    `json:"body,omitempty"         jsonschema:"Recorded response body"`
	ContentType string    `json:"content_type,omitempty" jsonschema:"Response Content-Type header (default application/json)"`
	Strict      *bool     `json:"strict,omitempty"       jsonschema:"Report payload keys the schema does not document"`
	NoWarnings  *bool     `json:"no_warnings,omitempty"  jsonschema:"Suppress warnings from output"`
	Offset      int       `json:"offset,omitempty"       jsonschema:"Skip the first N mismatches (for pagination)"`
	Limit       int       `json:"limit,omitempty"        jsonschema:"Maximum mismatches to return (default 100). Applied independently to errors and warnings arrays."`
}

// checkIssue is one mismatch in tool output.
type checkIssue struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// checkOutput is shared by check_response and check_request_body. Request
// body checks leave the response-only fields (status, response_key) zero.
type checkOutput struct {
	Valid        bool         `json:"valid"`
	Method       string       `json:"method,omitempty"`
	Path         string       `json:"path,omitempty"`
	OperationID  string       `json:"operation_id,omitempty"`
	Status       int          `json:"status,omitempty"`
	ResponseKey  string       `json:"response_key,omitempty"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	Returned     int          `json:"returned"`
	Errors       []checkIssue `json:"errors,omitempty"`
	Warnings     []checkIssue `json:"warnings,omitempty"`
	Summary      string       `json:"summary"`
}

func handleCheckResponse(ctx context.Context, _ *mcp.CallToolRequest, input checkResponseInput) (*mcp.CallToolResult, checkOutput, error) {
	req, err := exchangeRequest(input.Method, input.Path)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}
	if input.Status < 100 || input.Status > 599 {
		return errResult(fmt.Errorf("status must be a three-digit HTTP status code (got %d)", input.Status)), checkOutput{}, nil
	}

	parsed, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}
	t, noWarnings, err := buildTester(parsed, input.Strict, input.NoWarnings)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	header := make(http.Header)
	header.Set("Content-Type", defaultContentType(input.ContentType))

	res := t.ValidateResponseData(req, input.Status, header, []byte(input.Body))
	defer res.Release()

	return nil, buildCheckOutput(res, noWarnings, input.Offset, input.Limit), nil
}

// exchangeRequest builds the bare request that carries method and path into
// the tester.
func exchangeRequest(method, path string) (*http.Request, error) {
	if method == "" {
		return nil, fmt.Errorf("method must be provided (e.g. GET)")
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("path must start with / (got %q)", path)
	}
	req, err := http.NewRequest(strings.ToUpper(method), path, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid method or path: %w", err)
	}
	return req, nil
}

func defaultContentType(ct string) string {
	if ct == "" {
		return "application/json"
	}
	return ct
}

// buildTester constructs a tester with config defaults, letting per-call
// inputs override them. The returned bool reports whether warnings are
// suppressed.
func buildTester(parsed *parser.ParseResult, strictIn, noWarningsIn *bool) (*tester.Tester, bool, error) {
	strict := cfg.CheckStrict
	if strictIn != nil {
		strict = *strictIn
	}
	noWarnings := cfg.CheckNoWarnings
	if noWarningsIn != nil {
		noWarnings = *noWarningsIn
	}

	opts := []tester.Option{tester.WithIncludeWarnings(!noWarnings)}
	if strict {
		opts = append(opts, tester.WithStrictMode(true))
	}
	if cfg.CheckCase != "" {
		opts = append(opts, tester.WithCase(tester.CaseConvention(cfg.CheckCase)))
	}

	t, err := tester.New(parsed, opts...)
	if err != nil {
		return nil, false, err
	}
	return t, noWarnings, nil
}

// buildCheckOutput copies a validation result into tool output, paginating
// the mismatch lists. The copy happens before the caller releases the
// result.
func buildCheckOutput(res *tester.Result, noWarnings bool, offset, limit int) checkOutput {
	out := checkOutput{
		Valid:       res.Valid,
		Method:      res.Method,
		Path:        res.Path,
		OperationID: res.OperationID,
		Status:      res.Status,
		ResponseKey: res.ResponseKey,
		ErrorCount:  len(res.Errors),
		Summary:     res.Summary(),
	}

	out.Errors = makeSlice[checkIssue](len(res.Errors))
	for _, m := range res.Errors {
		out.Errors = append(out.Errors, issueFromMismatch(m))
	}
	if !noWarnings {
		out.WarningCount = len(res.Warnings)
		out.Warnings = makeSlice[checkIssue](len(res.Warnings))
		for _, m := range res.Warnings {
			out.Warnings = append(out.Warnings, issueFromMismatch(m))
		}
	}

	out.Errors = paginate(out.Errors, offset, limit)
	if !noWarnings {
		out.Warnings = paginate(out.Warnings, offset, limit)
	}
	out.Returned = len(out.Errors) + len(out.Warnings)
	return out
}

func issueFromMismatch(m tester.Mismatch) checkIssue {
	return checkIssue{
		Path:     m.Path,
		Message:  m.Message,
		Field:    m.Field,
		Expected: m.Expected,
		Value:    m.Value,
	}
}
