package tester

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oastest/internal/issues"
	"github.com/erraggy/oastest/internal/severity"
)

// Severity indicates how serious a mismatch is.
type Severity = severity.Severity

// Severity levels for mismatches, ordered least to most severe.
const (
	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates format hints, undocumented-but-tolerated
	// content, or recommendations that don't fail the comparison.
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates a divergence between the payload and the
	// documented schema.
	SeverityError = severity.SeverityError
	// SeverityCritical indicates a response that cannot be compared at all.
	SeverityCritical = severity.SeverityCritical
)

// Mismatch is a single divergence found while comparing an HTTP response
// against its documented definition.
type Mismatch = issues.Issue

// OperationContext identifies the operation a response matched and the
// response definition its body was compared against.
type OperationContext = issues.OperationContext

// Result holds the outcome of comparing one HTTP exchange against the parsed
// specification. Most results come from response validation; results from
// ValidateRequestBody leave the response-only fields (Status, ResponseKey)
// zero.
type Result struct {
	// Valid is true when the response matched a documented operation and the
	// comparison found no error-severity mismatches.
	Valid bool

	// Method and Path identify the matched operation. Path is the documented
	// template (e.g., "/pets/{petId}"), not the concrete request path.
	Method string
	Path   string

	// OperationID is the matched operation's operationId, when defined.
	OperationID string

	// PathParams holds the parameter values extracted from the concrete
	// request path (e.g., {"petId": "42"}).
	PathParams map[string]string

	// Status is the observed HTTP status code.
	Status int

	// ResponseKey is the response definition key selected for the comparison:
	// an exact code ("200"), a wildcard ("2XX"), or "default". Empty when no
	// definition matched.
	ResponseKey string

	// ContentType is the response's Content-Type header value.
	ContentType string

	// Err is the failure that prevented schema comparison entirely: a
	// *oaserrors.RouteError, *oaserrors.MethodError, *oaserrors.ResponseError,
	// *oaserrors.BodyError, or *oaserrors.ConfigError for unusable inputs.
	// Nil when the comparison ran.
	Err error

	// Errors holds the error- and critical-severity mismatches.
	Errors []Mismatch

	// Warnings holds the warning- and info-severity mismatches. Populated
	// only when warnings are included (the default).
	Warnings []Mismatch

	// request marks results produced by request-body validation, so Summary
	// can word its output for the right direction.
	request bool
}

// add routes a mismatch into Errors or Warnings based on its severity.
func (r *Result) add(m Mismatch) {
	switch m.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		r.Valid = false
		r.Errors = append(r.Errors, m)
	default:
		r.Warnings = append(r.Warnings, m)
	}
}

// fail records a failure that prevented comparison. The error is preserved in
// Err for errors.Is/errors.As inspection and mirrored as a critical mismatch
// so Summary and the assertion helpers print it.
func (r *Result) fail(err error, message string) {
	r.Valid = false
	r.Err = err
	if message == "" {
		message = err.Error()
	}
	r.Errors = append(r.Errors, Mismatch{
		Path:             "$",
		Message:          message,
		Severity:         severity.SeverityCritical,
		OperationContext: r.operationContext(),
	})
}

// operationContext builds the context for mismatches, or nil before a route
// matched.
func (r *Result) operationContext() *OperationContext {
	if r.Method == "" && r.Path == "" && r.OperationID == "" {
		return nil
	}
	return &OperationContext{
		Method:      r.Method,
		Path:        r.Path,
		OperationID: r.OperationID,
		Status:      r.ResponseKey,
	}
}

// ErrorMessages returns the formatted error mismatches, one string each.
func (r *Result) ErrorMessages() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, m := range r.Errors {
		msgs[i] = m.String()
	}
	return msgs
}

// Summary returns a short human-readable account of the result, suitable for
// logs and failure messages. Valid results summarize the match; invalid
// results list every error mismatch.
func (r *Result) Summary() string {
	direction := "response"
	if r.request {
		direction = "request"
	}

	var sb strings.Builder
	if r.Valid {
		if r.request {
			fmt.Fprintf(&sb, "request body matches %s %s", r.Method, r.Path)
		} else {
			fmt.Fprintf(&sb, "response %d matches %s %s", r.Status, r.Method, r.Path)
			if r.ResponseKey != "" && r.ResponseKey != strconv.Itoa(r.Status) {
				fmt.Fprintf(&sb, " (response %s)", r.ResponseKey)
			}
		}
		if len(r.Warnings) > 0 {
			fmt.Fprintf(&sb, " with %d warning(s)", len(r.Warnings))
		}
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s validation failed with %d error(s):", direction, len(r.Errors))
	for _, m := range r.Errors {
		sb.WriteString("\n")
		sb.WriteString(m.String())
	}
	return sb.String()
}
