// Package issues provides a unified mismatch type for response and request
// validation problems.
package issues

import (
	"fmt"

	"github.com/erraggy/oastest/internal/severity"
)

// Issue represents a single divergence found while comparing an HTTP
// exchange against its schema definition.
type Issue struct {
	// Path is the JSON path to the problematic value within the payload
	// (e.g., "$.pets[3].id"). For non-body issues it names the location
	// (e.g., "header.X-Rate-Limit").
	Path string
	// Message is a human-readable description of the mismatch
	Message string
	// Severity indicates the severity level of the mismatch
	Severity severity.Severity
	// Field is the specific schema field that triggered the mismatch
	// (e.g., "required", "enum", "maxLength")
	Field string
	// Value is the offending payload value (optional; redacted for
	// sensitive locations)
	Value any
	// Expected is a short description of what the schema requires (optional)
	Expected string
	// OperationContext identifies the matched operation and response
	// definition. Nil when the exchange never matched an operation.
	OperationContext *OperationContext
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	pathWithContext := i.Path
	if i.OperationContext != nil && !i.OperationContext.IsEmpty() {
		pathWithContext = fmt.Sprintf("%s %s", i.Path, i.OperationContext.String())
	}

	result := fmt.Sprintf("%s %s: %s", symbol, pathWithContext, i.Message)

	if i.Expected != "" {
		result += fmt.Sprintf("\n    Expected: %s", i.Expected)
	}
	if i.Value != nil {
		result += fmt.Sprintf("\n    Actual: %v", i.Value)
	}

	return result
}
