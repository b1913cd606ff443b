// Package severity provides severity level constants and utilities
// for mismatches reported by the tester and middleware packages.
//
// All severity levels are re-exported by each public package that uses them:
//   - SeverityInfo: Informational notices about choices made during validation
//   - SeverityWarning: Format hints, unknown media types, or recommendations
//   - SeverityError: Payload divergences from the documented schema
//   - SeverityCritical: Responses that cannot be validated at all
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a mismatch found while comparing
// an HTTP exchange against its schema definition.
type Severity int

const (
	// SeverityError indicates a divergence between the payload and the schema
	// that makes the response non-conformant.
	SeverityError Severity = iota

	// SeverityWarning indicates format hints, undocumented-but-tolerated
	// content, or recommendations that don't fail the comparison but should
	// be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates an exchange that cannot be validated at all,
	// such as a body that is not JSON or a status code with no definition.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
