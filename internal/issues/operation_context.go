package issues

import "fmt"

// OperationContext identifies the operation an HTTP exchange matched and the
// response definition the payload was compared against.
type OperationContext struct {
	// Method is the HTTP method (GET, POST, etc.)
	Method string
	// Path is the documented path template (e.g., "/pets/{petId}")
	Path string
	// OperationID is the operationId if defined (may be empty)
	OperationID string
	// Status is the response definition key that was selected for the
	// comparison: an exact code ("200"), a wildcard ("2XX"), or "default".
	// Empty for request-side issues.
	Status string
}

// String returns a formatted string representation of the operation context.
// Returns empty string if the context is empty.
func (c OperationContext) String() string {
	if c.IsEmpty() {
		return ""
	}

	var primary string
	switch {
	case c.OperationID != "":
		primary = fmt.Sprintf("operationId: %s", c.OperationID)
	case c.Method != "":
		primary = fmt.Sprintf("%s %s", c.Method, c.Path)
	default:
		return fmt.Sprintf("(path: %s)", c.Path)
	}

	if c.Status != "" {
		return fmt.Sprintf("(%s, response %s)", primary, c.Status)
	}
	return fmt.Sprintf("(%s)", primary)
}

// IsEmpty returns true if the context has no meaningful information.
func (c OperationContext) IsEmpty() bool {
	return c.Method == "" && c.Path == "" && c.OperationID == ""
}
