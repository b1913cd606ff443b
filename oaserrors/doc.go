// Package oaserrors provides structured error types for the oastest library.
//
// Import path: github.com/erraggy/oastest/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides nine core error types:
//
//   - [ParseError]: YAML/JSON parsing failures and structural issues
//   - [ReferenceError]: $ref resolution failures and circular references
//   - [RouteError]: request paths that resolve to no documented path template
//   - [MethodError]: HTTP verbs that are invalid or undocumented for a path
//   - [ResponseError]: status codes with no response definition
//   - [BodyError]: response bodies that cannot be decoded for comparison
//   - [CaseError]: payload keys that violate the configured naming convention
//   - [ResourceLimitError]: Resource exhaustion (depth, size limits)
//   - [ConfigError]: Invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrRoute]: Matches any [RouteError]
//   - [ErrMethod]: Matches any [MethodError]
//   - [ErrResponse]: Matches any [ResponseError]
//   - [ErrBody]: Matches any [BodyError]
//   - [ErrCase]: Matches any [CaseError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("api.yaml"))
//	if errors.Is(err, oaserrors.ErrParse) {
//	    // Handle parse error
//	}
//
// Extract error details with errors.As():
//
//	var routeErr *oaserrors.RouteError
//	if errors.As(err, &routeErr) {
//	    fmt.Printf("unresolved path: %s\n", routeErr.Path)
//	    for _, s := range routeErr.Suggestions {
//	        fmt.Printf("  did you mean %s?\n", s)
//	    }
//	}
//
// # Error Chaining
//
// Error types with a Cause field support chaining via Unwrap(). This allows
// finding root causes through the standard error chain:
//
//	var parseErr *oaserrors.ParseError
//	if errors.As(err, &parseErr) {
//	    if errors.Is(parseErr.Cause, os.ErrNotExist) {
//	        // The schema file doesn't exist
//	    }
//	}
package oaserrors
