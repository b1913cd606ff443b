package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrRoute indicates a request path resolved to no documented template.
	ErrRoute = errors.New("route error")

	// ErrMethod indicates an invalid or undocumented HTTP verb.
	ErrMethod = errors.New("method error")

	// ErrResponse indicates a status code with no response definition.
	ErrResponse = errors.New("response error")

	// ErrBody indicates a response body that cannot be decoded for comparison.
	ErrBody = errors.New("body error")

	// ErrCase indicates a payload key violating the configured convention.
	ErrCase = errors.New("case error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse an OpenAPI document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
// This includes missing targets and circular references.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when the flag is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	return false
}

// RouteError represents a request path that resolved to no documented path
// template.
type RouteError struct {
	// Path is the concrete request path that failed to resolve
	Path string
	// Suggestions holds documented templates that nearly match, most
	// similar first. Empty when nothing in the document comes close.
	Suggestions []string
}

// Error returns a human-readable error message. When near-miss templates
// exist the message lists them, mirroring the assertion output users see.
func (e *RouteError) Error() string {
	msg := fmt.Sprintf("could not resolve path %q", e.Path)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Did you mean one of these? [%s]", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Unwrap returns nil as RouteError has no underlying cause.
func (e *RouteError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *RouteError) Is(target error) bool {
	return target == ErrRoute
}

// MethodError represents an HTTP verb that is either not a verb schema
// operations can document, or not documented for the resolved path.
type MethodError struct {
	// Method is the offending verb as given by the caller
	Method string
	// Path is the resolved path template; empty when the verb itself is invalid
	Path string
	// Documented lists the verbs the path does document; nil when the verb
	// itself is invalid, in which case the global allowed set is reported.
	Documented []string
}

// Error returns a human-readable error message.
func (e *MethodError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("method %q is invalid. Should be one of: GET, POST, PUT, PATCH, DELETE, OPTIONS, HEAD.", e.Method)
	}
	msg := fmt.Sprintf("method %q is not documented for path %q", e.Method, e.Path)
	if len(e.Documented) > 0 {
		msg += fmt.Sprintf(". Documented methods: %s.", strings.Join(e.Documented, ", "))
	}
	return msg
}

// Unwrap returns nil as MethodError has no underlying cause.
func (e *MethodError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *MethodError) Is(target error) bool {
	return target == ErrMethod
}

// ResponseError represents a status code with no response definition on the
// matched operation, after exact, wildcard, and default lookup all failed.
type ResponseError struct {
	// Status is the observed HTTP status code
	Status int
	// Method and Path identify the matched operation
	Method string
	Path   string
	// Documented lists the response keys the operation does define
	Documented []string
}

// Error returns a human-readable error message.
func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("no response documented for status %d", e.Status)
	if e.Method != "" && e.Path != "" {
		msg += fmt.Sprintf(" (%s %s)", e.Method, e.Path)
	}
	if len(e.Documented) > 0 {
		msg += fmt.Sprintf(". Documented status codes: %s.", strings.Join(e.Documented, ", "))
	}
	return msg
}

// Unwrap returns nil as ResponseError has no underlying cause.
func (e *ResponseError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResponseError) Is(target error) bool {
	return target == ErrResponse
}

// BodyError represents a response body that cannot be decoded into a value
// tree for schema comparison.
type BodyError struct {
	// ContentType is the response's Content-Type header value
	ContentType string
	// Cause is the underlying decode error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *BodyError) Error() string {
	msg := "response body cannot be tested against a response schema"
	if e.ContentType != "" {
		msg += fmt.Sprintf(" (content type %q)", e.ContentType)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *BodyError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *BodyError) Is(target error) bool {
	return target == ErrBody
}

// CaseError represents a payload key that violates the configured naming
// convention.
type CaseError struct {
	// Key is the offending payload key
	Key string
	// Expected names the convention the key should follow (e.g., "camelCase")
	Expected string
}

// Error returns a human-readable error message.
func (e *CaseError) Error() string {
	return fmt.Sprintf("the key %q is not properly %s", e.Key, e.Expected)
}

// Unwrap returns nil as CaseError has no underlying cause.
func (e *CaseError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *CaseError) Is(target error) bool {
	return target == ErrCase
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when parsing exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
