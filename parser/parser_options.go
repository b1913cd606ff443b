package parser

import (
	"errors"
	"fmt"
	"io"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	// Configuration options
	resolveRefs       bool
	validateStructure bool
	logger            Logger

	// Resource limits (0 means use default)
	maxRefDepth     int
	maxDocumentSize int64

	// Source identification
	sourceName string
}

// ParseWithOptions parses an OpenAPI document using functional options.
// This provides a flexible, extensible API that combines input source
// selection and configuration in a single function call.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	    parser.WithResolveRefs(true),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		ResolveRefs:       cfg.resolveRefs,
		ValidateStructure: cfg.validateStructure,
		Logger:            cfg.logger,
		MaxRefDepth:       cfg.maxRefDepth,
		MaxDocumentSize:   cfg.maxDocumentSize,
	}

	switch {
	case cfg.filePath != nil:
		result, err := p.Parse(*cfg.filePath)
		if err != nil {
			return result, err
		}
		if cfg.sourceName != "" {
			result.SourceName = cfg.sourceName
		}
		return result, nil
	case cfg.reader != nil:
		return p.ParseReader(cfg.reader, cfg.sourceName)
	case cfg.bytes != nil:
		return p.ParseBytes(cfg.bytes, cfg.sourceName)
	default:
		// Unreachable: applyOptions validates that a source is set
		return nil, fmt.Errorf("parser: no input source specified")
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		resolveRefs:       false,
		validateStructure: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	selected := 0
	for _, set := range []bool{cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil} {
		if set {
			selected++
		}
	}
	switch {
	case selected == 0:
		return nil, errors.New("parser: must specify an input source (use WithFilePath, WithReader, or WithBytes)")
	case selected > 1:
		return nil, errors.New("parser: must specify exactly one input source")
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("parser: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("parser: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithResolveRefs enables or disables local reference resolution ($ref)
// Default: false
func WithResolveRefs(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.resolveRefs = enabled
		return nil
	}
}

// WithValidateStructure enables or disables basic structure validation
// Default: true
func WithValidateStructure(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.validateStructure = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output during parsing.
// By default, no logging is performed (nil logger).
//
// The logger interface is compatible with log/slog, zap, and zerolog.
// Use NewSlogAdapter to wrap a *slog.Logger.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxRefDepth sets the maximum depth for resolving nested $ref pointers.
// This prevents stack overflow from deeply nested (but non-circular) references.
// A value of 0 means use the default (100).
// Returns an error if depth is negative.
func WithMaxRefDepth(depth int) Option {
	return func(cfg *parseConfig) error {
		if depth < 0 {
			return fmt.Errorf("parser: maxRefDepth cannot be negative")
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxDocumentSize sets the maximum document size in bytes.
// This prevents resource exhaustion from arbitrarily large inputs.
// A value of 0 means use the default (50MB).
// Returns an error if size is negative.
func WithMaxDocumentSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if size < 0 {
			return fmt.Errorf("parser: maxDocumentSize cannot be negative")
		}
		cfg.maxDocumentSize = size
		return nil
	}
}

// WithSourceName specifies a meaningful name for the source document.
// This is particularly useful when parsing from bytes or a reader, where the
// default names ("ParseBytes", "ParseReader") are not descriptive. The name
// is used in error messages and diagnostic output.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithBytes(data),
//	    parser.WithSourceName("users-api"),
//	)
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		if name == "" {
			return fmt.Errorf("parser: source name cannot be empty")
		}
		cfg.sourceName = name
		return nil
	}
}
