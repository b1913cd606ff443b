package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oastest/oaserrors"
)

// MaxDocumentSize is the default maximum size (in bytes) for a document.
// This prevents resource exhaustion from loading arbitrarily large inputs.
const MaxDocumentSize = 50 * 1024 * 1024 // 50MB

// Parser handles OpenAPI document parsing
type Parser struct {
	// ResolveRefs determines whether to resolve local $ref references
	ResolveRefs bool
	// ValidateStructure determines whether to perform basic structure validation
	ValidateStructure bool
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger

	// Resource limits (0 means use default)

	// MaxRefDepth is the maximum depth for resolving nested $ref pointers.
	// Default: 100
	MaxRefDepth int
	// MaxDocumentSize is the maximum document size in bytes.
	// Default: 50MB
	MaxDocumentSize int64
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		ResolveRefs:       false,
		ValidateStructure: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) maxDocumentSize() int64 {
	if p.MaxDocumentSize > 0 {
		return p.MaxDocumentSize
	}
	return MaxDocumentSize
}

// SourceFormat represents the format of the source OpenAPI document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains the parsed OpenAPI document and metadata.
// This structure provides both the raw parsed data and a version-specific
// typed representation of the document.
//
// # Immutability
//
// While Go does not enforce immutability, callers should treat ParseResult as
// read-only after parsing. The tester and middleware packages index into the
// document tree and assume it does not change underneath them.
type ParseResult struct {
	// SourceName identifies the document's input source. For Parse this is
	// the file path; ParseReader and ParseBytes callers supply their own name
	// (defaulting to "ParseReader" / "ParseBytes").
	SourceName string
	// SourceFormat is the format of the source document (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the detected OAS version string (e.g., "2.0", "3.0.3", "3.1.0")
	Version string
	// Data contains the raw parsed data as a map, potentially with resolved $refs
	Data map[string]any
	// Document contains the version-specific parsed document:
	// - *OAS2Document for OpenAPI 2.0
	// - *OAS3Document for OpenAPI 3.x
	Document any
	// Errors contains structure validation errors. Parsing failures abort the
	// parse and are returned from the Parse methods instead.
	Errors []error
	// Warnings contains non-fatal issues such as circular reference notices
	Warnings []string
	// OASVersion is the enumerated version of the OpenAPI Specification
	OASVersion OASVersion
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// OAS2 returns the parsed document as an *OAS2Document if the document is
// version 2.0 (Swagger), and a boolean indicating whether the type assertion
// succeeded.
//
// Example:
//
//	result, _ := parser.New().Parse("swagger.yaml")
//	if doc, ok := result.OAS2(); ok {
//	    fmt.Println("API Title:", doc.Info.Title)
//	}
func (pr *ParseResult) OAS2() (*OAS2Document, bool) {
	doc, ok := pr.Document.(*OAS2Document)
	return doc, ok
}

// OAS3 returns the parsed document as an *OAS3Document if the document is
// version 3.x, and a boolean indicating whether the type assertion succeeded.
//
// Example:
//
//	result, _ := parser.New().Parse("api.yaml")
//	if doc, ok := result.OAS3(); ok {
//	    fmt.Println("API Title:", doc.Info.Title)
//	}
func (pr *ParseResult) OAS3() (*OAS3Document, bool) {
	doc, ok := pr.Document.(*OAS3Document)
	return doc, ok
}

// IsOAS2 returns true if the parsed document is an OpenAPI 2.0 (Swagger) document.
func (pr *ParseResult) IsOAS2() bool {
	return pr.OASVersion == OASVersion20
}

// IsOAS3 returns true if the parsed document is an OpenAPI 3.x document
// (including 3.0.x, 3.1.x, and 3.2.x).
func (pr *ParseResult) IsOAS3() bool {
	return pr.OASVersion.IsOAS3()
}

// Parse parses an OpenAPI document from a file path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := os.ReadFile(path)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "failed to read file", Cause: err}
	}

	res, err := p.parseBytes(data, path)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime

	// Prefer the file extension over content sniffing when it is conclusive
	if format := detectFormatFromPath(path); format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	return res, nil
}

// ParseReader parses an OpenAPI document from an io.Reader. The name
// identifies the source in errors and reports; if empty, "ParseReader" is used.
func (p *Parser) ParseReader(r io.Reader, name string) (*ParseResult, error) {
	if name == "" {
		name = "ParseReader"
	}
	limit := p.maxDocumentSize()

	loadStart := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: name, Message: "failed to read data", Cause: err}
	}

	res, err := p.parseBytes(data, name)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseBytes parses an OpenAPI document from a byte slice. The name
// identifies the source in errors and reports; if empty, "ParseBytes" is used.
func (p *Parser) ParseBytes(data []byte, name string) (*ParseResult, error) {
	if name == "" {
		name = "ParseBytes"
	}
	return p.parseBytes(data, name)
}

// parseBytes runs the parse pipeline: size guard, format detection, raw
// decode, optional reference resolution, version detection, typed decode,
// and optional structure validation.
func (p *Parser) parseBytes(data []byte, name string) (*ParseResult, error) {
	if limit := p.maxDocumentSize(); int64(len(data)) > limit {
		return nil, &oaserrors.ParseError{
			Path:    name,
			Message: fmt.Sprintf("document exceeds maximum size limit (%d bytes)", limit),
			Cause: &oaserrors.ResourceLimitError{
				ResourceType: "document_size",
				Limit:        limit,
				Actual:       int64(len(data)),
			},
		}
	}

	result := &ParseResult{
		SourceName:   name,
		SourceFormat: detectFormatFromContent(data),
		SourceSize:   int64(len(data)),
		Errors:       make([]error, 0),
		Warnings:     make([]string, 0),
	}

	// First pass: parse to a generic map for version detection and $ref
	// resolution. The YAML decoder handles both YAML and JSON, but JSON input
	// skips the YAML AST overhead entirely.
	var rawData map[string]any
	if result.SourceFormat == SourceFormatJSON {
		if err := json.Unmarshal(data, &rawData); err != nil {
			return nil, &oaserrors.ParseError{Path: name, Message: "failed to parse JSON", Cause: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &rawData); err != nil {
			return nil, &oaserrors.ParseError{Path: name, Message: "failed to parse YAML", Cause: err}
		}
	}

	// Resolve local references if enabled (before version-specific parsing)
	hasCircularRefs := false
	if p.ResolveRefs {
		resolver := newRefResolver(p.MaxRefDepth)
		if err := resolver.ResolveAll(rawData); err != nil {
			return nil, &oaserrors.ParseError{Path: name, Message: "failed to resolve references", Cause: err}
		}
		hasCircularRefs = resolver.HasCircularRefs()
		p.log().Debug("resolved references", "source", name, "circular", hasCircularRefs)
	}
	result.Data = rawData

	version, err := p.detectVersion(rawData)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: name, Message: "failed to detect OAS version", Cause: err}
	}
	result.Version = version

	if hasCircularRefs {
		result.Warnings = append(result.Warnings, "Warning: Circular references detected. Non-circular references resolved normally. Circular references remain as $ref pointers.")
	}

	// Parse to the version-specific structure. When refs were resolved, the
	// typed document is decoded from the resolved map (via a re-marshal in the
	// source codec) so that expanded content lands in the typed tree.
	// Circular $refs stay as pointer strings, so the re-marshal cannot loop.
	typedInput := data
	if p.ResolveRefs {
		if typedInput, err = marshalRaw(rawData, result.SourceFormat); err != nil {
			return nil, &oaserrors.ParseError{Path: name, Message: "failed to re-encode resolved document", Cause: err}
		}
	}
	doc, oasVersion, err := p.parseVersionSpecific(typedInput, result.SourceFormat, version)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: name, Message: "failed to decode document structure", Cause: err}
	}
	result.Document = doc
	result.OASVersion = oasVersion
	p.log().Debug("parsed document", "source", name, "version", version, "format", result.SourceFormat)

	if p.ValidateStructure {
		result.Errors = append(result.Errors, p.validateStructure(result)...)
		if len(result.Errors) > 0 {
			p.log().Warn("structure validation found issues", "source", name, "count", len(result.Errors))
		}
	}

	return result, nil
}

// detectVersion determines the OAS version string from the raw data
func (p *Parser) detectVersion(data map[string]any) (string, error) {
	// Check for OAS 2.0 (Swagger)
	if swagger, ok := data["swagger"].(string); ok {
		return swagger, nil
	}

	// Check for OAS 3.x
	if openapi, ok := data["openapi"].(string); ok {
		return openapi, nil
	}

	return "", fmt.Errorf("unable to detect OpenAPI version: document must contain either 'swagger: \"2.0\"' (for OAS 2.0) or 'openapi: \"3.x.x\"' (for OAS 3.x) at the root level")
}

// parseVersionSpecific parses the data into a version-specific structure
func (p *Parser) parseVersionSpecific(data []byte, format SourceFormat, version string) (any, OASVersion, error) {
	v, ok := ParseVersion(version)
	if !ok {
		return nil, Unknown, fmt.Errorf("unsupported OpenAPI version: %s (only 2.0 and 3.x versions are supported)", version)
	}

	unmarshal := yaml.Unmarshal
	if format == SourceFormatJSON {
		unmarshal = json.Unmarshal
	}

	if v == OASVersion20 {
		var doc OAS2Document
		if err := unmarshal(data, &doc); err != nil {
			return nil, Unknown, fmt.Errorf("failed to parse OAS 2.0 document structure: %w", err)
		}
		doc.OASVersion = v
		return &doc, v, nil
	}

	var doc OAS3Document
	if err := unmarshal(data, &doc); err != nil {
		return nil, Unknown, fmt.Errorf("failed to parse OAS %s document structure: %w", version, err)
	}
	doc.OASVersion = v
	return &doc, v, nil
}

// marshalRaw re-encodes the resolved raw map in the document's source codec.
func marshalRaw(data map[string]any, format SourceFormat) ([]byte, error) {
	if format == SourceFormatJSON {
		return json.Marshal(data)
	}
	return yaml.Marshal(data)
}
