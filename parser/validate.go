package parser

import (
	"fmt"

	"github.com/erraggy/oastest/internal/maputil"
)

// validateStructure performs basic structure validation on the typed document.
// Violations are collected rather than returned as a single error so callers
// can inspect everything that is wrong with a document at once.
func (p *Parser) validateStructure(result *ParseResult) []error {
	switch {
	case result.OASVersion == OASVersion20:
		doc, ok := result.Document.(*OAS2Document)
		if !ok {
			return []error{fmt.Errorf("internal error: document type mismatch for OAS 2.0 (expected *OAS2Document, got %T)", result.Document)}
		}
		return p.validateOAS2(doc)

	case result.OASVersion.IsOAS3():
		doc, ok := result.Document.(*OAS3Document)
		if !ok {
			return []error{fmt.Errorf("internal error: document type mismatch for OAS 3.x (expected *OAS3Document, got %T)", result.Document)}
		}
		return p.validateOAS3(doc)

	default:
		return []error{fmt.Errorf("unsupported OpenAPI version: %s (only versions 2.0 and 3.x are supported)", result.Version)}
	}
}

// validateOAS2 validates an OAS 2.0 document
func (p *Parser) validateOAS2(doc *OAS2Document) []error {
	errors := make([]error, 0)

	if doc.Swagger == "" {
		errors = append(errors, fmt.Errorf("oas 2.0: missing required root field 'swagger': must be set to \"2.0\""))
	} else if doc.Swagger != "2.0" {
		errors = append(errors, fmt.Errorf("oas 2.0: invalid 'swagger' field value: expected \"2.0\", got \"%s\"", doc.Swagger))
	}

	errors = append(errors, p.validateInfo(doc.Info, "2.0")...)

	if doc.Paths == nil {
		errors = append(errors, fmt.Errorf("oas 2.0: missing required root field 'paths': Paths object is required per spec"))
	} else {
		errors = append(errors, p.validatePaths(doc.Paths, "2.0", oas2ParameterLocations)...)
	}

	return errors
}

// validateOAS3 validates an OAS 3.x document
func (p *Parser) validateOAS3(doc *OAS3Document) []error {
	errors := make([]error, 0)
	version := doc.OpenAPI

	if doc.OpenAPI == "" {
		errors = append(errors, fmt.Errorf("oas 3.x: missing required root field 'openapi': must be set to a valid 3.x version (e.g., \"3.0.3\", \"3.1.0\")"))
		version = "3.x"
	}

	errors = append(errors, p.validateInfo(doc.Info, version)...)

	// Paths is required in 3.0.x; in 3.1+ either paths or webhooks must be present
	if doc.OASVersion >= OASVersion310 {
		if doc.Paths == nil && len(doc.Webhooks) == 0 {
			errors = append(errors, fmt.Errorf("oas %s: document must have either 'paths' or 'webhooks': at least one is required in OAS 3.1+", version))
		}
	} else if doc.Paths == nil {
		errors = append(errors, fmt.Errorf("oas %s: missing required root field 'paths': Paths object is required in OAS 3.0.x", version))
	}

	if doc.Paths != nil {
		errors = append(errors, p.validatePaths(doc.Paths, version, oas3ParameterLocations)...)
	}

	return errors
}

func (p *Parser) validateInfo(info *Info, version string) []error {
	errors := make([]error, 0)
	if info == nil {
		errors = append(errors, fmt.Errorf("oas %s: missing required root field 'info': Info object is required per spec", version))
	} else {
		if info.Title == "" {
			errors = append(errors, fmt.Errorf("oas %s: missing required field 'info.title': Info object must have a title per spec", version))
		}
		if info.Version == "" {
			errors = append(errors, fmt.Errorf("oas %s: missing required field 'info.version': Info object must have a version string per spec", version))
		}
	}
	return errors
}

var (
	oas2ParameterLocations = map[string]bool{
		"query": true, "header": true, "path": true, "formData": true, "body": true,
	}
	oas3ParameterLocations = map[string]bool{
		"query": true, "header": true, "path": true, "cookie": true,
	}
)

func (p *Parser) validatePaths(paths map[string]*PathItem, version string, locations map[string]bool) []error {
	errors := make([]error, 0)
	operationIDs := make(map[string]string)

	// Sorted for deterministic error ordering
	patterns := maputil.SortedKeys(paths)

	for _, pattern := range patterns {
		pathItem := paths[pattern]
		if pathItem == nil {
			continue
		}

		if pattern != "" && pattern[0] != '/' {
			errors = append(errors, fmt.Errorf("oas %s: invalid path pattern 'paths.%s': path must begin with '/'", version, pattern))
		}

		for method, op := range pathItem.Operations() {
			opPath := fmt.Sprintf("paths.%s.%s", pattern, method)
			errors = append(errors, p.validateOperation(op, opPath, version, operationIDs, locations)...)
		}
	}

	return errors
}

func (p *Parser) validateOperation(op *Operation, opPath, version string, operationIDs map[string]string, locations map[string]bool) []error {
	errors := make([]error, 0)

	// operationId must be unique across the document
	if op.OperationID != "" {
		if existingPath, exists := operationIDs[op.OperationID]; exists {
			errors = append(errors, fmt.Errorf("oas %s: duplicate operationId '%s' at '%s': previously defined at '%s'",
				version, op.OperationID, opPath, existingPath))
		} else {
			operationIDs[op.OperationID] = opPath
		}
	}

	if op.Responses == nil {
		errors = append(errors, fmt.Errorf("oas %s: missing required field '%s.responses': Operation must have a responses object", version, opPath))
	}

	seen := make(map[string]string, len(op.Parameters))
	for i, param := range op.Parameters {
		if param == nil || param.Ref != "" {
			continue
		}
		paramPath := fmt.Sprintf("%s.parameters[%d]", opPath, i)

		if param.Name == "" {
			errors = append(errors, fmt.Errorf("oas %s: missing required field '%s.name': Parameter must have a name", version, paramPath))
		}
		if param.In == "" {
			errors = append(errors, fmt.Errorf("oas %s: missing required field '%s.in': Parameter must specify its location", version, paramPath))
		} else if !locations[param.In] {
			errors = append(errors, fmt.Errorf("oas %s: invalid value for '%s.in': \"%s\" is not a valid parameter location", version, paramPath, param.In))
		}

		// (name, in) pairs must be unique within an operation
		key := param.In + ":" + param.Name
		if prev, dup := seen[key]; dup {
			errors = append(errors, fmt.Errorf("oas %s: duplicate parameter (name: %s, in: %s) at '%s': previously defined at '%s'",
				version, param.Name, param.In, paramPath, prev))
		} else {
			seen[key] = paramPath
		}
	}

	return errors
}
