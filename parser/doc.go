// Package parser loads OpenAPI Specification (OAS) documents into an
// in-memory tree that the tester, middleware, and scaffold packages consume.
//
// The parser supports OAS 2.0 (Swagger), 3.0.x, 3.1.x, and 3.2.0 documents in
// YAML or JSON format. JSON input is detected from the first non-space byte
// and decoded with encoding/json directly; everything else goes through
// go.yaml.in/yaml/v4.
//
// # Basic Usage
//
//	p := parser.New()
//	result, err := p.Parse("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if doc, ok := result.OAS3(); ok {
//		fmt.Printf("Title: %s\n", doc.Info.Title)
//	}
//
// # Functional Options
//
// ParseWithOptions combines input selection and configuration in one call:
//
//	result, err := parser.ParseWithOptions(
//		parser.WithBytes(data),
//		parser.WithSourceName("pets-api"),
//		parser.WithResolveRefs(true),
//	)
//
// # Reference Resolution
//
// When ResolveRefs is enabled, local references ($ref values starting with
// "#/") are expanded in place before the typed document is built. Circular
// references are detected and left as $ref pointers, recorded as a warning
// on the ParseResult. References into other files or URLs are not resolved;
// they produce a *oaserrors.ReferenceError.
//
// # Validation
//
// Structural validation (on by default) checks the required root fields,
// info.title and info.version, path patterns, operationId uniqueness, and
// response status-code keys. Violations are collected in ParseResult.Errors
// rather than aborting the parse, so callers can inspect a partially valid
// document.
package parser
