// Package oastest validates that a web API's actual HTTP responses conform to
// its published OpenAPI Specification (OAS) document.
//
// oastest is a test-utility library: given a schema document and a captured
// HTTP response, it locates the schema definition for the matching
// path/method/status and compares it field-by-field against the response
// body, reporting each mismatch as a descriptive assertion failure.
//
// # Overview
//
// The library consists of four primary packages:
//
//   - parser: Load and analyze OpenAPI schema documents
//   - tester: Match responses to operations and validate payloads against schemas
//   - middleware: Validate live traffic in tests and staging environments
//   - scaffold: Generate conformance-test skeletons from a schema document
//
// All packages support the following OpenAPI Specification versions:
//   - OAS 2.0 (Swagger): https://spec.openapis.org/oas/v2.0.html
//   - OAS 3.0.x (3.0.0 - 3.0.4): https://spec.openapis.org/oas/v3.0.0.html
//   - OAS 3.1.x (3.1.0 - 3.1.2): https://spec.openapis.org/oas/v3.1.0.html
//   - OAS 3.2.0: https://spec.openapis.org/oas/v3.2.0.html
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/oastest
//
// # Quick Start
//
// Validate a response captured with httptest against the schema definition
// for its route:
//
//	import (
//		"github.com/erraggy/oastest/parser"
//		"github.com/erraggy/oastest/tester"
//	)
//
//	func TestListPets(t *testing.T) {
//		result, err := parser.New().Parse("openapi.yaml")
//		if err != nil {
//			t.Fatal(err)
//		}
//		tt, err := tester.New(result)
//		if err != nil {
//			t.Fatal(err)
//		}
//
//		req := httptest.NewRequest(http.MethodGet, "/pets", nil)
//		rec := httptest.NewRecorder()
//		mux.ServeHTTP(rec, req)
//
//		tt.AssertData(t, req, rec.Code, rec.Header(), rec.Body.Bytes())
//	}
//
// Responses from http.Client or httptest.Server carry their request and can
// be asserted directly with Assert:
//
//	resp, err := srv.Client().Get(srv.URL + "/pets")
//	if err != nil {
//		t.Fatal(err)
//	}
//	tt.Assert(t, resp)
//
// # Parser Package
//
// The parser package loads OpenAPI schema documents in YAML or JSON format
// into an immutable in-memory tree. It supports version detection, local
// reference resolution, and structural validation.
//
// Key features:
//   - Multi-format support (YAML, JSON)
//   - Local reference resolution ($ref)
//   - Operation ID uniqueness checking
//   - Response status-code validation
//
// Example:
//
//	p := parser.New()
//	p.ValidateStructure = true
//	p.ResolveRefs = true
//
//	result, err := p.Parse("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Type assertion to access version-specific fields
//	if doc, ok := result.OAS3(); ok {
//		fmt.Printf("Title: %s\n", doc.Info.Title)
//		fmt.Printf("Paths: %d\n", len(doc.Paths))
//	}
//
// See the parser package documentation for more details.
//
// # Tester Package
//
// The tester package is the core of the library. It resolves a concrete
// request path against the document's path templates, finds the response
// definition for the observed status code, and recursively compares the
// decoded response body against the schema.
//
// Key features:
//   - Path template matching with specificity ordering
//   - "Did you mean" suggestions for unresolved paths
//   - Exact, wildcard (2XX), and default response lookup
//   - Recursive schema comparison (types, enums, bounds, composition)
//   - Optional key-casing conformance (camelCase, snake_case, ...)
//   - testing.T integration through a minimal TB interface
//
// Example:
//
//	tt, err := tester.New(result, tester.WithIncludeWarnings(true))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res := tt.ValidateResponse(resp)
//	for _, mismatch := range res.Errors {
//		fmt.Println(mismatch.String())
//	}
//
// See the tester package documentation for more details.
//
// # Middleware Package
//
// The middleware package validates real traffic as it flows through a
// net/http or gin handler chain. Invalid responses are logged; invalid
// request bodies can optionally be rejected with a 400.
//
// Example:
//
//	mw, err := middleware.New(result, middleware.LoadConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	srv := &http.Server{Handler: mw.Wrap(mux)}
//
// See the middleware package documentation for more details.
//
// # Scaffold Package
//
// The scaffold package generates a Go test file with one subtest per
// documented operation, formatted with golang.org/x/tools/imports.
//
// See the scaffold package documentation for more details.
//
// # Command Line Interface
//
// The oastest command exposes the library on the command line:
//
//	oastest endpoints openapi.yaml
//	oastest check openapi.yaml -method GET -path /pets -status 200 -body resp.json
//	oastest scaffold openapi.yaml -o ./gen -pkg pets_test
//	oastest mcp
//
// # Error Handling
//
// All packages return typed errors from the oaserrors package. Use
// errors.Is and errors.As for comparisons:
//
//	_, err := parser.New().Parse("openapi.yaml")
//	var perr *oaserrors.ParseError
//	if errors.As(err, &perr) {
//		fmt.Printf("parse failed for %s: %v\n", perr.Path, perr.Cause)
//	}
package oastest
