// Package tester validates actual HTTP responses against OpenAPI specifications.
//
// This package answers one question in API test suites: does the response the
// server really sent match what the specification documents? It supports both
// OAS 2.0 (Swagger) and OAS 3.x specifications.
//
// # Features
//
//   - Route resolution: concrete request paths matched to documented templates
//   - Response definition lookup: exact status codes, wildcard ranges (2XX), default
//   - Schema comparison: type checking, constraints, enum, composition (allOf/anyOf/oneOf)
//   - Test reporting: one test error per mismatch, with JSON paths into the payload
//   - Key casing checks: verify payload keys follow camelCase, snake_case, and friends
//   - Strict mode: flag undocumented payload keys and write-only leaks
//
// # Basic Usage
//
// Create a Tester from a parsed OpenAPI specification and assert responses
// against it:
//
//	parsed, _ := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	    parser.WithResolveRefs(true),
//	)
//	tt, err := tester.New(parsed)
//	if err != nil {
//	    t.Fatal(err)
//	}
//
//	resp, _ := srv.Client().Get(srv.URL + "/pets/42")
//	tt.Assert(t, resp)
//
// Assert reports every schema mismatch through t.Errorf and aborts the test
// when the response cannot be compared at all (unknown path, undocumented
// method or status code, non-JSON body).
//
// # Inspecting Results
//
// For table tests or custom reporting, ValidateResponse returns the outcome
// instead of reporting it:
//
//	res := tt.ValidateResponse(resp)
//	if !res.Valid {
//	    for _, m := range res.Errors {
//	        log.Printf("mismatch: %s", m)
//	    }
//	}
//
// Result.Err carries the typed failure when comparison never ran:
//
//	var routeErr *oaserrors.RouteError
//	if errors.As(res.Err, &routeErr) {
//	    log.Printf("unknown path, near misses: %v", routeErr.Suggestions)
//	}
//
// # Recorded Responses
//
// httptest.ResponseRecorder results carry no request, so ValidateResponse
// cannot learn the method and path from them. Use ValidateResponseData with
// the captured parts instead:
//
//	req := httptest.NewRequest(http.MethodGet, "/pets/42", nil)
//	rec := httptest.NewRecorder()
//	handler.ServeHTTP(rec, req)
//	res := tt.ValidateResponseData(req, rec.Code, rec.Header(), rec.Body.Bytes())
//
// # Schema Comparison
//
// Response bodies are compared against the documented schema including:
//
//   - Type checking (string, number, integer, boolean, array, object, null)
//   - String constraints (minLength, maxLength, pattern, format, enum)
//   - Number constraints (minimum, maximum, exclusiveMin/Max, multipleOf)
//   - Array constraints (minItems, maxItems, uniqueItems)
//   - Object constraints (required, properties, additionalProperties)
//   - Composition (allOf, anyOf, oneOf, not)
//   - Nullable fields (OAS 3.0 nullable, OAS 3.1 type arrays)
//
// Format checks (email, uuid, date-time, ...) report warnings rather than
// errors, matching their advisory role in the specification.
//
// # Key Casing
//
// APIs that promise a key naming convention can enforce it on every payload
// key:
//
//	tt, _ := tester.New(parsed,
//	    tester.WithCase(tester.CaseCamel),
//	    tester.WithCaseWhitelist("IP", "DHCP"),
//	)
//
// Whitelisted keys are exempt wherever they appear.
package tester
