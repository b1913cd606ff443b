// Package middleware validates live HTTP traffic against an OpenAPI document.
//
// While the tester package asserts inside test functions, this package
// watches real exchanges as they flow through a server in integration or
// staging environments. Responses that diverge from the document are logged
// and counted, never blocked: by the time the comparison runs the client
// already has the bytes. Request bodies can additionally be validated and,
// when configured, rejected with a 400 and a JSON issue list before they
// reach the handler.
//
// # Basic Usage
//
//	parsed, _ := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	    parser.WithResolveRefs(true),
//	)
//	m, err := middleware.New(parsed, middleware.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", m.Wrap(mux))
//
// # Configuration
//
// Config is populated programmatically or from OASTEST_* environment
// variables via LoadConfig, which also reads a .env file when one exists:
//
//	OASTEST_VALIDATE_RESPONSE=true
//	OASTEST_VALIDATE_REQUEST_BODY=true
//	OASTEST_REJECT_INVALID_REQUEST_BODIES=false
//	OASTEST_VALIDATION_EXEMPT_URLS=^/health,^/metrics
//	OASTEST_LOG_LEVEL=warn
//
// # Observability
//
// Each validated exchange carries a correlation id in its log fields. Two
// Prometheus counters are registered on the configured registerer:
// oastest_validations_total{direction, outcome} and
// oastest_validation_failures_total{method, path}.
//
// # Gin
//
// Gin adapts the same validator for gin routers:
//
//	r := gin.New()
//	r.Use(middleware.Gin(m))
package middleware
