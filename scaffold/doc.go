// Package scaffold generates a ready-to-edit Go test file from an OpenAPI
// document, with one subtest per documented operation.
//
// The generated file parses the same document at runtime, builds a
// tester.Tester, sends one request per operation to a configurable server,
// and asserts each response against its documented schema:
//
//	parsed, err := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	    parser.WithResolveRefs(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := scaffold.Generate(parsed, scaffold.Config{
//	    PackageName: "petstore",
//	    ServerURL:   "http://localhost:8080",
//	    OutputPath:  "petstore/contract_test.go",
//	})
//
// Subtests that need human input before they can pass, such as operations
// with path parameters or request bodies, are generated with a t.Skip naming
// what to fill in. The file compiles and runs green immediately; removing a
// skip arms that operation's assertion.
//
// Output is passed through goimports-equivalent processing, so the returned
// source is formatted and its import block matches what the tests actually
// use.
package scaffold
