// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes response and request-body validation against OpenAPI documents as
// MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oastest"
)

const serverInstructions = `oastest MCP server — checks recorded HTTP responses and request bodies against an OpenAPI document.

Configuration: All defaults are configurable via OASTEST_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASTEST_CACHE_FILE_TTL (default: 15m) — cache TTL for local file specs
- OASTEST_CACHE_URL_TTL (default: 5m) — cache TTL for URL-fetched specs
- OASTEST_CACHE_ENABLED (default: true) — disable spec caching entirely
- OASTEST_CHECK_LIMIT (default: 100) — default page size for mismatch lists
- OASTEST_CHECK_STRICT (default: false) — report undocumented payload keys by default
- OASTEST_CHECK_NO_WARNINGS (default: false) — suppress warnings by default
- OASTEST_CHECK_CASE — payload key convention to enforce (camelCase, PascalCase, snake_case, kebab-case)

Caching: Parsed specs are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oastest", Version: oastest.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_response",
		Description: "Check a recorded HTTP response against an OpenAPI document. Provide the request method and path, the response status, and the response body; the tool resolves the documented operation and compares the body against its schema. Returns mismatches with JSON path locations. Use no_warnings to focus on errors, offset/limit to paginate. Strict mode, warning suppression, and key-casing defaults are configurable via OASTEST_CHECK_STRICT, OASTEST_CHECK_NO_WARNINGS, and OASTEST_CHECK_CASE env vars.",
	}, handleCheckResponse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_request_body",
		Description: "Check a recorded HTTP request body against an OpenAPI document. Provide the request method, path, and body; the tool resolves the documented operation's request body definition and compares. Returns mismatches with JSON path locations. Shares the check_response defaults and pagination.",
	}, handleCheckRequestBody)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_endpoints",
		Description: "List every documented operation in an OpenAPI document as (method, path) pairs with operationId, summary, and deprecation status, sorted by path then method. Use offset/limit to paginate large documents.",
	}, handleListEndpoints)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.CheckLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.CheckLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
