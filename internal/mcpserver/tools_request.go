package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type checkRequestBodyInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OAS document to check against"`
	Method      string    `json:"method"                 jsonschema:"HTTP method of the recorded request (e.g. POST)"`
	Path        string    `json:"path"                   jsonschema:"Concrete request path (e.g. /pets)"`
	Body        string    `json:"body,omitempty"         jsonschema:"Recorded request body"`
	ContentType string    `json:"content_type,omitempty" jsonschema:"Request Content-Type header (default application/json)"`
	Strict      *bool     `json:"strict,omitempty"       jsonschema:"Report payload keys the schema does not document"`
	NoWarnings  *bool     `json:"no_warnings,omitempty"  jsonschema:"Suppress warnings from output"`
	Offset      int       `json:"offset,omitempty"       jsonschema:"Skip the first N mismatches (for pagination)"`
	Limit       int       `json:"limit,omitempty"        jsonschema:"Maximum mismatches to return (default 100). Applied independently to errors and warnings arrays."`
}

func handleCheckRequestBody(ctx context.Context, _ *mcp.CallToolRequest, input checkRequestBodyInput) (*mcp.CallToolResult, checkOutput, error) {
	req, err := exchangeRequest(input.Method, input.Path)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}
	req.Header.Set("Content-Type", defaultContentType(input.ContentType))

	parsed, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}
	t, noWarnings, err := buildTester(parsed, input.Strict, input.NoWarnings)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	res := t.ValidateRequestBody(req, []byte(input.Body))
	defer res.Release()

	return nil, buildCheckOutput(res, noWarnings, input.Offset, input.Limit), nil
}
