package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oastest/tester"
)

type listEndpointsInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OAS document to enumerate"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip the first N endpoints (for pagination)"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum endpoints to return (default 100)"`
}

type endpointSummary struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	OperationID string `json:"operation_id,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

type listEndpointsOutput struct {
	Count     int               `json:"count"`
	Returned  int               `json:"returned"`
	Endpoints []endpointSummary `json:"endpoints,omitempty"`
}

func handleListEndpoints(ctx context.Context, _ *mcp.CallToolRequest, input listEndpointsInput) (*mcp.CallToolResult, listEndpointsOutput, error) {
	parsed, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), listEndpointsOutput{}, nil
	}
	t, err := tester.New(parsed)
	if err != nil {
		return errResult(err), listEndpointsOutput{}, nil
	}

	endpoints := t.Endpoints()
	out := listEndpointsOutput{Count: len(endpoints)}
	out.Endpoints = makeSlice[endpointSummary](len(endpoints))
	for _, e := range endpoints {
		out.Endpoints = append(out.Endpoints, endpointSummary{
			Method:      e.Method,
			Path:        e.Path,
			OperationID: e.OperationID,
			Summary:     e.Summary,
			Deprecated:  e.Deprecated,
		})
	}
	out.Endpoints = paginate(out.Endpoints, input.Offset, input.Limit)
	out.Returned = len(out.Endpoints)
	return nil, out, nil
}
