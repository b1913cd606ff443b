package tester

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/erraggy/oastest/internal/severity"
	"github.com/erraggy/oastest/oaserrors"
	"github.com/erraggy/oastest/parser"
)

// ValidateRequestBody compares a request body against the operation's
// documented request schema: the OAS 3.x requestBody entry matching the
// request's Content-Type, or the OAS 2.0 body parameter. The body is passed
// separately so callers that already drained req.Body (middleware, recorded
// traffic) need not restore it first.
//
// Requests and responses share the Result type; request results leave Status
// and ResponseKey zero and Summary words itself accordingly.
func (t *Tester) ValidateRequestBody(req *http.Request, body []byte) *Result {
	r := getResult()
	r.request = true
	if req == nil || req.URL == nil {
		r.fail(&oaserrors.ConfigError{Option: "request", Message: "request is required"}, "")
		return r
	}
	if req.Header != nil {
		r.ContentType = req.Header.Get("Content-Type")
	}

	rt, params, err := t.routes.resolve(req.URL.Path)
	if err != nil {
		var routeErr *oaserrors.RouteError
		if errors.As(err, &routeErr) {
			t.cfg.logger.Debug("path did not resolve",
				"path", req.URL.Path, "suggestions", strings.Join(routeErr.Suggestions, ", "))
		}
		r.fail(err, "")
		return r
	}
	r.Path = rt.template
	r.PathParams = params

	op, err := operationForMethod(rt.item, rt.template, req.Method)
	if err != nil {
		r.fail(err, "")
		return r
	}
	r.Method = strings.ToUpper(req.Method)
	r.OperationID = op.OperationID

	def := requestBodyDefinition(op, rt.item)
	if def == nil {
		if len(body) > 0 {
			t.record(r, Mismatch{
				Path:     "$",
				Message:  "request carries a body but none is documented",
				Severity: severity.SeverityWarning,
				Field:    "requestBody",
			})
		}
		t.finish(r)
		return r
	}

	if len(body) == 0 {
		if def.required {
			r.fail(
				&oaserrors.BodyError{ContentType: r.ContentType, Cause: errors.New("empty request body")},
				"request body is required but the request carries none",
			)
		}
		t.finish(r)
		return r
	}

	schema := t.selectRequestSchema(r, def, op)
	if schema == nil {
		t.finish(r)
		return r
	}

	data, err := unpackBody(body, r.ContentType)
	if err != nil {
		var bodyErr *oaserrors.BodyError
		if errors.As(err, &bodyErr) && bodyErr.Cause != nil {
			r.fail(err, fmt.Sprintf("invalid JSON in request: %v", bodyErr.Cause))
		} else {
			r.fail(err, "request body is not JSON and cannot be tested against the documented schema")
		}
		t.finish(r)
		return r
	}

	t.record(r, t.comparator.compare(data, schema, "$")...)
	if t.cfg.caseConvention != CaseNone {
		t.record(r, checkCasing(data, t.cfg.caseConvention, t.cfg.caseWhitelist, "$")...)
	}
	t.finish(r)
	return r
}

// requestBodyDef unifies the two ways a document describes a request body:
// the OAS 3.x requestBody object or the OAS 2.0 body parameter.
type requestBodyDef struct {
	content  map[string]*parser.MediaType // OAS 3.x
	schema   *parser.Schema               // OAS 2.0
	required bool
}

// requestBodyDefinition returns the operation's documented request body, or
// nil when none is documented. The OAS 2.0 body parameter may be declared on
// the operation or inherited from the path item.
func requestBodyDefinition(op *parser.Operation, item *parser.PathItem) *requestBodyDef {
	if op.RequestBody != nil {
		return &requestBodyDef{content: op.RequestBody.Content, required: op.RequestBody.Required}
	}
	if p := bodyParameter(op.Parameters); p != nil {
		return &requestBodyDef{schema: p.Schema, required: p.Required}
	}
	if p := bodyParameter(item.Parameters); p != nil {
		return &requestBodyDef{schema: p.Schema, required: p.Required}
	}
	return nil
}

// bodyParameter returns the OAS 2.0 body parameter from a parameter list.
func bodyParameter(params []*parser.Parameter) *parser.Parameter {
	for _, p := range params {
		if p != nil && p.In == "body" {
			return p
		}
	}
	return nil
}

// selectRequestSchema picks the documented body schema for the request's
// content type. OAS 3.x request bodies document media types under content;
// OAS 2.0 body parameters carry a single schema with media types listed in
// consumes. Returns nil when no comparable schema is documented; an
// undocumented content type is recorded as a warning.
func (t *Tester) selectRequestSchema(r *Result, def *requestBodyDef, op *parser.Operation) *parser.Schema {
	if len(def.content) > 0 {
		mt, key, ok := mediaTypeForContent(def.content, r.ContentType)
		if !ok {
			t.record(r, Mismatch{
				Path: "$",
				Message: fmt.Sprintf("content type %q is not documented for this request (documented: %s)",
					r.ContentType, strings.Join(contentKeys(def.content), ", ")),
				Severity: severity.SeverityWarning,
				Field:    "content",
			})
			return nil
		}
		t.cfg.logger.Debug("selected request media type", "documented", key, "actual", r.ContentType)
		return mt.Schema
	}

	if def.schema != nil {
		if consumes := t.consumesFor(op); len(consumes) > 0 && !mediaTypeInList(consumes, r.ContentType) {
			t.record(r, Mismatch{
				Path: "$",
				Message: fmt.Sprintf("content type %q is not documented for this request (documented: %s)",
					r.ContentType, strings.Join(consumes, ", ")),
				Severity: severity.SeverityWarning,
				Field:    "consumes",
			})
			return nil
		}
		return def.schema
	}

	return nil
}

// consumesFor returns the effective OAS 2.0 consumes list for an operation.
func (t *Tester) consumesFor(op *parser.Operation) []string {
	if len(op.Consumes) > 0 {
		return op.Consumes
	}
	return t.consumes
}
