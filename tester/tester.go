package tester

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/erraggy/oastest/internal/httputil"
	"github.com/erraggy/oastest/internal/severity"
	"github.com/erraggy/oastest/oaserrors"
	"github.com/erraggy/oastest/parser"
)

// Tester compares actual HTTP responses against a parsed OpenAPI
// specification. A Tester is safe for concurrent use; create one per test
// binary and share it across tests.
type Tester struct {
	parsed     *parser.ParseResult
	routes     *routeSet
	comparator *schemaComparator
	cfg        config

	// produces and consumes are the OAS 2.0 document-level media type
	// lists, the fallback for operations without their own
	produces []string
	consumes []string
}

// New creates a Tester from a parsed specification.
//
// Parse with reference resolution enabled so schemas behind $ref compare as
// their targets:
//
//	parsed, err := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	    parser.WithResolveRefs(true),
//	)
//	tt, err := tester.New(parsed)
func New(parsed *parser.ParseResult, opts ...Option) (*Tester, error) {
	if parsed == nil {
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "parsed document is required"}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	var (
		paths    map[string]*parser.PathItem
		basePath string
		produces []string
		consumes []string
	)
	switch doc := parsed.Document.(type) {
	case *parser.OAS2Document:
		paths = doc.Paths
		basePath = doc.BasePath
		produces = doc.Produces
		consumes = doc.Consumes
	case *parser.OAS3Document:
		paths = doc.Paths
	default:
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "parse result carries no typed document"}
	}
	if len(paths) == 0 {
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "document defines no paths"}
	}

	routes, err := newRouteSet(paths, basePath)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "paths", Message: "invalid path template", Cause: err}
	}

	return &Tester{
		parsed:     parsed,
		routes:     routes,
		comparator: newSchemaComparator(cfg.redactValues, cfg.strict),
		cfg:        cfg,
		produces:   produces,
		consumes:   consumes,
	}, nil
}

// ValidateResponse compares an HTTP response against the specification. The
// response's request supplies the method and path, so responses from
// http.Client and httptest.Server work directly; recorded responses without
// a request need ValidateResponseData.
//
// The body is read in full and restored, so callers can still decode it
// afterwards.
func (t *Tester) ValidateResponse(resp *http.Response) *Result {
	r := getResult()
	if resp == nil {
		r.fail(&oaserrors.ConfigError{Option: "response", Message: "response is nil"}, "")
		return r
	}
	if resp.Request == nil || resp.Request.URL == nil {
		r.fail(&oaserrors.ConfigError{
			Option:  "response",
			Message: "response carries no request; use ValidateResponseData for recorded responses",
		}, "")
		return r
	}

	body, err := readBody(resp)
	if err != nil {
		r.fail(&oaserrors.BodyError{ContentType: resp.Header.Get("Content-Type"), Cause: err}, "")
		return r
	}

	t.validate(r, resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, resp.Header, body)
	return r
}

// ValidateResponseData compares captured response parts against the
// specification. Use this with httptest.ResponseRecorder, whose recorded
// response carries no request:
//
//	req := httptest.NewRequest(http.MethodGet, "/pets/42", nil)
//	rec := httptest.NewRecorder()
//	handler.ServeHTTP(rec, req)
//	res := tt.ValidateResponseData(req, rec.Code, rec.Header(), rec.Body.Bytes())
func (t *Tester) ValidateResponseData(req *http.Request, status int, header http.Header, body []byte) *Result {
	r := getResult()
	if req == nil || req.URL == nil {
		r.fail(&oaserrors.ConfigError{Option: "request", Message: "request is required"}, "")
		return r
	}
	t.validate(r, req.Method, req.URL.Path, status, header, body)
	return r
}

// validate runs the comparison pipeline: route, operation, response
// definition, body schema, key casing.
func (t *Tester) validate(r *Result, method, path string, status int, header http.Header, body []byte) {
	r.Status = status
	if header != nil {
		r.ContentType = header.Get("Content-Type")
	}

	rt, params, err := t.routes.resolve(path)
	if err != nil {
		var routeErr *oaserrors.RouteError
		if errors.As(err, &routeErr) {
			t.cfg.logger.Debug("path did not resolve",
				"path", path, "suggestions", strings.Join(routeErr.Suggestions, ", "))
		}
		r.fail(err, "")
		return
	}
	r.Path = rt.template
	r.PathParams = params

	op, err := operationForMethod(rt.item, rt.template, method)
	if err != nil {
		r.fail(err, "")
		return
	}
	r.Method = strings.ToUpper(method)
	r.OperationID = op.OperationID

	def, key, found := responseDefinition(op, status)
	if !found {
		r.fail(&oaserrors.ResponseError{
			Status:     status,
			Method:     r.Method,
			Path:       r.Path,
			Documented: documentedStatusKeys(op),
		}, "")
		return
	}
	r.ResponseKey = key
	t.cfg.logger.Debug("resolved response definition",
		"method", r.Method, "path", r.Path, "status", status, "key", key)

	if t.cfg.strict && !httputil.IsStandardStatusCode(strconv.Itoa(status)) {
		t.record(r, Mismatch{
			Path:     "$",
			Message:  fmt.Sprintf("non-standard HTTP status code %d (not defined in HTTP RFCs)", status),
			Severity: severity.SeverityWarning,
			Field:    "status",
		})
	}

	schema := t.selectSchema(r, def, op)
	if schema == nil {
		if len(body) > 0 && responseUndocumentsBody(def) {
			t.record(r, Mismatch{
				Path:     "$",
				Message:  "response carries a body but none is documented",
				Severity: severity.SeverityWarning,
				Field:    "content",
			})
		}
		t.finish(r)
		return
	}

	if len(body) == 0 {
		r.fail(
			&oaserrors.BodyError{ContentType: r.ContentType, Cause: errors.New("empty response body")},
			"response body is empty but the response documents a schema",
		)
		t.finish(r)
		return
	}

	data, err := unpackBody(body, r.ContentType)
	if err != nil {
		var bodyErr *oaserrors.BodyError
		if errors.As(err, &bodyErr) && bodyErr.Cause != nil {
			r.fail(err, fmt.Sprintf("invalid JSON in response: %v", bodyErr.Cause))
		} else {
			r.fail(err, "Response does not contain a JSON-formatted response and cannot be tested against a response schema.")
		}
		t.finish(r)
		return
	}

	t.record(r, t.comparator.compare(data, schema, "$")...)
	if t.cfg.caseConvention != CaseNone {
		t.record(r, checkCasing(data, t.cfg.caseConvention, t.cfg.caseWhitelist, "$")...)
	}
	t.finish(r)
}

// selectSchema picks the documented body schema for the response's content
// type. OAS 3.x responses document media types under content; OAS 2.0
// responses carry a single schema with media types listed in produces.
// Returns nil when the response documents no comparable schema; an
// undocumented content type is recorded as a warning.
func (t *Tester) selectSchema(r *Result, def *parser.Response, op *parser.Operation) *parser.Schema {
	if len(def.Content) > 0 {
		mt, key, ok := mediaTypeForContent(def.Content, r.ContentType)
		if !ok {
			t.record(r, Mismatch{
				Path: "$",
				Message: fmt.Sprintf("content type %q is not documented for this response (documented: %s)",
					r.ContentType, strings.Join(contentKeys(def.Content), ", ")),
				Severity: severity.SeverityWarning,
				Field:    "content",
			})
			return nil
		}
		t.cfg.logger.Debug("selected media type", "documented", key, "actual", r.ContentType)
		return mt.Schema
	}

	if def.Schema != nil {
		if produces := t.producesFor(op); len(produces) > 0 && !mediaTypeInList(produces, r.ContentType) {
			t.record(r, Mismatch{
				Path: "$",
				Message: fmt.Sprintf("content type %q is not documented for this response (documented: %s)",
					r.ContentType, strings.Join(produces, ", ")),
				Severity: severity.SeverityWarning,
				Field:    "produces",
			})
			return nil
		}
		return def.Schema
	}

	return nil
}

// producesFor returns the effective OAS 2.0 produces list for an operation.
func (t *Tester) producesFor(op *parser.Operation) []string {
	if len(op.Produces) > 0 {
		return op.Produces
	}
	return t.produces
}

// record attaches the operation context to mismatches and routes them into
// the result, honoring the warning settings.
func (t *Tester) record(r *Result, mismatches ...Mismatch) {
	ctx := r.operationContext()
	for _, m := range mismatches {
		if m.OperationContext == nil {
			m.OperationContext = ctx
		}
		if m.Severity != severity.SeverityError && m.Severity != severity.SeverityCritical && !t.cfg.includeWarnings {
			continue
		}
		r.add(m)
	}
}

// finish applies the fail-fast setting.
func (t *Tester) finish(r *Result) {
	if t.cfg.failFast && len(r.Errors) > 1 {
		r.Errors = r.Errors[:1]
	}
}

// Resolve returns the documented path template matching a concrete request
// path, e.g. "/pets/42" resolves to "/pets/{petId}". The returned error is a
// *oaserrors.RouteError carrying near-miss suggestions when nothing matches.
func (t *Tester) Resolve(path string) (string, error) {
	rt, _, err := t.routes.resolve(path)
	if err != nil {
		return "", err
	}
	return rt.template, nil
}

// Endpoint identifies one documented operation.
type Endpoint struct {
	// Method is the uppercase HTTP verb
	Method string `json:"method" yaml:"method"`
	// Path is the documented path template
	Path string `json:"path" yaml:"path"`
	// OperationID is the operation's operationId, when defined
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	// Summary is the operation's summary, when defined
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	// Deprecated marks operations documented as deprecated
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Endpoints lists every documented operation, sorted by path then method.
func (t *Tester) Endpoints() []Endpoint {
	var out []Endpoint
	for _, rt := range t.routes.routes {
		for method, op := range rt.item.Operations() {
			out = append(out, Endpoint{
				Method:      method,
				Path:        rt.template,
				OperationID: op.OperationID,
				Summary:     op.Summary,
				Deprecated:  op.Deprecated,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// responseUndocumentsBody reports whether a response definition documents no
// body at all (no content entries and no OAS 2.0 schema).
func responseUndocumentsBody(def *parser.Response) bool {
	return len(def.Content) == 0 && def.Schema == nil
}
