package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/erraggy/oastest/oaserrors"
	"github.com/erraggy/oastest/parser"
	"github.com/erraggy/oastest/tester"
)

// Middleware validates the HTTP traffic of a running server against a parsed
// OpenAPI document. A Middleware is safe for concurrent use; create one per
// server and wrap the handler chain with Wrap (or register Gin on a gin
// router).
type Middleware struct {
	tester  *tester.Tester
	cfg     Config
	exempt  []*regexp.Regexp
	logger  parser.Logger
	metrics *middlewareMetrics
}

// New builds a Middleware from a parsed document. Extra tester options
// (strictness, casing, warning settings) pass through to the underlying
// tester.
func New(parsed *parser.ParseResult, cfg Config, opts ...tester.Option) (*Middleware, error) {
	if cfg.RejectInvalidRequestBodies && !cfg.ValidateRequestBody {
		return nil, &oaserrors.ConfigError{
			Option:  "RejectInvalidRequestBodies",
			Message: "request body validation must be enabled to reject invalid bodies",
		}
	}

	exempt := make([]*regexp.Regexp, 0, len(cfg.ExemptURLs))
	for _, pattern := range cfg.ExemptURLs {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &oaserrors.ConfigError{
				Option:  "ExemptURLs",
				Value:   pattern,
				Message: "invalid pattern",
				Cause:   err,
			}
		}
		exempt = append(exempt, re)
	}

	tt, err := tester.New(parsed, opts...)
	if err != nil {
		return nil, err
	}

	return &Middleware{
		tester:  tt,
		cfg:     cfg,
		exempt:  exempt,
		logger:  cfg.logger(),
		metrics: newMiddlewareMetrics(cfg.Registerer),
	}, nil
}

// Wrap returns a handler that validates the traffic flowing through next.
// Responses are compared after they are written, so an invalid response is
// logged and counted but never blocked. Invalid request bodies block the
// handler only when RejectInvalidRequestBodies is set.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if m.exemptPath(req.URL.Path) {
			next.ServeHTTP(w, req)
			return
		}

		log := m.logger.With("correlation_id", uuid.NewString())

		if m.cfg.ValidateRequestBody && !m.checkRequest(w, req, log) {
			return
		}

		if !m.cfg.ValidateResponse {
			next.ServeHTTP(w, req)
			return
		}

		capture := newResponseCapture(w)
		next.ServeHTTP(capture, req)
		m.checkResponse(req, capture.status(), capture.Header(), capture.body.Bytes(), log)
	})
}

// exemptPath reports whether a request path matches any exempt pattern.
func (m *Middleware) exemptPath(path string) bool {
	for _, re := range m.exempt {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// checkRequest validates the request body, leaving req.Body readable for the
// handler. Returns false when the request was rejected.
func (m *Middleware) checkRequest(w http.ResponseWriter, req *http.Request, log parser.Logger) bool {
	body, err := readRequestBody(req)
	if err != nil {
		log.Warn("could not read request body",
			"method", req.Method, "path", req.URL.Path, "error", err)
		return true
	}

	res := m.tester.ValidateRequestBody(req, body)
	defer res.Release()

	if res.Valid {
		m.metrics.validations.WithLabelValues(directionRequest, outcomeValid).Inc()
		log.Debug("request body matches the documented schema",
			"method", res.Method, "path", res.Path)
		return true
	}

	m.metrics.validations.WithLabelValues(directionRequest, outcomeInvalid).Inc()
	m.metrics.failures.WithLabelValues(failureLabels(res, req)).Inc()
	log.Warn("request body does not match the documented schema",
		"method", req.Method, "path", req.URL.Path, "summary", res.Summary())

	if m.cfg.RejectInvalidRequestBodies {
		m.reject(w, res, log)
		return false
	}
	return true
}

// checkResponse validates the already-written response. Failures are logged
// and counted, never blocked: the client has the bytes by the time the
// comparison runs.
func (m *Middleware) checkResponse(req *http.Request, status int, header http.Header, body []byte, log parser.Logger) {
	res := m.tester.ValidateResponseData(req, status, header, body)
	defer res.Release()

	if res.Valid {
		m.metrics.validations.WithLabelValues(directionResponse, outcomeValid).Inc()
		log.Debug("response matches the documented schema",
			"method", res.Method, "path", res.Path, "status", status)
		return
	}

	m.metrics.validations.WithLabelValues(directionResponse, outcomeInvalid).Inc()
	m.metrics.failures.WithLabelValues(failureLabels(res, req)).Inc()
	log.Warn("response does not match the documented schema",
		"method", req.Method, "path", req.URL.Path, "status", status, "summary", res.Summary())
}

// rejection is the JSON body sent for rejected request bodies.
type rejection struct {
	Error  string   `json:"error"`
	Issues []string `json:"issues"`
}

func (m *Middleware) reject(w http.ResponseWriter, res *tester.Result, log parser.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	body := rejection{
		Error:  "request body does not match the documented schema",
		Issues: res.ErrorMessages(),
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("could not write rejection response", "error", err)
	}
}

// failureLabels returns the method and path labels for the failure counter:
// the documented template once a route matched, bounded placeholders before,
// so concrete request paths cannot blow up metric cardinality.
func failureLabels(res *tester.Result, req *http.Request) (method, path string) {
	method = res.Method
	if method == "" {
		method = strings.ToUpper(req.Method)
	}
	path = res.Path
	if path == "" {
		path = "unmatched"
	}
	return method, path
}

// readRequestBody drains req.Body and restores it from the read bytes, so
// the wrapped handler still sees the full body.
func readRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
