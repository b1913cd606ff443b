package tester

import (
	"net/http"

	"github.com/erraggy/oastest/internal/severity"
	"github.com/erraggy/oastest/parser"
)

// TB is the subset of testing.TB the assertion helpers need. *testing.T,
// *testing.B, and *testing.F all satisfy it.
type TB interface {
	Helper()
	Logf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// Assert validates resp against the specification and reports the outcome
// through tb: one test error per mismatch, warnings to the test log, and a
// fatal stop when the response cannot be compared at all.
func (t *Tester) Assert(tb TB, resp *http.Response) {
	tb.Helper()
	r := t.ValidateResponse(resp)
	defer r.Release()
	r.Report(tb)
}

// AssertData is Assert for captured response parts; see ValidateResponseData.
func (t *Tester) AssertData(tb TB, req *http.Request, status int, header http.Header, body []byte) {
	tb.Helper()
	r := t.ValidateResponseData(req, status, header, body)
	defer r.Release()
	r.Report(tb)
}

// AssertResponse is a one-off helper that builds a Tester and asserts in a
// single call. Suites with more than a handful of assertions should build
// the Tester once with New and share it.
func AssertResponse(tb TB, parsed *parser.ParseResult, resp *http.Response, opts ...Option) {
	tb.Helper()
	t, err := New(parsed, opts...)
	if err != nil {
		tb.Fatalf("oastest: %v", err)
		return
	}
	t.Assert(tb, resp)
}

// Report writes the result to a test. Fundamental failures (unknown path,
// undocumented method or status, untestable body) stop the test through
// Fatalf; every mismatch in Errors becomes one Errorf; warnings go to the
// test log.
func (r *Result) Report(tb TB) {
	tb.Helper()
	for _, w := range r.Warnings {
		tb.Logf("oastest: %s", w.String())
	}
	if r.Err != nil {
		msg := r.Err.Error()
		for _, m := range r.Errors {
			if m.Severity == severity.SeverityCritical {
				msg = m.String()
				break
			}
		}
		tb.Fatalf("oastest: %s", msg)
		return
	}
	for _, e := range r.Errors {
		tb.Errorf("oastest: %s", e.String())
	}
}
