package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/erraggy/oastest/internal/fileutil"
	"github.com/erraggy/oastest/internal/issues"
	"github.com/erraggy/oastest/internal/maputil"
	"github.com/erraggy/oastest/internal/severity"
	"github.com/erraggy/oastest/oaserrors"
	"github.com/erraggy/oastest/parser"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates output that may need attention
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates operations that could not be generated
	SeverityError = severity.SeverityError
	// SeverityCritical indicates generation that could not complete
	SeverityCritical = severity.SeverityCritical
)

// Issue represents a single generation issue or notice
type Issue = issues.Issue

const (
	// defaultPackageName is the package clause used when Config.PackageName
	// is empty
	defaultPackageName = "apitest"
	// defaultServerURL is used when the document names no usable server
	defaultServerURL = "http://localhost:8080"
	// defaultSpecFile is the loader path used when the parse source was not
	// a file
	defaultSpecFile = "openapi.yaml"
	// scaffoldFileName is the name of the generated test file
	scaffoldFileName = "contract_test.go"
)

// Config controls scaffold generation.
type Config struct {
	// PackageName is the package clause for the generated file.
	// Non-identifier characters are dropped. Defaults to "apitest".
	PackageName string
	// ServerURL is the base URL the generated tests send requests to.
	// Defaults to the document's first concrete server (OAS 3.x) or
	// scheme://host/basePath (OAS 2.0), falling back to
	// "http://localhost:8080".
	ServerURL string
	// SpecPath is the document path the generated file parses at runtime.
	// Defaults to the parse source when the document came from a file,
	// otherwise "openapi.yaml".
	SpecPath string
	// OutputPath is the file the scaffold is written to. Empty skips
	// writing; the source is still returned in the result.
	OutputPath string
}

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "contract_test.go")
	Name string
	// Content is the generated Go source code
	Content []byte
}

// WriteFile writes the generated source to path, creating parent directories
// as needed.
func (f *GeneratedFile) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, f.Content, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Result contains the outcome of generating a test scaffold.
type Result struct {
	// File is the generated test source
	File GeneratedFile
	// PackageName is the package clause used in generation
	PackageName string
	// ServerURL is the base URL baked into the generated tests
	ServerURL string
	// SpecPath is the document path baked into the generated loader
	SpecPath string
	// Operations is the number of subtests generated
	Operations int
	// Skipped is the number of subtests generated with a t.Skip because
	// they need values filled in before they can run
	Skipped int
	// Issues contains generation notices and problems
	Issues []Issue
	// Success is true if generation completed without error or critical
	// issues
	Success bool
}

// addIssue records a generation issue. Error and critical issues clear
// Success.
func (r *Result) addIssue(path, message string, sev Severity) {
	r.Issues = append(r.Issues, Issue{Path: path, Message: message, Severity: sev})
	switch sev {
	case SeverityError, SeverityCritical:
		r.Success = false
	}
}

// operationPlan carries everything the renderer needs for one subtest.
type operationPlan struct {
	name        string
	method      string
	path        string
	summary     string
	deprecated  bool
	hasBody     bool
	contentType string
	hasParams   bool
}

// Generate renders a Go test file with one subtest per documented operation,
// each sending a request to the configured server and asserting the response
// against the document. The source is passed through goimports-equivalent
// processing before it is returned, and written to Config.OutputPath when
// one is set.
func Generate(parsed *parser.ParseResult, cfg Config) (*Result, error) {
	if parsed == nil {
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "parsed document is required"}
	}

	var (
		paths       map[string]*parser.PathItem
		docConsumes []string
	)
	switch doc := parsed.Document.(type) {
	case *parser.OAS2Document:
		paths = doc.Paths
		docConsumes = doc.Consumes
	case *parser.OAS3Document:
		paths = doc.Paths
	default:
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "parse result carries no typed document"}
	}
	if len(paths) == 0 {
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "document defines no paths"}
	}

	plans := planOperations(paths, docConsumes)
	if len(plans) == 0 {
		return nil, &oaserrors.ConfigError{Option: "parsed", Message: "document defines no operations"}
	}

	res := &Result{
		PackageName: defaultPackageName,
		ServerURL:   cfg.ServerURL,
		SpecPath:    cfg.SpecPath,
		Operations:  len(plans),
		Success:     true,
	}
	if cfg.PackageName != "" {
		res.PackageName = packageIdent(cfg.PackageName)
	}
	if res.ServerURL == "" {
		res.ServerURL = documentServerURL(parsed)
	}
	if res.SpecPath == "" {
		res.SpecPath = documentSpecPath(parsed)
	}

	for _, plan := range plans {
		if reason := skipReason(plan); reason != "" {
			res.Skipped++
			res.addIssue(plan.name, "generated with t.Skip: "+reason, SeverityInfo)
		}
	}

	src := render(res, plans)
	formatted, err := imports.Process(scaffoldFileName, src, nil)
	if err != nil {
		res.addIssue(scaffoldFileName, fmt.Sprintf("failed to format generated code: %v", err), SeverityWarning)
		formatted = src
	}
	res.File = GeneratedFile{Name: scaffoldFileName, Content: formatted}

	if cfg.OutputPath != "" {
		if err := res.File.WriteFile(cfg.OutputPath); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// planOperations walks every path item and returns one plan per operation,
// sorted by path then method, with collision-safe subtest names.
func planOperations(paths map[string]*parser.PathItem, docConsumes []string) []operationPlan {
	templates := make([]string, 0, len(paths))
	for template, item := range paths {
		if item != nil {
			templates = append(templates, template)
		}
	}
	sort.Strings(templates)

	seen := make(map[string]int)
	var plans []operationPlan
	for _, template := range templates {
		item := paths[template]
		ops := item.Operations()
		methods := maputil.SortedKeys(ops)

		for _, method := range methods {
			op := ops[method]
			plans = append(plans, operationPlan{
				name:        uniqueName(seen, testName(op, template, method)),
				method:      method,
				path:        template,
				summary:     cleanSummary(op.Summary),
				deprecated:  op.Deprecated,
				hasBody:     operationHasBody(op, item),
				contentType: requestContentType(op, docConsumes),
				hasParams:   strings.Contains(template, "{"),
			})
		}
	}
	return plans
}

// operationHasBody reports whether the operation documents a request body,
// either as an OAS 3.x requestBody or an OAS 2.0 body parameter on the
// operation or its path item.
func operationHasBody(op *parser.Operation, item *parser.PathItem) bool {
	if op.RequestBody != nil {
		return true
	}
	return hasBodyParameter(op.Parameters) || hasBodyParameter(item.Parameters)
}

func hasBodyParameter(params []*parser.Parameter) bool {
	for _, p := range params {
		if p != nil && p.In == "body" {
			return true
		}
	}
	return false
}

// requestContentType picks the Content-Type for a generated request body.
// A JSON media type wins when documented since the placeholder body is JSON;
// otherwise the first documented type is used so the generated header points
// at something real.
func requestContentType(op *parser.Operation, docConsumes []string) string {
	if op.RequestBody != nil && len(op.RequestBody.Content) > 0 {
		return preferJSON(maputil.SortedKeys(op.RequestBody.Content))
	}
	if len(op.Consumes) > 0 {
		return preferJSON(op.Consumes)
	}
	if len(docConsumes) > 0 {
		return preferJSON(docConsumes)
	}
	return "application/json"
}

// preferJSON returns the first JSON media type in the list, or the first
// entry when none is JSON.
func preferJSON(types []string) string {
	for _, mt := range types {
		if strings.Contains(mt, "json") {
			return mt
		}
	}
	return types[0]
}

// skipReason names what a human must fill in before the subtest can run, or
// "" when the generated request is complete as-is.
func skipReason(plan operationPlan) string {
	switch {
	case plan.hasParams && plan.hasBody:
		return fmt.Sprintf("substitute path parameters in %s and fill in the request body, then remove this skip", plan.path)
	case plan.hasParams:
		return fmt.Sprintf("substitute path parameters in %s, then remove this skip", plan.path)
	case plan.hasBody:
		return fmt.Sprintf("fill in the request body for %s %s, then remove this skip", plan.method, plan.path)
	}
	return ""
}

// documentServerURL derives the default server base URL from the document.
func documentServerURL(parsed *parser.ParseResult) string {
	switch doc := parsed.Document.(type) {
	case *parser.OAS3Document:
		for _, srv := range doc.Servers {
			// Templated server URLs need variable substitution the
			// scaffold cannot do, so they are passed over.
			if srv == nil || srv.URL == "" || strings.Contains(srv.URL, "{") {
				continue
			}
			return strings.TrimSuffix(srv.URL, "/")
		}
	case *parser.OAS2Document:
		if doc.Host != "" {
			scheme := "https"
			if len(doc.Schemes) > 0 {
				scheme = doc.Schemes[0]
			}
			return scheme + "://" + doc.Host + strings.TrimSuffix(doc.BasePath, "/")
		}
	}
	return defaultServerURL
}

// documentSpecPath derives the runtime loader path from the parse source.
// ParseBytes and ParseReader sources carry no usable path.
func documentSpecPath(parsed *parser.ParseResult) string {
	switch parsed.SourceName {
	case "", "ParseBytes", "ParseReader":
		return defaultSpecFile
	}
	return parsed.SourceName
}

// methodConstants maps uppercase HTTP methods to their net/http constant
// names for generated source.
var methodConstants = map[string]string{
	"GET":     "http.MethodGet",
	"PUT":     "http.MethodPut",
	"POST":    "http.MethodPost",
	"DELETE":  "http.MethodDelete",
	"OPTIONS": "http.MethodOptions",
	"HEAD":    "http.MethodHead",
	"PATCH":   "http.MethodPatch",
}

// render emits the test file source. The header line deliberately does not
// match the canonical generated-code marker: scaffolds are meant to be
// edited, so tooling must not treat the file as machine-owned.
func render(res *Result, plans []operationPlan) []byte {
	var buf bytes.Buffer

	buf.WriteString("// Code scaffolded by oastest. Edit freely; regenerate with \"oastest scaffold\".\n\n")
	buf.WriteString(fmt.Sprintf("package %s\n\n", res.PackageName))

	needsStrings := false
	for _, plan := range plans {
		if plan.hasBody {
			needsStrings = true
			break
		}
	}

	buf.WriteString("import (\n")
	buf.WriteString("\t\"net/http\"\n")
	if needsStrings {
		buf.WriteString("\t\"strings\"\n")
	}
	buf.WriteString("\t\"testing\"\n")
	buf.WriteString("\n")
	buf.WriteString("\t\"github.com/erraggy/oastest/parser\"\n")
	buf.WriteString("\t\"github.com/erraggy/oastest/tester\"\n")
	buf.WriteString(")\n\n")

	buf.WriteString("// serverURL is the base URL the scaffolded requests are sent to.\n")
	buf.WriteString(fmt.Sprintf("const serverURL = %q\n\n", res.ServerURL))
	buf.WriteString("// specPath locates the OpenAPI document the responses are asserted against.\n")
	buf.WriteString(fmt.Sprintf("const specPath = %q\n\n", res.SpecPath))

	buf.WriteString("func newTester(t *testing.T) *tester.Tester {\n")
	buf.WriteString("\tt.Helper()\n")
	buf.WriteString("\tparsed, err := parser.ParseWithOptions(\n")
	buf.WriteString("\t\tparser.WithFilePath(specPath),\n")
	buf.WriteString("\t\tparser.WithResolveRefs(true),\n")
	buf.WriteString("\t)\n")
	buf.WriteString("\tif err != nil {\n")
	buf.WriteString("\t\tt.Fatalf(\"parse %s: %v\", specPath, err)\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\ttt, err := tester.New(parsed)\n")
	buf.WriteString("\tif err != nil {\n")
	buf.WriteString("\t\tt.Fatalf(\"build tester: %v\", err)\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\treturn tt\n")
	buf.WriteString("}\n\n")

	buf.WriteString("func TestAPIContract(t *testing.T) {\n")
	buf.WriteString("\ttt := newTester(t)\n")
	for _, plan := range plans {
		buf.WriteString("\n")
		writeSubtest(&buf, plan)
	}
	buf.WriteString("}\n")

	return buf.Bytes()
}

// writeSubtest emits one t.Run block for an operation.
func writeSubtest(buf *bytes.Buffer, plan operationPlan) {
	buf.WriteString(fmt.Sprintf("\tt.Run(%q, func(t *testing.T) {\n", plan.name))

	comment := fmt.Sprintf("\t\t// %s %s", plan.method, plan.path)
	if plan.deprecated {
		comment += " (deprecated)"
	}
	if plan.summary != "" {
		comment += ": " + plan.summary
	}
	buf.WriteString(comment + "\n")

	if reason := skipReason(plan); reason != "" {
		buf.WriteString(fmt.Sprintf("\t\tt.Skip(%q)\n\n", reason))
	}

	methodExpr, ok := methodConstants[plan.method]
	if !ok {
		methodExpr = fmt.Sprintf("%q", plan.method)
	}

	if plan.hasBody {
		buf.WriteString("\t\tbody := strings.NewReader(`{}`)\n")
		buf.WriteString(fmt.Sprintf("\t\treq, err := http.NewRequest(%s, serverURL+%q, body)\n", methodExpr, plan.path))
	} else {
		buf.WriteString(fmt.Sprintf("\t\treq, err := http.NewRequest(%s, serverURL+%q, nil)\n", methodExpr, plan.path))
	}
	buf.WriteString("\t\tif err != nil {\n")
	buf.WriteString("\t\t\tt.Fatalf(\"build request: %v\", err)\n")
	buf.WriteString("\t\t}\n")
	if plan.hasBody {
		buf.WriteString(fmt.Sprintf("\t\treq.Header.Set(\"Content-Type\", %q)\n", plan.contentType))
	}
	buf.WriteString("\t\tresp, err := http.DefaultClient.Do(req)\n")
	buf.WriteString("\t\tif err != nil {\n")
	buf.WriteString("\t\t\tt.Fatalf(\"send request: %v\", err)\n")
	buf.WriteString("\t\t}\n")
	buf.WriteString("\t\tdefer resp.Body.Close()\n\n")
	buf.WriteString("\t\ttt.Assert(t, resp)\n")
	buf.WriteString("\t})\n")
}
