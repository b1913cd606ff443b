// This file derives subtest names and package identifiers from OpenAPI
// identifiers, including reserved word escaping and PascalCase conversion.

package scaffold

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/oastest/parser"
)

// maxSummaryLength is the maximum length for operation summaries in generated
// comments before truncation.
const maxSummaryLength = 120

// goReservedWords contains Go reserved keywords that cannot be used as
// identifiers. Predeclared identifiers like "error" are excluded because
// they can be shadowed.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// titleCaser capitalizes all-lowercase name segments. Mixed-case segments
// bypass it because the caser lowercases the rest of each word, which would
// flatten "petId" to "Petid".
var titleCaser = cases.Title(language.English)

// escapeReservedWord appends an underscore when name is a Go keyword. The
// check is case-insensitive so a sanitized name like "Range" stays escaped.
func escapeReservedWord(name string) string {
	if goReservedWords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}

// exportName converts an operationId or method-and-path phrase to PascalCase.
// The input is split on non-alphanumeric runes and each segment is
// capitalized; a leading digit gets an "Op" prefix so the name can double as
// an identifier.
func exportName(s string) string {
	var b strings.Builder
	for _, seg := range splitSegments(s) {
		b.WriteString(exportSegment(seg))
	}
	name := b.String()
	if name == "" {
		return ""
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "Op" + name
	}
	return name
}

// splitSegments splits on any rune that cannot appear in a Go identifier.
func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// exportSegment capitalizes one segment. All-lowercase segments go through
// the title caser; segments with interior capitals only have their first
// rune raised.
func exportSegment(seg string) string {
	if seg == "" {
		return ""
	}
	if seg == strings.ToLower(seg) {
		return titleCaser.String(seg)
	}
	runes := []rune(seg)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// testName derives the subtest name for one operation. The operationId wins
// when present; otherwise the name is built from the method and path with
// path parameters rendered as "By<Param>", so GET /pets/{petId} becomes
// "GetPetsByPetId".
func testName(op *parser.Operation, path, method string) string {
	if op.OperationID != "" {
		if name := exportName(op.OperationID); name != "" {
			return name
		}
	}
	pathPart := strings.ReplaceAll(path, "/", " ")
	pathPart = strings.ReplaceAll(pathPart, "{", "By ")
	pathPart = strings.ReplaceAll(pathPart, "}", "")
	return exportName(strings.ToLower(method) + " " + pathPart)
}

// uniqueName disambiguates duplicate test names with a numeric suffix so
// "go test -run" can select a single operation even when two operations
// share an operationId.
func uniqueName(seen map[string]int, name string) string {
	seen[name]++
	if n := seen[name]; n > 1 {
		return fmt.Sprintf("%s%d", name, n)
	}
	return name
}

// packageIdent sanitizes a configured package name into a valid Go package
// identifier: lowercased, non-identifier runes dropped, keywords escaped.
func packageIdent(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return defaultPackageName
	}
	if !unicode.IsLetter(rune(out[0])) {
		out = "pkg" + out
	}
	return escapeReservedWord(out)
}

// cleanSummary prepares an operation summary for a generated comment line.
// Newlines collapse to spaces and long summaries truncate at a rune boundary.
func cleanSummary(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if len(s) > maxSummaryLength {
		runes := []rune(s)
		if len(runes) > maxSummaryLength-3 {
			s = string(runes[:maxSummaryLength-3]) + "..."
		}
	}
	return s
}
