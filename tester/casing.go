package tester

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/erraggy/oastest/internal/issues"
	"github.com/erraggy/oastest/internal/maputil"
	"github.com/erraggy/oastest/internal/severity"
	"github.com/erraggy/oastest/oaserrors"
)

// CaseConvention names a payload key naming convention the tester can
// enforce with WithCase.
type CaseConvention string

const (
	// CaseNone disables key casing checks. This is the default.
	CaseNone CaseConvention = ""
	// CaseCamel requires keys like "userName".
	CaseCamel CaseConvention = "camelCase"
	// CasePascal requires keys like "UserName".
	CasePascal CaseConvention = "PascalCase"
	// CaseSnake requires keys like "user_name".
	CaseSnake CaseConvention = "snake_case"
	// CaseKebab requires keys like "user-name".
	CaseKebab CaseConvention = "kebab-case"
)

// valid reports whether the convention is a known one.
func (c CaseConvention) valid() bool {
	switch c {
	case CaseNone, CaseCamel, CasePascal, CaseSnake, CaseKebab:
		return true
	}
	return false
}

// conforms reports whether key follows the convention. The checks are
// structural: camelCase and PascalCase constrain the first rune and reject
// separators, snake_case and kebab-case reject uppercase and the other
// convention's separator. Keys that need exemptions (initialisms, foreign
// identifiers) belong on the whitelist.
func (c CaseConvention) conforms(key string) bool {
	if key == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(key)
	switch c {
	case CaseCamel:
		return unicode.IsLower(first) && !strings.ContainsAny(key, "_- ")
	case CasePascal:
		return unicode.IsUpper(first) && !strings.ContainsAny(key, "_- ")
	case CaseSnake:
		return key == strings.ToLower(key) && !strings.ContainsAny(key, "- ")
	case CaseKebab:
		return key == strings.ToLower(key) && !strings.ContainsAny(key, "_ ")
	}
	return true
}

// hint converts key to the convention, for the Expected line of a mismatch.
func (c CaseConvention) hint(key string) string {
	switch c {
	case CaseCamel:
		return toCamelCase(key)
	case CasePascal:
		return toPascalCase(key)
	case CaseSnake:
		return toSnakeCase(key)
	case CaseKebab:
		return toKebabCase(key)
	}
	return key
}

// checkCasing walks a decoded payload and reports every object key that
// violates the convention, at any depth. Whitelisted keys are exempt
// wherever they appear; their values are still walked.
func checkCasing(data any, convention CaseConvention, whitelist map[string]bool, path string) []Mismatch {
	if convention == CaseNone {
		return nil
	}

	var out []Mismatch
	switch d := data.(type) {
	case map[string]any:
		for _, key := range maputil.SortedKeys(d) {
			keyPath := issues.JoinKey(path, key)
			if !whitelist[key] && !convention.conforms(key) {
				caseErr := &oaserrors.CaseError{Key: key, Expected: string(convention)}
				out = append(out, Mismatch{
					Path:     keyPath,
					Message:  caseErr.Error(),
					Severity: severity.SeverityError,
					Field:    "casing",
					Expected: convention.hint(key),
				})
			}
			out = append(out, checkCasing(d[key], convention, whitelist, keyPath)...)
		}
	case []any:
		for i, item := range d {
			out = append(out, checkCasing(item, convention, whitelist, issues.JoinIndex(path, i))...)
		}
	}
	return out
}

// toPascalCase converts a string to PascalCase.
// Example: "user_profile" -> "UserProfile"
func toPascalCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	capitalizeNext := true

	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || r == ' ' {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// toCamelCase converts a string to camelCase.
// Like PascalCase but with the first letter lowercase.
// Example: "user_profile" -> "userProfile"
func toCamelCase(s string) string {
	pascal := toPascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// toSnakeCase converts a string to snake_case.
// Uppercase letters are prefixed with underscore and lowercased.
// Example: "UserProfile" -> "user_profile"
func toSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else if r == '-' || r == '.' || r == ' ' {
			result.WriteRune('_')
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// toKebabCase converts a string to kebab-case.
// Like snake_case but with hyphens instead of underscores.
// Example: "UserProfile" -> "user-profile"
func toKebabCase(s string) string {
	return strings.ReplaceAll(toSnakeCase(s), "_", "-")
}
