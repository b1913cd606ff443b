package tester

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/erraggy/oastest/internal/issues"
	"github.com/erraggy/oastest/internal/maputil"
	"github.com/erraggy/oastest/internal/severity"
	"github.com/erraggy/oastest/internal/stringutil"
	"github.com/erraggy/oastest/parser"
)

// schemaComparator compares decoded response payloads against OpenAPI
// schemas. It implements the subset of JSON Schema validation that matters
// for response bodies.
type schemaComparator struct {
	// patternCache caches compiled regex patterns (sync.Map[string, *regexp.Regexp])
	patternCache sync.Map

	// patternCount tracks the approximate number of cached patterns for size capping
	patternCount atomic.Int32

	// redactValues controls whether payload values appear in mismatch
	// messages. When true, messages describe the violation without exposing
	// the value.
	redactValues bool

	// strict upgrades write-only leaks to errors and reports payload keys
	// the schema does not document.
	strict bool
}

func newSchemaComparator(redactValues, strict bool) *schemaComparator {
	return &schemaComparator{redactValues: redactValues, strict: strict}
}

// compare walks data against schema and returns every mismatch found. path
// is the JSON path to data within the payload ("$" for the document root).
func (c *schemaComparator) compare(data any, schema *parser.Schema, path string) []Mismatch {
	if schema == nil {
		return nil
	}

	// A schema that still carries $ref was never resolved: either resolution
	// was disabled at parse time or the reference is circular. Comparison
	// stops here either way.
	if schema.Ref != "" {
		return []Mismatch{{
			Path:     path,
			Message:  fmt.Sprintf("schema reference %q is unresolved; parse with reference resolution to compare it", schema.Ref),
			Severity: severity.SeverityInfo,
			Field:    "$ref",
		}}
	}

	// Handle nullable
	if data == nil {
		if isNullable(schema) {
			return nil
		}
		return []Mismatch{{
			Path:     path,
			Message:  "value cannot be null",
			Severity: severity.SeverityError,
			Field:    "nullable",
		}}
	}

	var out []Mismatch

	// If type validation failed, skip constraint validation: every
	// constraint below assumes the documented type.
	typeMismatches := c.compareType(data, schema, path)
	if len(typeMismatches) > 0 {
		out = append(out, typeMismatches...)
		out = append(out, c.compareComposition(data, schema, path)...)
		return out
	}

	switch d := data.(type) {
	case string:
		out = append(out, c.compareString(d, schema, path)...)
	case float64, float32, int, int64, uint64:
		out = append(out, c.compareNumber(toFloat64(d), schema, path)...)
	case bool:
		// No additional constraints for boolean
	case []any:
		out = append(out, c.compareArray(d, schema, path)...)
	case map[string]any:
		out = append(out, c.compareObject(d, schema, path)...)
	}

	if len(schema.Enum) > 0 {
		out = append(out, c.compareEnum(data, schema, path)...)
	}
	if schema.Const != nil && !enumEqual(data, schema.Const) {
		msg := "value does not equal the const value"
		if !c.redactValues {
			msg = fmt.Sprintf("value %v does not equal the const value %v", data, schema.Const)
		}
		out = append(out, Mismatch{
			Path:     path,
			Message:  msg,
			Severity: severity.SeverityError,
			Field:    "const",
		})
	}

	out = append(out, c.compareComposition(data, schema, path)...)

	return out
}

// isNullable checks if a schema allows null values.
func isNullable(schema *parser.Schema) bool {
	// OAS 3.0 style: nullable: true
	if schema.Nullable {
		return true
	}

	// OAS 2.0 style: the x-nullable extension
	if nullable, ok := schema.Extra["x-nullable"].(bool); ok && nullable {
		return true
	}

	// OAS 3.1+ style: type includes "null"
	for _, t := range schemaTypes(schema) {
		if t == "null" {
			return true
		}
	}

	return false
}

// compareType checks that the data matches the schema type(s).
func (c *schemaComparator) compareType(data any, schema *parser.Schema, path string) []Mismatch {
	types := schemaTypes(schema)
	if len(types) == 0 {
		// No type specified, any type is valid
		return nil
	}

	dataType := dataTypeOf(data)

	for _, schemaType := range types {
		if !typeMatches(dataType, schemaType) {
			continue
		}
		// A number can stand in for integer only without a fractional part
		if schemaType == "integer" && dataType == "number" {
			if f, ok := data.(float64); ok && f != float64(int64(f)) {
				msg := "value must be an integer"
				if !c.redactValues {
					msg = fmt.Sprintf("value must be an integer, got %v", f)
				}
				return []Mismatch{{
					Path:     path,
					Message:  msg,
					Severity: severity.SeverityError,
					Field:    "type",
					Expected: "integer",
				}}
			}
		}
		return nil
	}

	expected := strings.Join(types, " or ")
	return []Mismatch{{
		Path:     path,
		Message:  fmt.Sprintf("expected type %s but got %s", expected, dataType),
		Severity: severity.SeverityError,
		Field:    "type",
		Value:    c.value(data),
		Expected: expected,
	}}
}

// compareString checks string-specific constraints.
func (c *schemaComparator) compareString(s string, schema *parser.Schema, path string) []Mismatch {
	var out []Mismatch

	// minLength
	if schema.MinLength != nil && len(s) < *schema.MinLength {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("string length %d is less than minimum %d", len(s), *schema.MinLength),
			Severity: severity.SeverityError,
			Field:    "minLength",
		})
	}

	// maxLength
	if schema.MaxLength != nil && len(s) > *schema.MaxLength {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("string length %d exceeds maximum %d", len(s), *schema.MaxLength),
			Severity: severity.SeverityError,
			Field:    "maxLength",
		})
	}

	// pattern
	if schema.Pattern != "" {
		matched, err := c.matchPattern(schema.Pattern, s)
		if err != nil {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("invalid pattern %q: %v", schema.Pattern, err),
				Severity: severity.SeverityError,
				Field:    "pattern",
			})
		} else if !matched {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("string does not match pattern %q", schema.Pattern),
				Severity: severity.SeverityError,
				Field:    "pattern",
				Value:    c.value(s),
			})
		}
	}

	// format (basic validation for common formats)
	if schema.Format != "" {
		out = append(out, c.compareFormat(s, schema.Format, path)...)
	}

	return out
}

// compareNumber checks numeric constraints.
func (c *schemaComparator) compareNumber(n float64, schema *parser.Schema, path string) []Mismatch {
	var out []Mismatch

	// minimum, with the OAS 2.0/3.0 boolean exclusive flag
	if schema.Minimum != nil {
		excl := isExclusiveMinimum(schema)
		if excl && n <= *schema.Minimum {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("value %v must be greater than %v", n, *schema.Minimum),
				Severity: severity.SeverityError,
				Field:    "exclusiveMinimum",
			})
		} else if !excl && n < *schema.Minimum {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("value %v is less than minimum %v", n, *schema.Minimum),
				Severity: severity.SeverityError,
				Field:    "minimum",
			})
		}
	}

	// maximum
	if schema.Maximum != nil {
		excl := isExclusiveMaximum(schema)
		if excl && n >= *schema.Maximum {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("value %v must be less than %v", n, *schema.Maximum),
				Severity: severity.SeverityError,
				Field:    "exclusiveMaximum",
			})
		} else if !excl && n > *schema.Maximum {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("value %v exceeds maximum %v", n, *schema.Maximum),
				Severity: severity.SeverityError,
				Field:    "maximum",
			})
		}
	}

	// OAS 3.1 numeric form: exclusiveMinimum/exclusiveMaximum are bounds
	if bound, ok := schema.ExclusiveMinimum.(float64); ok && n <= bound {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("value %v must be greater than %v", n, bound),
			Severity: severity.SeverityError,
			Field:    "exclusiveMinimum",
		})
	}
	if bound, ok := schema.ExclusiveMaximum.(float64); ok && n >= bound {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("value %v must be less than %v", n, bound),
			Severity: severity.SeverityError,
			Field:    "exclusiveMaximum",
		})
	}

	// multipleOf
	if schema.MultipleOf != nil && *schema.MultipleOf != 0 {
		// Use modulo with tolerance for floating point precision
		remainder := n / *schema.MultipleOf
		if remainder != float64(int64(remainder)) {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("value %v is not a multiple of %v", n, *schema.MultipleOf),
				Severity: severity.SeverityError,
				Field:    "multipleOf",
			})
		}
	}

	return out
}

// compareArray checks array-specific constraints.
func (c *schemaComparator) compareArray(arr []any, schema *parser.Schema, path string) []Mismatch {
	var out []Mismatch

	// minItems
	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("array has %d items, minimum is %d", len(arr), *schema.MinItems),
			Severity: severity.SeverityError,
			Field:    "minItems",
		})
	}

	// maxItems
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("array has %d items, maximum is %d", len(arr), *schema.MaxItems),
			Severity: severity.SeverityError,
			Field:    "maxItems",
		})
	}

	// uniqueItems
	if schema.UniqueItems && hasDuplicates(arr) {
		out = append(out, Mismatch{
			Path:     path,
			Message:  "array items must be unique",
			Severity: severity.SeverityError,
			Field:    "uniqueItems",
		})
	}

	// items schema
	if itemSchema, ok := schema.Items.(*parser.Schema); ok && itemSchema != nil {
		for i, item := range arr {
			out = append(out, c.compare(item, itemSchema, issues.JoinIndex(path, i))...)
		}
	}

	return out
}

// compareObject checks object-specific constraints. Keys are walked in
// sorted order so mismatch output is deterministic.
func (c *schemaComparator) compareObject(obj map[string]any, schema *parser.Schema, path string) []Mismatch {
	var out []Mismatch

	// required properties
	for _, req := range schema.Required {
		if _, exists := obj[req]; !exists {
			out = append(out, Mismatch{
				Path:     issues.JoinKey(path, req),
				Message:  fmt.Sprintf("required property %q is missing", req),
				Severity: severity.SeverityError,
				Field:    "required",
			})
		}
	}

	// minProperties
	if schema.MinProperties != nil && len(obj) < *schema.MinProperties {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("object has %d properties, minimum is %d", len(obj), *schema.MinProperties),
			Severity: severity.SeverityError,
			Field:    "minProperties",
		})
	}

	// maxProperties
	if schema.MaxProperties != nil && len(obj) > *schema.MaxProperties {
		out = append(out, Mismatch{
			Path:     path,
			Message:  fmt.Sprintf("object has %d properties, maximum is %d", len(obj), *schema.MaxProperties),
			Severity: severity.SeverityError,
			Field:    "maxProperties",
		})
	}

	// property schemas
	for _, name := range maputil.SortedKeys(obj) {
		propSchema, documented := schema.Properties[name]
		propPath := issues.JoinKey(path, name)

		if !documented {
			out = append(out, c.compareUndocumented(obj[name], schema, name, propPath)...)
			continue
		}

		if propSchema.WriteOnly {
			sev := severity.SeverityWarning
			if c.strict {
				sev = severity.SeverityError
			}
			out = append(out, Mismatch{
				Path:     propPath,
				Message:  fmt.Sprintf("write-only property %q must not appear in responses", name),
				Severity: sev,
				Field:    "writeOnly",
			})
		}

		out = append(out, c.compare(obj[name], propSchema, propPath)...)
	}

	return out
}

// compareUndocumented handles a payload key that has no property schema.
// additionalProperties: false rejects it, an additionalProperties schema
// validates it, and an absent additionalProperties tolerates it (with a
// warning in strict mode when the schema documents other properties).
func (c *schemaComparator) compareUndocumented(value any, schema *parser.Schema, name, path string) []Mismatch {
	switch ap := schema.AdditionalProperties.(type) {
	case bool:
		if !ap {
			return []Mismatch{{
				Path:     path,
				Message:  fmt.Sprintf("additional property %q is not allowed", name),
				Severity: severity.SeverityError,
				Field:    "additionalProperties",
			}}
		}
	case *parser.Schema:
		return c.compare(value, ap, path)
	default:
		if c.strict && len(schema.Properties) > 0 {
			return []Mismatch{{
				Path:     path,
				Message:  fmt.Sprintf("property %q is not documented", name),
				Severity: severity.SeverityWarning,
				Field:    "properties",
			}}
		}
	}
	return nil
}

// compareEnum checks that the value is one of the allowed enum values.
func (c *schemaComparator) compareEnum(data any, schema *parser.Schema, path string) []Mismatch {
	for _, allowed := range schema.Enum {
		if enumEqual(data, allowed) {
			return nil
		}
	}

	msg := "value is not one of the allowed values"
	if !c.redactValues {
		msg = fmt.Sprintf("value %v is not one of the allowed values", data)
	}

	m := Mismatch{
		Path:     path,
		Message:  msg,
		Severity: severity.SeverityError,
		Field:    "enum",
	}
	if !c.redactValues {
		m.Expected = fmt.Sprintf("one of %v", schema.Enum)
	}
	return []Mismatch{m}
}

// compareComposition checks allOf, anyOf, oneOf, and not.
func (c *schemaComparator) compareComposition(data any, schema *parser.Schema, path string) []Mismatch {
	var out []Mismatch

	// allOf - all schemas must match
	if len(schema.AllOf) > 0 {
		for i, subSchema := range schema.AllOf {
			subMismatches := c.compare(data, subSchema, path)
			if hasErrors(subMismatches) {
				out = append(out, Mismatch{
					Path:     path,
					Message:  fmt.Sprintf("allOf[%d] validation failed", i),
					Severity: severity.SeverityError,
					Field:    "allOf",
				})
			}
			out = append(out, subMismatches...)
		}
	}

	// anyOf - at least one schema must match
	if len(schema.AnyOf) > 0 {
		matched := false
		for _, subSchema := range schema.AnyOf {
			if !hasErrors(c.compare(data, subSchema, path)) {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, Mismatch{
				Path:     path,
				Message:  "value does not match any of the anyOf schemas",
				Severity: severity.SeverityError,
				Field:    "anyOf",
			})
		}
	}

	// oneOf - exactly one schema must match
	if len(schema.OneOf) > 0 {
		matchCount := 0
		for _, subSchema := range schema.OneOf {
			if !hasErrors(c.compare(data, subSchema, path)) {
				matchCount++
			}
		}
		if matchCount == 0 {
			out = append(out, Mismatch{
				Path:     path,
				Message:  "value does not match any of the oneOf schemas",
				Severity: severity.SeverityError,
				Field:    "oneOf",
			})
		} else if matchCount > 1 {
			out = append(out, Mismatch{
				Path:     path,
				Message:  fmt.Sprintf("value matches %d oneOf schemas, expected exactly 1", matchCount),
				Severity: severity.SeverityError,
				Field:    "oneOf",
			})
		}
	}

	// not - the schema must not match
	if schema.Not != nil {
		if !hasErrors(c.compare(data, schema.Not, path)) {
			out = append(out, Mismatch{
				Path:     path,
				Message:  "value matches the not schema",
				Severity: severity.SeverityError,
				Field:    "not",
			})
		}
	}

	return out
}

// compareFormat checks common string formats. Format mismatches are
// warnings: formats are annotations in the specification, not hard
// constraints.
func (c *schemaComparator) compareFormat(s, format, path string) []Mismatch {
	switch format {
	case "email":
		if !stringutil.IsValidEmail(s) {
			msg := "value is not a valid email address"
			if !c.redactValues {
				msg = fmt.Sprintf("%q is not a valid email address", s)
			}
			return []Mismatch{{Path: path, Message: msg, Severity: severity.SeverityWarning, Field: "format"}}
		}
	case "uri", "uri-reference":
		if !stringutil.IsValidURI(s) {
			msg := "value is not a valid URI"
			if !c.redactValues {
				msg = fmt.Sprintf("%q is not a valid URI", s)
			}
			return []Mismatch{{Path: path, Message: msg, Severity: severity.SeverityWarning, Field: "format"}}
		}
	case "date":
		if !dateRegex.MatchString(s) {
			msg := "value is not a valid date (expected YYYY-MM-DD)"
			if !c.redactValues {
				msg = fmt.Sprintf("%q is not a valid date (expected YYYY-MM-DD)", s)
			}
			return []Mismatch{{Path: path, Message: msg, Severity: severity.SeverityWarning, Field: "format"}}
		}
	case "date-time":
		if !dateTimeRegex.MatchString(s) {
			msg := "value is not a valid date-time (expected RFC 3339)"
			if !c.redactValues {
				msg = fmt.Sprintf("%q is not a valid date-time (expected RFC 3339)", s)
			}
			return []Mismatch{{Path: path, Message: msg, Severity: severity.SeverityWarning, Field: "format"}}
		}
	case "uuid":
		if !uuidRegex.MatchString(s) {
			msg := "value is not a valid UUID"
			if !c.redactValues {
				msg = fmt.Sprintf("%q is not a valid UUID", s)
			}
			return []Mismatch{{Path: path, Message: msg, Severity: severity.SeverityWarning, Field: "format"}}
		}
	}
	// Unknown formats are ignored (as per JSON Schema spec)
	return nil
}

// maxPatternCacheSize is the upper bound on cached compiled regex patterns.
// When exceeded, the cache is cleared to prevent unbounded memory growth
// from documents with many unique patterns.
const maxPatternCacheSize = 1000

// matchPattern compiles and matches a regex pattern.
func (c *schemaComparator) matchPattern(pattern, s string) (bool, error) {
	if cached, ok := c.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}

	// Size cap: if the cache exceeds the limit, clear and start fresh.
	// The count check and clear are not atomic; under high concurrency
	// multiple goroutines may clear simultaneously, costing only extra
	// recompilation.
	if c.patternCount.Add(1) > maxPatternCacheSize {
		c.patternCache.Range(func(key, _ any) bool {
			c.patternCache.Delete(key)
			return true
		})
		c.patternCount.Store(1)
	}
	c.patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}

// value returns v for mismatch reporting, or nil when values are redacted.
func (c *schemaComparator) value(v any) any {
	if c.redactValues {
		return nil
	}
	return v
}

// Helper functions

// hasErrors reports whether any mismatch is error severity or worse.
func hasErrors(mismatches []Mismatch) bool {
	for _, m := range mismatches {
		if m.Severity == severity.SeverityError || m.Severity == severity.SeverityCritical {
			return true
		}
	}
	return false
}

// schemaTypes returns the type(s) defined in a schema. The parser normalizes
// type arrays to []string at decode time.
func schemaTypes(schema *parser.Schema) []string {
	switch t := schema.Type.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	}
	return nil
}

// dataTypeOf returns the JSON Schema type of a decoded Go value.
func dataTypeOf(data any) string {
	if data == nil {
		return "null"
	}

	switch data.(type) {
	case string:
		return "string"
	case float64, float32:
		return "number"
	case int, int32, int64, uint, uint32, uint64:
		return "integer"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		rv := reflect.ValueOf(data)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return "array"
		case reflect.Map:
			return "object"
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return "integer"
		case reflect.Float32, reflect.Float64:
			return "number"
		case reflect.String:
			return "string"
		case reflect.Bool:
			return "boolean"
		}
		return "unknown"
	}
}

// typeMatches checks if a data type matches a schema type.
func typeMatches(dataType, schemaType string) bool {
	if dataType == schemaType {
		return true
	}
	// "integer" is a subset of "number"
	if schemaType == "number" && dataType == "integer" {
		return true
	}
	// JSON has a single number type, so whole numbers can match "integer";
	// the fractional part is checked separately
	if schemaType == "integer" && dataType == "number" {
		return true
	}
	return false
}

// toFloat64 converts numeric types to float64.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	}
	return 0
}

// numericValue returns the float64 value of any numeric type.
func numericValue(v any) (float64, bool) {
	switch v.(type) {
	case int, int32, int64, uint64, float32, float64:
		return toFloat64(v), true
	}
	return 0, false
}

// enumEqual compares a payload value with a documented one. Numbers compare
// by value regardless of Go type: JSON payloads decode numbers as float64
// while YAML documents decode whole numbers as int, and an enum of [1, 2, 3]
// must still accept a payload value of 1.
func enumEqual(a, b any) bool {
	if na, ok := numericValue(a); ok {
		nb, ok := numericValue(b)
		return ok && na == nb
	}
	return reflect.DeepEqual(a, b)
}

// isExclusiveMinimum checks if minimum is exclusive (the OAS 2.0/3.0 boolean
// form; the OAS 3.1 numeric form is a bound of its own).
func isExclusiveMinimum(schema *parser.Schema) bool {
	b, ok := schema.ExclusiveMinimum.(bool)
	return ok && b
}

// isExclusiveMaximum checks if maximum is exclusive.
func isExclusiveMaximum(schema *parser.Schema) bool {
	b, ok := schema.ExclusiveMaximum.(bool)
	return ok && b
}

// hasDuplicates checks if an array has duplicate values.
func hasDuplicates(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

// Format validation helpers

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
