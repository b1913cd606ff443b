package parser

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Schema represents an OAS Schema object. Fields are merged across OAS 2.0,
// 3.0.x, and 3.1+ (JSON Schema); version-specific fields stay zero when the
// document does not use them.
//
// Several fields are polymorphic in the specification and are therefore
// typed as any. The parser normalizes them during decode:
//
//   - Type: string, or []string for OAS 3.1+ type arrays
//   - Items: *Schema, or bool for OAS 3.1+ boolean form
//   - AdditionalProperties: *Schema or bool
//   - ExclusiveMinimum / ExclusiveMaximum: bool (OAS 2.0/3.0) or
//     float64 (OAS 3.1+, where the field itself carries the bound)
type Schema struct {
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Type validation
	Type   any    `yaml:"type,omitempty" json:"type,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Metadata
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`

	// Value constraints
	Enum  []any `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const any   `yaml:"const,omitempty" json:"const,omitempty"` // OAS 3.1+

	// Numeric constraints
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum any      `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum any      `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`

	// String constraints
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Array constraints
	Items       any  `yaml:"items,omitempty" json:"items,omitempty"`
	MaxItems    *int `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems    *int `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems bool `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`

	// Object constraints
	MaxProperties        *int               `yaml:"maxProperties,omitempty" json:"maxProperties,omitempty"`
	MinProperties        *int               `yaml:"minProperties,omitempty" json:"minProperties,omitempty"`
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	AdditionalProperties any                `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`

	// Composition
	AllOf         []*Schema      `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf         []*Schema      `yaml:"anyOf,omitempty" json:"anyOf,omitempty"` // OAS 3.0+
	OneOf         []*Schema      `yaml:"oneOf,omitempty" json:"oneOf,omitempty"` // OAS 3.0+
	Not           *Schema        `yaml:"not,omitempty" json:"not,omitempty"`     // OAS 3.0+
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`

	// Annotations
	Nullable     bool          `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only
	ReadOnly     bool          `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	WriteOnly    bool          `yaml:"writeOnly,omitempty" json:"writeOnly,omitempty"` // OAS 3.0+
	Deprecated   bool          `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Example      any           `yaml:"example,omitempty" json:"example,omitempty"`
	Examples     []any         `yaml:"examples,omitempty" json:"examples,omitempty"` // OAS 3.1+
	ExternalDocs *ExternalDocs `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	// and any other fields not explicitly defined in the struct
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Discriminator aids in serialization, deserialization, and validation of
// polymorphic schemas (OAS 3.0+).
type Discriminator struct {
	PropertyName string            `yaml:"propertyName" json:"propertyName"`
	Mapping      map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// UnmarshalYAML implements custom unmarshaling for Schema so that the
// polymorphic fields carry their documented Go types after decode.
func (s *Schema) UnmarshalYAML(unmarshal func(any) error) error {
	type alias Schema
	var a alias
	if err := unmarshal(&a); err != nil {
		return err
	}
	*s = Schema(a)
	return s.normalize(yamlConvert)
}

// UnmarshalJSON implements custom unmarshaling for Schema. In addition to
// normalizing the polymorphic fields, it captures specification extensions
// (x- fields) in Extra, which encoding/json cannot do with struct tags.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type alias Schema
	aux := (*alias)(s)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	extra := make(map[string]any)
	for k, v := range m {
		if len(k) >= 2 && k[0] == 'x' && k[1] == '-' {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		s.Extra = extra
	}

	return s.normalize(jsonConvert)
}

// normalize coerces the polymorphic any-typed fields into their documented
// shapes. convert re-decodes a raw map into a typed value using the codec
// the document arrived in.
func (s *Schema) normalize(convert func(in, out any) error) error {
	var err error
	if s.Items, err = schemaOrBool(s.Items, convert); err != nil {
		return fmt.Errorf("schema items: %w", err)
	}
	if s.AdditionalProperties, err = schemaOrBool(s.AdditionalProperties, convert); err != nil {
		return fmt.Errorf("schema additionalProperties: %w", err)
	}
	s.Type = normalizeType(s.Type)
	s.ExclusiveMinimum = normalizeBound(s.ExclusiveMinimum)
	s.ExclusiveMaximum = normalizeBound(s.ExclusiveMaximum)
	return nil
}

// schemaOrBool converts a raw decoded value for fields that hold either a
// Schema object or a boolean (items and additionalProperties).
func schemaOrBool(v any, convert func(in, out any) error) (any, error) {
	switch val := v.(type) {
	case nil, bool, *Schema:
		return v, nil
	case map[string]any:
		var sub Schema
		if err := convert(val, &sub); err != nil {
			return nil, err
		}
		return &sub, nil
	default:
		return v, nil
	}
}

// normalizeType converts an OAS 3.1+ type array from []any to []string.
// Scalar string types pass through unchanged.
func normalizeType(v any) any {
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	types := make([]string, 0, len(arr))
	for _, t := range arr {
		if s, ok := t.(string); ok {
			types = append(types, s)
		}
	}
	return types
}

// normalizeBound converts numeric exclusiveMinimum/exclusiveMaximum values
// to float64. The boolean OAS 2.0/3.0 form passes through unchanged.
func normalizeBound(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// yamlConvert re-decodes a raw YAML-derived value into a typed destination.
func yamlConvert(in, out any) error {
	b, err := yaml.Marshal(in)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// jsonConvert re-decodes a raw JSON-derived value into a typed destination.
func jsonConvert(in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
