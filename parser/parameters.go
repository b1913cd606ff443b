package parser

// Parameter describes a single operation parameter.
// Fields are merged across OAS versions: OAS 3.x parameters carry a Schema,
// while OAS 2.0 non-body parameters describe their type inline.
type Parameter struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	In          string `yaml:"in,omitempty" json:"in,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated  bool   `yaml:"deprecated,omitempty" json:"deprecated,omitempty"` // OAS 3.0+

	// Schema describes the parameter type for OAS 3.x parameters and for
	// OAS 2.0 body parameters.
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`

	// OAS 2.0 non-body parameters describe their type inline
	Type             string  `yaml:"type,omitempty" json:"type,omitempty"`                         // OAS 2.0
	Format           string  `yaml:"format,omitempty" json:"format,omitempty"`                     // OAS 2.0
	Items            *Items  `yaml:"items,omitempty" json:"items,omitempty"`                       // OAS 2.0
	CollectionFormat string  `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"` // OAS 2.0
	Default          any     `yaml:"default,omitempty" json:"default,omitempty"`                   // OAS 2.0
	Enum             []any   `yaml:"enum,omitempty" json:"enum,omitempty"`                         // OAS 2.0
	Pattern          string  `yaml:"pattern,omitempty" json:"pattern,omitempty"`                   // OAS 2.0
	Example          any     `yaml:"example,omitempty" json:"example,omitempty"`                   // OAS 3.0+
	AllowEmptyValue  bool    `yaml:"allowEmptyValue,omitempty" json:"allowEmptyValue,omitempty"`
	Style            string  `yaml:"style,omitempty" json:"style,omitempty"`     // OAS 3.0+
	Explode          *bool   `yaml:"explode,omitempty" json:"explode,omitempty"` // OAS 3.0+

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Items describes the type of items in an array for OAS 2.0 non-body
// parameters and headers, where a full Schema object is not allowed.
type Items struct {
	Type             string `yaml:"type,omitempty" json:"type,omitempty"`
	Format           string `yaml:"format,omitempty" json:"format,omitempty"`
	Items            *Items `yaml:"items,omitempty" json:"items,omitempty"`
	CollectionFormat string `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"`
	Default          any    `yaml:"default,omitempty" json:"default,omitempty"`
	Enum             []any  `yaml:"enum,omitempty" json:"enum,omitempty"`
	Pattern          string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// RequestBody describes a single request body (OAS 3.0+)
type RequestBody struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Header describes a single response header.
// OAS 3.x headers carry a Schema; OAS 2.0 headers describe their type inline.
type Header struct {
	Ref         string  `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`     // OAS 3.0+
	Deprecated  bool    `yaml:"deprecated,omitempty" json:"deprecated,omitempty"` // OAS 3.0+
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`         // OAS 3.0+
	// OAS 2.0 specific
	Type             string `yaml:"type,omitempty" json:"type,omitempty"`                         // OAS 2.0
	Format           string `yaml:"format,omitempty" json:"format,omitempty"`                     // OAS 2.0
	Items            *Items `yaml:"items,omitempty" json:"items,omitempty"`                       // OAS 2.0
	CollectionFormat string `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"` // OAS 2.0
	Default          any    `yaml:"default,omitempty" json:"default,omitempty"`                   // OAS 2.0
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}
