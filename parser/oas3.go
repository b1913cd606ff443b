package parser

// OAS3Document represents an OpenAPI 3.x document (3.0.x, 3.1.x, 3.2.x)
type OAS3Document struct {
	OpenAPI string    `yaml:"openapi" json:"openapi"`
	Info    *Info     `yaml:"info" json:"info"`
	Servers []*Server `yaml:"servers,omitempty" json:"servers,omitempty"`
	// JSONSchemaDialect identifies the default $schema dialect (OAS 3.1+)
	JSONSchemaDialect string                `yaml:"jsonSchemaDialect,omitempty" json:"jsonSchemaDialect,omitempty"`
	Paths             map[string]*PathItem  `yaml:"paths,omitempty" json:"paths,omitempty"`
	Webhooks          map[string]*PathItem  `yaml:"webhooks,omitempty" json:"webhooks,omitempty"` // OAS 3.1+
	Components        *Components           `yaml:"components,omitempty" json:"components,omitempty"`
	Security          []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`
	Tags              []*Tag                `yaml:"tags,omitempty" json:"tags,omitempty"`
	ExternalDocs      *ExternalDocs         `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`

	// OASVersion is the resolved specification version, set by the parser
	OASVersion OASVersion `yaml:"-" json:"-"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Components holds reusable objects for an OAS 3.x document.
// All objects defined here have no effect on the API unless referenced.
type Components struct {
	Schemas         map[string]*Schema         `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Responses       map[string]*Response       `yaml:"responses,omitempty" json:"responses,omitempty"`
	Parameters      map[string]*Parameter      `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBodies   map[string]*RequestBody    `yaml:"requestBodies,omitempty" json:"requestBodies,omitempty"`
	Headers         map[string]*Header         `yaml:"headers,omitempty" json:"headers,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `yaml:"securitySchemes,omitempty" json:"securitySchemes,omitempty"`
	Examples        map[string]any             `yaml:"examples,omitempty" json:"examples,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}
