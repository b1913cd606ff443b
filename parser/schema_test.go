package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yaml.in/yaml/v4"
)

func TestSchemaItemsNormalization(t *testing.T) {
	t.Run("items as schema", func(t *testing.T) {
		data := []byte(`
type: array
items:
  type: string
  format: uri
`)
		var s Schema
		require.NoError(t, yaml.Unmarshal(data, &s))

		items, ok := s.Items.(*Schema)
		require.True(t, ok, "Expected *Schema for items, got %T", s.Items)
		assert.Equal(t, "string", items.Type)
		assert.Equal(t, "uri", items.Format)
	})

	t.Run("items as boolean", func(t *testing.T) {
		data := []byte(`
type: array
items: true
`)
		var s Schema
		require.NoError(t, yaml.Unmarshal(data, &s))

		items, ok := s.Items.(bool)
		require.True(t, ok, "Expected bool for items, got %T", s.Items)
		assert.True(t, items)
	})

	t.Run("items absent", func(t *testing.T) {
		var s Schema
		require.NoError(t, yaml.Unmarshal([]byte(`type: array`), &s))
		assert.Nil(t, s.Items)
	})

	t.Run("nested items", func(t *testing.T) {
		data := []byte(`
type: array
items:
  type: array
  items:
    type: integer
`)
		var s Schema
		require.NoError(t, yaml.Unmarshal(data, &s))

		outer, ok := s.Items.(*Schema)
		require.True(t, ok)
		inner, ok := outer.Items.(*Schema)
		require.True(t, ok, "Expected *Schema for nested items, got %T", outer.Items)
		assert.Equal(t, "integer", inner.Type)
	})
}

func TestSchemaAdditionalPropertiesNormalization(t *testing.T) {
	t.Run("as boolean false", func(t *testing.T) {
		var s Schema
		require.NoError(t, yaml.Unmarshal([]byte(`
type: object
additionalProperties: false
`), &s))

		ap, ok := s.AdditionalProperties.(bool)
		require.True(t, ok, "Expected bool, got %T", s.AdditionalProperties)
		assert.False(t, ap)
	})

	t.Run("as schema", func(t *testing.T) {
		var s Schema
		require.NoError(t, yaml.Unmarshal([]byte(`
type: object
additionalProperties:
  type: string
`), &s))

		ap, ok := s.AdditionalProperties.(*Schema)
		require.True(t, ok, "Expected *Schema, got %T", s.AdditionalProperties)
		assert.Equal(t, "string", ap.Type)
	})
}

func TestSchemaTypeNormalization(t *testing.T) {
	t.Run("scalar type", func(t *testing.T) {
		var s Schema
		require.NoError(t, yaml.Unmarshal([]byte(`type: string`), &s))
		assert.Equal(t, "string", s.Type)
	})

	t.Run("type array", func(t *testing.T) {
		var s Schema
		require.NoError(t, yaml.Unmarshal([]byte(`type: [string, "null"]`), &s))

		types, ok := s.Type.([]string)
		require.True(t, ok, "Expected []string, got %T", s.Type)
		assert.Equal(t, []string{"string", "null"}, types)
	})
}

func TestSchemaExclusiveBoundsNormalization(t *testing.T) {
	t.Run("boolean form", func(t *testing.T) {
		var s Schema
		require.NoError(t, yaml.Unmarshal([]byte(`
type: number
minimum: 0
exclusiveMinimum: true
`), &s))

		b, ok := s.ExclusiveMinimum.(bool)
		require.True(t, ok, "Expected bool, got %T", s.ExclusiveMinimum)
		assert.True(t, b)
		require.NotNil(t, s.Minimum)
		assert.Equal(t, 0.0, *s.Minimum)
	})

	t.Run("numeric form", func(t *testing.T) {
		var s Schema
		require.NoError(t, yaml.Unmarshal([]byte(`
type: number
exclusiveMinimum: 3
exclusiveMaximum: 10.5
`), &s))

		lo, ok := s.ExclusiveMinimum.(float64)
		require.True(t, ok, "Expected float64, got %T", s.ExclusiveMinimum)
		assert.Equal(t, 3.0, lo)

		hi, ok := s.ExclusiveMaximum.(float64)
		require.True(t, ok, "Expected float64, got %T", s.ExclusiveMaximum)
		assert.Equal(t, 10.5, hi)
	})
}

func TestSchemaExtensionsYAML(t *testing.T) {
	var s Schema
	require.NoError(t, yaml.Unmarshal([]byte(`
type: object
x-nullable: true
x-internal: pets-team
`), &s))

	require.NotNil(t, s.Extra)
	assert.Equal(t, true, s.Extra["x-nullable"])
	assert.Equal(t, "pets-team", s.Extra["x-internal"])
}

func TestSchemaExtensionsJSON(t *testing.T) {
	data := []byte(`{
  "type": "array",
  "items": {"type": "string"},
  "x-order": 3
}`)
	var s Schema
	require.NoError(t, json.Unmarshal(data, &s))

	items, ok := s.Items.(*Schema)
	require.True(t, ok, "Expected *Schema for items decoded from JSON, got %T", s.Items)
	assert.Equal(t, "string", items.Type)

	require.NotNil(t, s.Extra)
	assert.Equal(t, float64(3), s.Extra["x-order"])
}

func TestSchemaCompositionAndConstraints(t *testing.T) {
	data := []byte(`
allOf:
  - type: object
    required: [id]
    properties:
      id:
        type: integer
        minimum: 1
  - type: object
    properties:
      name:
        type: string
        minLength: 1
        pattern: '^[a-z]+$'
`)
	var s Schema
	require.NoError(t, yaml.Unmarshal(data, &s))

	require.Len(t, s.AllOf, 2)
	first := s.AllOf[0]
	assert.Equal(t, []string{"id"}, first.Required)
	require.Contains(t, first.Properties, "id")
	require.NotNil(t, first.Properties["id"].Minimum)
	assert.Equal(t, 1.0, *first.Properties["id"].Minimum)

	second := s.AllOf[1]
	require.Contains(t, second.Properties, "name")
	name := second.Properties["name"]
	require.NotNil(t, name.MinLength)
	assert.Equal(t, 1, *name.MinLength)
	assert.Equal(t, `^[a-z]+$`, name.Pattern)
}

func TestSchemaDiscriminator(t *testing.T) {
	data := []byte(`
oneOf:
  - $ref: '#/components/schemas/Cat'
  - $ref: '#/components/schemas/Dog'
discriminator:
  propertyName: petType
  mapping:
    cat: '#/components/schemas/Cat'
`)
	var s Schema
	require.NoError(t, yaml.Unmarshal(data, &s))

	require.Len(t, s.OneOf, 2)
	assert.Equal(t, "#/components/schemas/Cat", s.OneOf[0].Ref)
	require.NotNil(t, s.Discriminator)
	assert.Equal(t, "petType", s.Discriminator.PropertyName)
	assert.Equal(t, "#/components/schemas/Cat", s.Discriminator.Mapping["cat"])
}
