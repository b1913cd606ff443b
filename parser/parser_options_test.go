package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var minimalDoc = []byte(`openapi: "3.0.3"
info:
  title: Minimal API
  version: 1.0.0
paths:
  /ping:
    get:
      responses:
        '200':
          description: OK
`)

func TestParseWithOptionsBytes(t *testing.T) {
	result, err := ParseWithOptions(
		WithBytes(minimalDoc),
		WithSourceName("minimal-api"),
	)
	require.NoError(t, err)
	assert.Equal(t, "minimal-api", result.SourceName)
	assert.Equal(t, OASVersion303, result.OASVersion)
}

func TestParseWithOptionsFilePath(t *testing.T) {
	result, err := ParseWithOptions(
		WithFilePath("../testdata/petstore-3.0.yaml"),
		WithResolveRefs(true),
	)
	require.NoError(t, err)

	doc, ok := result.OAS3()
	require.True(t, ok)
	assert.Equal(t, "Petstore API", doc.Info.Title)

	// Refs resolved: the pet response schema is expanded in place
	schema := doc.Paths["/pets/{petId}"].Get.Responses.Codes["200"].Content["application/json"].Schema
	require.NotNil(t, schema)
	assert.Empty(t, schema.Ref)
	assert.Contains(t, schema.Properties, "name")
}

func TestParseWithOptionsReader(t *testing.T) {
	result, err := ParseWithOptions(
		WithReader(strings.NewReader(string(minimalDoc))),
		WithSourceName("from-reader"),
	)
	require.NoError(t, err)
	assert.Equal(t, "from-reader", result.SourceName)
}

func TestParseWithOptionsNoSource(t *testing.T) {
	_, err := ParseWithOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify an input source")
}

func TestParseWithOptionsMultipleSources(t *testing.T) {
	_, err := ParseWithOptions(
		WithBytes(minimalDoc),
		WithFilePath("../testdata/petstore-3.0.yaml"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify exactly one input source")
}

func TestParseWithOptionsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantSub string
	}{
		{"nil reader", []Option{WithReader(nil)}, "reader cannot be nil"},
		{"nil bytes", []Option{WithBytes(nil)}, "bytes cannot be nil"},
		{"negative ref depth", []Option{WithBytes(minimalDoc), WithMaxRefDepth(-1)}, "maxRefDepth cannot be negative"},
		{"negative document size", []Option{WithBytes(minimalDoc), WithMaxDocumentSize(-1)}, "maxDocumentSize cannot be negative"},
		{"empty source name", []Option{WithBytes(minimalDoc), WithSourceName("")}, "source name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithOptions(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSub)
		})
	}
}

func TestParseWithOptionsValidationToggle(t *testing.T) {
	invalid := []byte(`openapi: "3.0.3"
info:
  version: 1.0.0
paths: {}
`)

	result, err := ParseWithOptions(WithBytes(invalid))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors, "validation should run by default")

	result, err = ParseWithOptions(WithBytes(invalid), WithValidateStructure(false))
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
}

func TestParseWithOptionsDocumentSizeLimit(t *testing.T) {
	_, err := ParseWithOptions(
		WithBytes(minimalDoc),
		WithMaxDocumentSize(8),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size limit")
}
