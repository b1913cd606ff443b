package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oastest/oaserrors"
)

func TestParseOAS2(t *testing.T) {
	p := New()
	result, err := p.Parse("../testdata/petstore-2.0.yaml")
	if err != nil {
		t.Fatalf("Failed to parse OAS 2.0 file: %v", err)
	}

	if result.Version != "2.0" {
		t.Errorf("Expected version 2.0, got %s", result.Version)
	}
	if result.OASVersion != OASVersion20 {
		t.Errorf("Expected OASVersion20, got %v", result.OASVersion)
	}

	doc, ok := result.OAS2()
	if !ok {
		t.Fatalf("Expected OAS2Document, got %T", result.Document)
	}

	if doc.Info == nil {
		t.Fatal("Info should not be nil")
	}
	if doc.Info.Title != "Petstore API" {
		t.Errorf("Expected title 'Petstore API', got '%s'", doc.Info.Title)
	}
	if doc.BasePath != "/v1" {
		t.Errorf("Expected basePath '/v1', got '%s'", doc.BasePath)
	}

	if len(result.Errors) > 0 {
		t.Errorf("Unexpected validation errors: %v", result.Errors)
	}
}

func TestParseOAS3(t *testing.T) {
	p := New()
	result, err := p.Parse("../testdata/petstore-3.0.yaml")
	if err != nil {
		t.Fatalf("Failed to parse OAS 3.0 file: %v", err)
	}

	if result.Version != "3.0.3" {
		t.Errorf("Expected version 3.0.3, got %s", result.Version)
	}

	doc, ok := result.OAS3()
	if !ok {
		t.Fatalf("Expected OAS3Document, got %T", result.Document)
	}

	if doc.Info == nil {
		t.Fatal("Info should not be nil")
	}
	if doc.Info.Title != "Petstore API" {
		t.Errorf("Expected title 'Petstore API', got '%s'", doc.Info.Title)
	}

	pets, ok := doc.Paths["/pets"]
	if !ok {
		t.Fatal("Expected /pets path")
	}
	if pets.Get == nil || pets.Get.OperationID != "listPets" {
		t.Errorf("Expected listPets operation on GET /pets")
	}
	if pets.Get.Responses == nil || pets.Get.Responses.Codes["200"] == nil {
		t.Error("Expected a 200 response on GET /pets")
	}
	if pets.Get.Responses.Default == nil {
		t.Error("Expected a default response on GET /pets")
	}

	if len(result.Errors) > 0 {
		t.Errorf("Unexpected validation errors: %v", result.Errors)
	}
}

func TestParseBytesVersions(t *testing.T) {
	tests := []struct {
		version      string
		versionField string
		expectedType string
	}{
		{"2.0", "swagger", "OAS2Document"},
		{"3.0.0", "openapi", "OAS3Document"},
		{"3.0.3", "openapi", "OAS3Document"},
		{"3.1.0", "openapi", "OAS3Document"},
		{"3.2.0", "openapi", "OAS3Document"},
	}

	for _, tt := range tests {
		t.Run("OAS_"+tt.version, func(t *testing.T) {
			data := []byte(tt.versionField + `: "` + tt.version + `"
info:
  title: Test API
  version: 1.0.0
paths:
  /test:
    get:
      responses:
        '200':
          description: Success
`)
			result, err := New().ParseBytes(data, "")
			if err != nil {
				t.Fatalf("Failed to parse OAS %s: %v", tt.version, err)
			}

			if result.Version != tt.version {
				t.Errorf("Version detection failed: expected %s, got %s", tt.version, result.Version)
			}

			switch tt.expectedType {
			case "OAS2Document":
				if _, ok := result.OAS2(); !ok {
					t.Errorf("Expected *OAS2Document for version %s, got %T", tt.version, result.Document)
				}
			case "OAS3Document":
				if _, ok := result.OAS3(); !ok {
					t.Errorf("Expected *OAS3Document for version %s, got %T", tt.version, result.Document)
				}
			}

			if len(result.Errors) > 0 {
				t.Errorf("Unexpected validation errors for OAS %s: %v", tt.version, result.Errors)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
  "openapi": "3.0.3",
  "info": {"title": "JSON API", "version": "2.1.0"},
  "paths": {
    "/items": {
      "get": {
        "responses": {
          "200": {"description": "OK"}
        }
      }
    }
  }
}`)

	result, err := New().ParseBytes(data, "items-api")
	require.NoError(t, err)

	assert.Equal(t, SourceFormatJSON, result.SourceFormat)
	assert.Equal(t, "items-api", result.SourceName)
	assert.Equal(t, OASVersion303, result.OASVersion)

	doc, ok := result.OAS3()
	require.True(t, ok, "Expected OAS3Document")
	assert.Equal(t, "JSON API", doc.Info.Title)
	require.Contains(t, doc.Paths, "/items")
	assert.NotNil(t, doc.Paths["/items"].Get.Responses.Codes["200"])
}

func TestParseReaderDefaultName(t *testing.T) {
	data := `openapi: "3.0.3"
info:
  title: Reader API
  version: 1.0.0
paths:
  /r:
    get:
      responses:
        '200':
          description: OK
`
	result, err := New().ParseReader(strings.NewReader(data), "")
	require.NoError(t, err)
	assert.Equal(t, "ParseReader", result.SourceName)
	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, int64(len(data)), result.SourceSize)
}

func TestParseVersionDetectionFailure(t *testing.T) {
	data := []byte(`
info:
  title: No Version
  version: 1.0.0
paths: {}
`)
	_, err := New().ParseBytes(data, "no-version")
	if err == nil {
		t.Fatal("Expected error for document without version field")
	}

	var perr *oaserrors.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *oaserrors.ParseError, got %T", err)
	}
	if perr.Path != "no-version" {
		t.Errorf("Expected source 'no-version' in error, got %q", perr.Path)
	}
	if !errors.Is(err, oaserrors.ErrParse) {
		t.Error("Expected error to match oaserrors.ErrParse")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := New().ParseBytes([]byte("openapi: [unclosed"), "bad")
	if err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
	var perr *oaserrors.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *oaserrors.ParseError, got %T", err)
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	data := []byte(`openapi: "4.0.0"
info:
  title: Future API
  version: 1.0.0
paths: {}
`)
	_, err := New().ParseBytes(data, "")
	if err == nil {
		t.Fatal("Expected error for unsupported version 4.0.0")
	}
	if !strings.Contains(err.Error(), "4.0.0") {
		t.Errorf("Expected the version in the error, got: %v", err)
	}
}

func TestParseSizeLimit(t *testing.T) {
	p := New()
	p.MaxDocumentSize = 10

	_, err := p.ParseBytes([]byte(`openapi: "3.0.3"`), "big")
	if err == nil {
		t.Fatal("Expected error for document over the size limit")
	}

	var lerr *oaserrors.ResourceLimitError
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected *oaserrors.ResourceLimitError in chain, got %T", err)
	}
	if lerr.ResourceType != "document_size" {
		t.Errorf("Expected resource type document_size, got %s", lerr.ResourceType)
	}
	// The size failure is still a parse failure
	if !errors.Is(err, oaserrors.ErrParse) {
		t.Error("Expected error to match oaserrors.ErrParse")
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := New().Parse("does-not-exist.yaml")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	var perr *oaserrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "does-not-exist.yaml", perr.Path)
}

func TestValidationIssues(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantSub  string
	}{
		{
			name: "missing info title",
			doc: `openapi: "3.0.3"
info:
  version: 1.0.0
paths: {}
`,
			wantSub: "info.title",
		},
		{
			name: "path without leading slash",
			doc: `openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  pets:
    get:
      responses:
        '200':
          description: OK
`,
			wantSub: "path must begin with '/'",
		},
		{
			name: "duplicate operationId",
			doc: `openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      operationId: sameOp
      responses:
        '200':
          description: OK
  /b:
    get:
      operationId: sameOp
      responses:
        '200':
          description: OK
`,
			wantSub: "duplicate operationId 'sameOp'",
		},
		{
			name: "missing responses",
			doc: `openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      operationId: noResponses
`,
			wantSub: "responses",
		},
		{
			name: "invalid parameter location",
			doc: `openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      parameters:
        - name: p
          in: formData
          schema:
            type: string
      responses:
        '200':
          description: OK
`,
			wantSub: "not a valid parameter location",
		},
		{
			name: "duplicate parameter name and location",
			doc: `openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      parameters:
        - name: p
          in: query
          schema:
            type: string
        - name: p
          in: query
          schema:
            type: string
      responses:
        '200':
          description: OK
`,
			wantSub: "duplicate parameter (name: p, in: query)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().ParseBytes([]byte(tt.doc), "")
			require.NoError(t, err)
			require.NotEmpty(t, result.Errors, "expected validation errors")

			found := false
			for _, e := range result.Errors {
				if strings.Contains(e.Error(), tt.wantSub) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("No validation error containing %q; got: %v", tt.wantSub, result.Errors)
			}
		})
	}
}

func TestValidationDisabled(t *testing.T) {
	doc := `openapi: "3.0.3"
info:
  version: 1.0.0
paths: {}
`
	p := New()
	p.ValidateStructure = false
	result, err := p.ParseBytes([]byte(doc), "")
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
}

func TestOAS31PathsOrWebhooksRequired(t *testing.T) {
	doc := `openapi: "3.1.0"
info:
  title: T
  version: 1.0.0
`
	result, err := New().ParseBytes([]byte(doc), "")
	require.NoError(t, err)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Error(), "either 'paths' or 'webhooks'")

	withWebhooks := `openapi: "3.1.0"
info:
  title: T
  version: 1.0.0
webhooks:
  newPet:
    post:
      responses:
        '200':
          description: OK
`
	result, err = New().ParseBytes([]byte(withWebhooks), "")
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
}

func TestRCVersionsAccepted(t *testing.T) {
	tests := []struct {
		rcVersion      string
		expectedOASVer OASVersion
	}{
		{"3.0.0-rc1", OASVersion300},
		{"3.1.0-rc0", OASVersion310},
		{"3.0.9-rc0", OASVersion304}, // Maps to closest without exceeding
		{"3.1.5-rc0", OASVersion312}, // Maps to closest without exceeding
	}

	for _, tt := range tests {
		t.Run("RC_"+tt.rcVersion, func(t *testing.T) {
			data := []byte(`
openapi: "` + tt.rcVersion + `"
info:
  title: Test API
  version: 1.0.0
paths:
  /test:
    get:
      responses:
        '200':
          description: Success
`)
			result, err := New().ParseBytes(data, "")
			assert.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.expectedOASVer, result.OASVersion)
			assert.Equal(t, tt.rcVersion, result.Version) // Original version string preserved

			doc, ok := result.OAS3()
			require.True(t, ok, "Expected OAS3Document")
			assert.Equal(t, tt.rcVersion, doc.OpenAPI)
		})
	}
}

func TestExtensionCapture(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
  x-internal-id: abc-123
paths:
  /a:
    get:
      responses:
        '200':
          description: OK
`)
	result, err := New().ParseBytes(data, "")
	require.NoError(t, err)

	doc, ok := result.OAS3()
	require.True(t, ok)
	assert.Equal(t, "abc-123", doc.Info.Extra["x-internal-id"])
}
