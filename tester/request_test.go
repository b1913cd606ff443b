package tester

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oastest/oaserrors"
)

const intake3YAML = `
openapi: 3.0.3
info:
  title: Pet intake
  version: 1.0.0
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/NewPet'
      responses:
        '201':
          description: created
  /pets/{petId}:
    get:
      operationId: getPet
      responses:
        '200':
          description: a pet
    patch:
      operationId: renamePet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                name:
                  type: string
      responses:
        '204':
          description: renamed
  /notes:
    post:
      operationId: createNote
      requestBody:
        required: true
        content:
          text/plain:
            schema:
              type: string
      responses:
        '201':
          description: created
components:
  schemas:
    NewPet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        age:
          type: integer
`

const intake2YAML = `
swagger: "2.0"
info:
  title: Pet intake
  version: 1.0.0
consumes:
  - application/json
paths:
  /pets:
    post:
      operationId: createPet
      parameters:
        - name: pet
          in: body
          required: true
          schema:
            type: object
            required: [name]
            properties:
              name:
                type: string
      responses:
        '201':
          description: created
  /pets/{petId}:
    parameters:
      - name: patch
        in: body
        schema:
          type: object
          properties:
            note:
              type: string
    put:
      operationId: replacePet
      responses:
        '204':
          description: replaced
`

func newIntakeTester(t *testing.T, opts ...Option) *Tester {
	t.Helper()
	tt, err := New(mustParse(t, intake3YAML), opts...)
	require.NoError(t, err)
	return tt
}

func jsonRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestValidateRequestBody(t *testing.T) {
	tt := newIntakeTester(t)

	t.Run("documented body matches", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), []byte(`{"name":"rex","age":3}`))
		assert.True(t, res.Valid)
		assert.NoError(t, res.Err)
		assert.Equal(t, "POST", res.Method)
		assert.Equal(t, "/pets", res.Path)
		assert.Equal(t, "createPet", res.OperationID)
		assert.Zero(t, res.Status)
		assert.Empty(t, res.ResponseKey)
		assert.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), []byte(`{"name":"rex","age":"three"}`))
		assert.False(t, res.Valid)
		assert.NoError(t, res.Err)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "$.age", res.Errors[0].Path)
		assert.Equal(t, "expected type integer but got string", res.Errors[0].Message)
	})

	t.Run("required body missing", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), nil)
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, oaserrors.ErrBody)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "request body is required but the request carries none", res.Errors[0].Message)
	})

	t.Run("optional body missing", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPatch, "/pets/9"), nil)
		assert.True(t, res.Valid)
		assert.NoError(t, res.Err)
		assert.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("undocumented content type warns", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pets", nil)
		req.Header.Set("Content-Type", "application/xml")
		res := tt.ValidateRequestBody(req, []byte(`<pet/>`))
		assert.True(t, res.Valid)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, `content type "application/xml" is not documented for this request (documented: application/json)`, res.Warnings[0].Message)
		assert.Equal(t, "content", res.Warnings[0].Field)
	})

	t.Run("body without documentation warns", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodGet, "/pets/9"), []byte(`{"x":1}`))
		assert.True(t, res.Valid)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "request carries a body but none is documented", res.Warnings[0].Message)
		assert.Equal(t, "requestBody", res.Warnings[0].Field)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), []byte(`{"name":`))
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, oaserrors.ErrBody)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, "invalid JSON in request")
	})

	t.Run("documented non-JSON body cannot be compared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/notes", nil)
		req.Header.Set("Content-Type", "text/plain")
		res := tt.ValidateRequestBody(req, []byte("remember the milk"))
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, oaserrors.ErrBody)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "request body is not JSON and cannot be tested against the documented schema", res.Errors[0].Message)
	})

	t.Run("nil request", func(t *testing.T) {
		res := tt.ValidateRequestBody(nil, nil)
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, oaserrors.ErrConfig)
	})

	t.Run("unresolved path", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/petz"), []byte(`{}`))
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, oaserrors.ErrRoute)
	})

	t.Run("undocumented method", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodDelete, "/pets"), []byte(`{}`))
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, oaserrors.ErrMethod)
	})
}

func TestValidateRequestBodySummary(t *testing.T) {
	tt := newIntakeTester(t)

	valid := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), []byte(`{"name":"rex"}`))
	assert.Equal(t, "request body matches POST /pets", valid.Summary())

	invalid := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), []byte(`{}`))
	assert.Contains(t, invalid.Summary(), "request validation failed with 1 error(s):")
	assert.Contains(t, invalid.Summary(), `required property "name" is missing`)
}

func TestValidateRequestBodyOAS2(t *testing.T) {
	tt, err := New(mustParse(t, intake2YAML))
	require.NoError(t, err)

	t.Run("body parameter matches", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), []byte(`{"name":"rex"}`))
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("body parameter mismatch", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPost, "/pets"), []byte(`{}`))
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, `required property "name" is missing`, res.Errors[0].Message)
	})

	t.Run("undocumented consumes warns", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pets", nil)
		req.Header.Set("Content-Type", "text/csv")
		res := tt.ValidateRequestBody(req, []byte("name\nrex"))
		assert.True(t, res.Valid)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, `content type "text/csv" is not documented for this request (documented: application/json)`, res.Warnings[0].Message)
		assert.Equal(t, "consumes", res.Warnings[0].Field)
	})

	t.Run("path item body parameter", func(t *testing.T) {
		res := tt.ValidateRequestBody(jsonRequest(http.MethodPut, "/pets/9"), []byte(`{"note":7}`))
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "$.note", res.Errors[0].Path)
		assert.Equal(t, "expected type string but got number", res.Errors[0].Message)
	})
}
