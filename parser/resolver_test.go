package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oastest/oaserrors"
)

func TestResolveRefs(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: Ref API
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id]
      properties:
        id:
          type: integer
        category:
          $ref: '#/components/schemas/Category'
    Category:
      type: object
      properties:
        name:
          type: string
`)

	p := New()
	p.ResolveRefs = true
	result, err := p.ParseBytes(data, "")
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	doc, ok := result.OAS3()
	require.True(t, ok)

	op := doc.Paths["/pets"].Get
	require.NotNil(t, op)
	resp := op.Responses.Codes["200"]
	require.NotNil(t, resp)
	mt := resp.Content["application/json"]
	require.NotNil(t, mt)
	require.NotNil(t, mt.Schema)

	// The $ref should be fully expanded into the typed document
	schema := mt.Schema
	if schema.Ref != "" {
		t.Errorf("Expected resolved schema, still has $ref %q", schema.Ref)
	}
	assert.Equal(t, []string{"id"}, schema.Required)
	require.Contains(t, schema.Properties, "id")

	// Nested refs resolve too
	cat, ok := schema.Properties["category"]
	require.True(t, ok)
	require.NotNil(t, cat)
	assert.Empty(t, cat.Ref)
	require.Contains(t, cat.Properties, "name")
}

func TestResolveRefsDisabledByDefault(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Thing'
components:
  schemas:
    Thing:
      type: object
`)
	result, err := New().ParseBytes(data, "")
	require.NoError(t, err)

	doc, _ := result.OAS3()
	schema := doc.Paths["/a"].Get.Responses.Codes["200"].Content["application/json"].Schema
	require.NotNil(t, schema)
	assert.Equal(t, "#/components/schemas/Thing", schema.Ref)
}

func TestResolveCircularRefs(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: Circular API
  version: 1.0.0
paths:
  /nodes:
    get:
      operationId: listNodes
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Node'
components:
  schemas:
    Node:
      type: object
      properties:
        value:
          type: string
        parent:
          $ref: '#/components/schemas/Node'
`)

	p := New()
	p.ResolveRefs = true
	result, err := p.ParseBytes(data, "")
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Circular references detected")

	// The outer ref expands; the self-reference stays as a $ref pointer
	doc, ok := result.OAS3()
	require.True(t, ok)
	schema := doc.Paths["/nodes"].Get.Responses.Codes["200"].Content["application/json"].Schema
	require.NotNil(t, schema)
	assert.Empty(t, schema.Ref)
	require.Contains(t, schema.Properties, "parent")
	assert.Equal(t, "#/components/schemas/Node", schema.Properties["parent"].Ref)
}

func TestResolveCircularRefsOrderIndependent(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: Circular API
  version: 1.0.0
paths:
  /nodes:
    get:
      operationId: listNodes
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Node'
components:
  schemas:
    Node:
      type: object
      properties:
        value:
          type: string
        parent:
          $ref: '#/components/schemas/Node'
`)

	// Map iteration order varies between parses; whether the walk reaches
	// paths or components first must not change where the circular $ref
	// pointer lands.
	for i := 0; i < 25; i++ {
		p := New()
		p.ResolveRefs = true
		result, err := p.ParseBytes(data, "")
		require.NoError(t, err)

		doc, ok := result.OAS3()
		require.True(t, ok)

		schema := doc.Paths["/nodes"].Get.Responses.Codes["200"].Content["application/json"].Schema
		require.NotNil(t, schema)
		require.Contains(t, schema.Properties, "parent")
		assert.Equal(t, "#/components/schemas/Node", schema.Properties["parent"].Ref,
			"expanded response schema must keep the circular $ref at the reference site")

		require.NotNil(t, doc.Components)
		node := doc.Components.Schemas["Node"]
		require.NotNil(t, node)
		require.Contains(t, node.Properties, "parent")
		assert.Equal(t, "#/components/schemas/Node", node.Properties["parent"].Ref,
			"self-reference inside the definition must stay a $ref pointer")
	}
}

func TestResolveAliasChain(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: Alias API
  version: 1.0.0
paths:
  /a:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/PetAlias'
components:
  schemas:
    PetAlias:
      $ref: '#/components/schemas/Pet'
    Pet:
      type: object
      properties:
        name:
          type: string
`)
	p := New()
	p.ResolveRefs = true
	result, err := p.ParseBytes(data, "")
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	doc, ok := result.OAS3()
	require.True(t, ok)
	schema := doc.Paths["/a"].Get.Responses.Codes["200"].Content["application/json"].Schema
	require.NotNil(t, schema)
	assert.Empty(t, schema.Ref)
	require.Contains(t, schema.Properties, "name")
}

func TestResolveMutualCircularRefs(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/A'
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/B'
    B:
      type: object
      properties:
        a:
          $ref: '#/components/schemas/A'
`)
	p := New()
	p.ResolveRefs = true
	result, err := p.ParseBytes(data, "")
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "Circular references detected")
}

func TestResolveUnknownRef(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Missing'
components:
  schemas: {}
`)
	p := New()
	p.ResolveRefs = true
	_, err := p.ParseBytes(data, "")
	require.Error(t, err)

	var rerr *oaserrors.ReferenceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "#/components/schemas/Missing", rerr.Ref)
	assert.Contains(t, rerr.Error(), "missing key: Missing")
	assert.True(t, errors.Is(err, oaserrors.ErrReference))
}

func TestResolveRemoteRefRejected(t *testing.T) {
	tests := []string{
		"https://example.com/schemas.yaml#/Pet",
		"./common.yaml#/components/schemas/Pet",
		"other.json#/definitions/Pet",
	}

	for _, ref := range tests {
		t.Run(ref, func(t *testing.T) {
			data := []byte(`openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '` + ref + `'
`)
			p := New()
			p.ResolveRefs = true
			_, err := p.ParseBytes(data, "")
			require.Error(t, err)

			var rerr *oaserrors.ReferenceError
			require.ErrorAs(t, err, &rerr)
			assert.Contains(t, rerr.Error(), "only local references are supported")
		})
	}
}

func TestResolveRefDepthLimit(t *testing.T) {
	data := []byte(`openapi: "3.0.3"
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/A'
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/B'
    B:
      type: object
      properties:
        c:
          type: string
`)
	p := New()
	p.ResolveRefs = true
	p.MaxRefDepth = 2
	_, err := p.ParseBytes(data, "")
	require.Error(t, err)

	var lerr *oaserrors.ResourceLimitError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "ref_depth", lerr.ResourceType)
}

func TestResolveLocalPointerTraversal(t *testing.T) {
	doc := map[string]any{
		"paths": map[string]any{
			"/pets": map[string]any{
				"get": map[string]any{
					"parameters": []any{
						map[string]any{"name": "limit", "in": "query"},
						map[string]any{"name": "offset", "in": "query"},
					},
				},
			},
		},
		"components": map[string]any{
			"weird~key": map[string]any{"ok": true},
		},
	}

	r := newRefResolver(0)

	t.Run("escaped slash in token", func(t *testing.T) {
		got, err := r.resolveLocal(doc, "#/paths/~1pets/get")
		require.NoError(t, err)
		m, ok := got.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, m, "parameters")
	})

	t.Run("escaped tilde in token", func(t *testing.T) {
		got, err := r.resolveLocal(doc, "#/components/weird~0key")
		require.NoError(t, err)
		m, ok := got.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, m["ok"])
	})

	t.Run("array index", func(t *testing.T) {
		got, err := r.resolveLocal(doc, "#/paths/~1pets/get/parameters/1")
		require.NoError(t, err)
		m, ok := got.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "offset", m["name"])
	})

	t.Run("array index out of bounds", func(t *testing.T) {
		_, err := r.resolveLocal(doc, "#/paths/~1pets/get/parameters/5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of bounds")
	})

	t.Run("non-numeric array index", func(t *testing.T) {
		_, err := r.resolveLocal(doc, "#/paths/~1pets/get/parameters/first")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid array index")
	})

	t.Run("traversal into scalar", func(t *testing.T) {
		_, err := r.resolveLocal(doc, "#/components/weird~0key/ok/deeper")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot traverse")
	})
}

func TestDeepCopyValue(t *testing.T) {
	original := map[string]any{
		"list": []any{1, "two", map[string]any{"three": 3}},
		"nested": map[string]any{
			"key": "value",
		},
	}

	copied := deepCopyValue(original).(map[string]any)

	// Mutating the copy must not affect the original
	copied["nested"].(map[string]any)["key"] = "changed"
	copied["list"].([]any)[2].(map[string]any)["three"] = 30

	if original["nested"].(map[string]any)["key"] != "value" {
		t.Error("deep copy shares nested map with original")
	}
	if original["list"].([]any)[2].(map[string]any)["three"] != 3 {
		t.Error("deep copy shares nested slice element with original")
	}
}

func TestResolveRootRefIsCircular(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{"$ref": "#"},
	}
	r := newRefResolver(0)
	err := r.ResolveAll(doc)
	require.NoError(t, err)
	assert.True(t, r.HasCircularRefs())
	// The $ref stays in place
	if !strings.HasPrefix(doc["a"].(map[string]any)["$ref"].(string), "#") {
		t.Error("root ref should remain in place")
	}
}
