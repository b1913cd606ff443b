package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oastest/oaserrors"
)

// MaxRefDepth is the default maximum depth allowed for nested $ref resolution.
// This prevents stack overflow from deeply nested (but non-circular) references.
const MaxRefDepth = 100

// refResolver handles local $ref resolution in OpenAPI documents.
// References into other files or URLs are not supported; response testing
// works against a single self-contained document.
type refResolver struct {
	// resolving tracks refs currently being resolved in the recursion stack
	resolving map[string]bool
	// maxDepth bounds the recursion depth
	maxDepth int
	// hasCircularRefs is set to true when circular references are detected.
	// Circular refs are left in place as $ref pointers rather than expanded.
	hasCircularRefs bool
	// snapshot is a pristine copy of the document taken before any node is
	// rewritten. All ref targets resolve against it, so the expansion of one
	// site never depends on which other sites were expanded first.
	snapshot map[string]any
}

func newRefResolver(maxDepth int) *refResolver {
	if maxDepth <= 0 {
		maxDepth = MaxRefDepth
	}
	return &refResolver{
		resolving: make(map[string]bool),
		maxDepth:  maxDepth,
	}
}

// ResolveAll walks the document and expands every local $ref in place.
// Circular references are detected and left as $ref pointers; call
// HasCircularRefs to check whether any were found.
func (r *refResolver) ResolveAll(doc map[string]any) error {
	r.hasCircularRefs = false
	snapshot, ok := deepCopyValue(doc).(map[string]any)
	if !ok {
		snapshot = doc
	}
	r.snapshot = snapshot
	return r.resolveRecursive(doc, "#", 0)
}

// HasCircularRefs returns true if circular references were detected during
// the last ResolveAll pass.
func (r *refResolver) HasCircularRefs() bool {
	return r.hasCircularRefs
}

// resolveRecursive walks the document structure and resolves $ref nodes.
// loc is the JSON Pointer of current within the document; nodes inside
// already-expanded content keep the pointer of their expansion site.
func (r *refResolver) resolveRecursive(current any, loc string, depth int) error {
	if depth > r.maxDepth {
		return &oaserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(r.maxDepth),
			Actual:       int64(depth),
			Message:      "structure too deeply nested",
		}
	}

	switch v := current.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			return r.expandRef(v, ref, loc, depth)
		}
		for key, val := range v {
			if err := r.resolveRecursive(val, loc+"/"+escapeJSONPointer(key), depth+1); err != nil {
				return err
			}
		}

	case []any:
		for i, item := range v {
			if err := r.resolveRecursive(item, loc+"/"+strconv.Itoa(i), depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// expandRef replaces the $ref node v with the referenced content.
func (r *refResolver) expandRef(v map[string]any, ref, loc string, depth int) error {
	// A $ref to the document root is always circular
	if ref == "#" || ref == "#/" {
		r.hasCircularRefs = true
		return nil
	}

	// A ref whose target is the node itself or one of its ancestors is
	// circular: expanding it would copy the node into itself. A schema's
	// self-reference inside its own definition keeps its $ref this way.
	if refEncloses(ref, loc) {
		r.hasCircularRefs = true
		return nil
	}

	// A ref already in the recursion stack is circular: leave the $ref in
	// place rather than trying to expand it infinitely
	if r.resolving[ref] {
		r.hasCircularRefs = true
		return nil
	}

	// Mark the ref as resolving before expansion so references back into the
	// resolved content are detected as circular.
	r.resolving[ref] = true

	resolved, err := r.resolveLocal(r.snapshot, ref)
	if err != nil {
		delete(r.resolving, ref)
		return err
	}
	resolvedMap, ok := resolved.(map[string]any)
	if !ok {
		delete(r.resolving, ref)
		return &oaserrors.ReferenceError{
			Ref:     ref,
			Message: fmt.Sprintf("resolved content is not an object (got %T)", resolved),
		}
	}

	// Replace the node's content with a deep copy of the pristine target.
	// Each site gets its own copy so later expansion inside one site cannot
	// leak into another. When the target is itself an alias ({$ref: ...}),
	// the copy carries the alias marker and the recursion below follows the
	// chain.
	for k := range v {
		delete(v, k)
	}
	for k, val := range resolvedMap {
		v[k] = deepCopyValue(val)
	}

	// Continue resolving inside the expanded content. The ref stays marked
	// as resolving during this call so references back to it are detected.
	err = r.resolveRecursive(v, loc, depth+1)
	delete(r.resolving, ref)
	return err
}

// refEncloses reports whether the ref target, given as a JSON Pointer, is
// the node at loc or one of its ancestors.
func refEncloses(ref, loc string) bool {
	return ref == loc || strings.HasPrefix(loc, ref+"/")
}

// resolveLocal resolves a reference of the form #/path/to/component by
// traversing the document per RFC 6901 (JSON Pointer).
func (r *refResolver) resolveLocal(doc map[string]any, ref string) (any, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, &oaserrors.ReferenceError{
			Ref:     ref,
			Message: "only local references are supported (use a pre-bundled document for file or URL refs)",
		}
	}

	parts := strings.Split(strings.TrimPrefix(strings.TrimPrefix(ref, "#"), "/"), "/")

	current := any(doc)
	for i, part := range parts {
		part = unescapeJSONPointer(part)

		switch node := current.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, &oaserrors.ReferenceError{
					Ref:     ref,
					Message: fmt.Sprintf("reference not found (missing key: %s)", part),
				}
			}
			current = next

		case []any:
			index, err := strconv.Atoi(part)
			if err != nil {
				return nil, &oaserrors.ReferenceError{
					Ref:     ref,
					Message: fmt.Sprintf("invalid array index '%s' (must be a non-negative integer)", part),
				}
			}
			if index < 0 || index >= len(node) {
				return nil, &oaserrors.ReferenceError{
					Ref:     ref,
					Message: fmt.Sprintf("array index %d out of bounds (length %d)", index, len(node)),
				}
			}
			current = node[index]

		default:
			return nil, &oaserrors.ReferenceError{
				Ref:     ref,
				Message: fmt.Sprintf("cannot traverse into type %T at #/%s", node, strings.Join(parts[:i], "/")),
			}
		}
	}

	return current, nil
}

// unescapeJSONPointer unescapes JSON Pointer tokens.
// Per RFC 6901, ~1 represents / and ~0 represents ~
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// escapeJSONPointer escapes a JSON Pointer token per RFC 6901.
func escapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// deepCopyValue deep-copies a decoded YAML/JSON value tree.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = deepCopyValue(item)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, item := range val {
			s[i] = deepCopyValue(item)
		}
		return s
	default:
		// Scalars are immutable
		return v
	}
}
