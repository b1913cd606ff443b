package tester

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/erraggy/oastest/internal/httputil"
	"github.com/erraggy/oastest/internal/maputil"
	"github.com/erraggy/oastest/oaserrors"
	"github.com/erraggy/oastest/parser"
)

// operationForMethod returns the operation a path item documents for an HTTP
// method. The verb is checked against the set operations can document before
// the lookup, so unsupported verbs and typos report the allowed set instead
// of a misleading not-documented error.
func operationForMethod(item *parser.PathItem, template, method string) (*parser.Operation, error) {
	upper := strings.ToUpper(method)
	if !httputil.IsAllowedMethod(upper) {
		return nil, &oaserrors.MethodError{Method: method}
	}

	ops := item.Operations()
	if op, ok := ops[upper]; ok {
		return op, nil
	}

	return nil, &oaserrors.MethodError{Method: upper, Path: template, Documented: maputil.SortedKeys(ops)}
}

// responseDefinition selects the response definition for an observed status
// code. Lookup precedence follows the specification: the exact code first,
// then the NXX wildcard for the code's class, then the default response.
// The returned key names the definition that won ("200", "2XX", "default").
func responseDefinition(op *parser.Operation, status int) (*parser.Response, string, bool) {
	if op == nil || op.Responses == nil {
		return nil, "", false
	}

	code := strconv.Itoa(status)
	if def, ok := op.Responses.Codes[code]; ok {
		return def, code, true
	}

	if wildcard := httputil.WildcardForStatus(status); wildcard != "" {
		if def, ok := op.Responses.Codes[wildcard]; ok {
			return def, wildcard, true
		}
	}

	if op.Responses.Default != nil {
		return op.Responses.Default, "default", true
	}

	return nil, "", false
}

// documentedStatusKeys lists the response keys an operation defines: numeric
// codes ascending, then wildcards, then "default". Extension keys are
// omitted.
func documentedStatusKeys(op *parser.Operation) []string {
	if op == nil || op.Responses == nil {
		return nil
	}

	keys := make([]string, 0, len(op.Responses.Codes)+1)
	for key := range op.Responses.Codes {
		if strings.HasPrefix(key, "x-") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := statusKeyRank(keys[i]), statusKeyRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	if op.Responses.Default != nil {
		keys = append(keys, "default")
	}
	return keys
}

// statusKeyRank orders response keys: numeric codes by value, wildcards by
// class after all numeric codes.
func statusKeyRank(key string) int {
	if n, err := strconv.Atoi(key); err == nil {
		return n
	}
	if len(key) == httputil.StatusCodeLength && key[1] == httputil.WildcardChar && key[2] == httputil.WildcardChar {
		return 1000 + int(key[0]-'0')
	}
	return 2000
}

// mediaTypeForContent selects the documented media type entry matching the
// response's Content-Type. Exact matches win over wildcard matches; ties are
// broken by documented key order to keep the selection stable.
func mediaTypeForContent(content map[string]*parser.MediaType, contentType string) (*parser.MediaType, string, bool) {
	if len(content) == 0 {
		return nil, "", false
	}

	keys := maputil.SortedKeys(content)
	actual := normalizeMediaType(contentType)
	for _, k := range keys {
		if normalizeMediaType(k) == actual {
			return content[k], k, true
		}
	}
	for _, k := range keys {
		if httputil.MatchMediaType(normalizeMediaType(k), actual) {
			return content[k], k, true
		}
	}
	return nil, "", false
}

// contentKeys returns the documented media type keys in sorted order.
func contentKeys(content map[string]*parser.MediaType) []string {
	return maputil.SortedKeys(content)
}

// mediaTypeInList reports whether a content type matches any entry of an
// OAS 2.0 produces list.
func mediaTypeInList(documented []string, contentType string) bool {
	actual := normalizeMediaType(contentType)
	for _, d := range documented {
		if httputil.MatchMediaType(normalizeMediaType(d), actual) {
			return true
		}
	}
	return false
}

// normalizeMediaType lowercases a media type and strips its parameters:
// "Application/JSON; charset=utf-8" becomes "application/json".
func normalizeMediaType(mediaType string) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	return mt
}

// UnpackResponse reads an HTTP response body and decodes it into a value
// tree for schema comparison. The body is replaced with an in-memory copy so
// callers can still read it afterwards.
//
// The returned error is a *oaserrors.BodyError when the body is empty, the
// content type is not JSON, or the payload fails to decode.
func UnpackResponse(resp *http.Response) (any, error) {
	if resp == nil {
		return nil, &oaserrors.BodyError{Cause: errors.New("nil response")}
	}
	contentType := resp.Header.Get("Content-Type")
	body, err := readBody(resp)
	if err != nil {
		return nil, &oaserrors.BodyError{ContentType: contentType, Cause: err}
	}
	return unpackBody(body, contentType)
}

// readBody drains resp.Body and restores it from the read bytes.
func readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// unpackBody decodes raw response bytes into a value tree. A non-JSON
// content type yields a *oaserrors.BodyError with no cause; decode failures
// carry the json error as the cause.
func unpackBody(body []byte, contentType string) (any, error) {
	if len(body) == 0 {
		return nil, &oaserrors.BodyError{ContentType: contentType, Cause: errors.New("empty response body")}
	}
	if contentType != "" && !httputil.IsJSONMediaType(contentType) {
		return nil, &oaserrors.BodyError{ContentType: contentType}
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &oaserrors.BodyError{ContentType: contentType, Cause: err}
	}
	return data, nil
}
