package tester

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/erraggy/oastest/internal/stringutil"
	"github.com/erraggy/oastest/oaserrors"
	"github.com/erraggy/oastest/parser"
)

// route matches concrete request paths against one documented path template.
// Templates like "/pets/{petId}" are compiled into regex patterns that
// extract parameter values from actual request paths.
type route struct {
	// template is the documented path template (e.g., "/pets/{petId}")
	template string

	// regex is the compiled pattern for matching
	regex *regexp.Regexp

	// paramNames are the parameter names in order of appearance
	paramNames []string

	// specificity is used for sorting routes (higher = more specific)
	specificity int

	// item holds the documented operations for this path
	item *parser.PathItem
}

// newRoute compiles a route from a documented path template.
//
// Returns an error if the template is malformed (e.g., unclosed braces).
func newRoute(template string, item *parser.PathItem) (*route, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	var regexBuf strings.Builder
	regexBuf.WriteString("^")

	paramNames := []string{}
	specificity := 0

	i := 0
	for i < len(template) {
		if template[i] == '{' {
			end := strings.Index(template[i:], "}")
			if end == -1 {
				return nil, fmt.Errorf("unclosed path parameter at position %d in template %q", i, template)
			}

			paramName := template[i+1 : i+end]
			if paramName == "" {
				return nil, fmt.Errorf("empty path parameter at position %d in template %q", i, template)
			}

			for _, existing := range paramNames {
				if existing == paramName {
					return nil, fmt.Errorf("duplicate path parameter %q in template %q", paramName, template)
				}
			}

			paramNames = append(paramNames, paramName)

			// Parameters match any non-slash characters, per RFC 3986
			// path segment rules.
			regexBuf.WriteString("([^/]+)")

			i += end + 1
			// Parameters reduce specificity (exact matches are more specific)
			specificity--
		} else {
			// Escape regex special characters
			c := template[i]
			if strings.ContainsRune(`\.+*?()|[]{}^$`, rune(c)) {
				regexBuf.WriteByte('\\')
			}
			regexBuf.WriteByte(c)
			i++

			// Non-parameter characters increase specificity
			if c != '/' {
				specificity++
			}
		}
	}

	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile path pattern for template %q: %w", template, err)
	}

	return &route{
		template:    template,
		regex:       regex,
		paramNames:  paramNames,
		specificity: specificity,
		item:        item,
	}, nil
}

// match checks whether path matches this template. Returns the extracted
// parameter values and true on a match.
func (rt *route) match(path string) (map[string]string, bool) {
	matches := rt.regex.FindStringSubmatch(path)
	if matches == nil {
		return nil, false
	}

	// First match is the full string, subsequent matches are capture groups
	if len(matches) != len(rt.paramNames)+1 {
		return nil, false
	}

	params := make(map[string]string, len(rt.paramNames))
	for i, name := range rt.paramNames {
		params[name] = matches[i+1]
	}

	return params, true
}

// routeSet holds every documented route, sorted so that more specific
// templates match before less specific ones.
type routeSet struct {
	routes []*route

	// basePath is the OAS 2.0 server base path. Request paths carry it,
	// documented templates do not, so resolve strips it before matching.
	basePath string
}

// newRouteSet compiles the documented paths into a routeSet. Routes are
// sorted by specificity (highest first), then by template length (longest
// first), then alphabetically for stability.
func newRouteSet(paths map[string]*parser.PathItem, basePath string) (*routeSet, error) {
	routes := make([]*route, 0, len(paths))

	for template, item := range paths {
		rt, err := newRoute(template, item)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].specificity != routes[j].specificity {
			return routes[i].specificity > routes[j].specificity
		}
		if len(routes[i].template) != len(routes[j].template) {
			return len(routes[i].template) > len(routes[j].template)
		}
		return routes[i].template < routes[j].template
	})

	if basePath == "/" {
		basePath = ""
	}

	return &routeSet{routes: routes, basePath: basePath}, nil
}

// resolve finds the documented route for a concrete request path. Missing
// leading slashes, trailing slash differences, query strings, and the OAS 2.0
// base path are all tolerated. When nothing matches, the returned
// *oaserrors.RouteError carries near-miss suggestions.
func (rs *routeSet) resolve(path string) (*route, map[string]string, error) {
	for _, candidate := range rs.candidates(path) {
		for _, rt := range rs.routes {
			if params, ok := rt.match(candidate); ok {
				return rt, params, nil
			}
		}
	}
	return nil, nil, &oaserrors.RouteError{Path: path, Suggestions: rs.suggest(path)}
}

// candidates lists the normalized variants of a request path to try, in
// order: as given, with the trailing slash toggled, and both again with the
// base path stripped.
func (rs *routeSet) candidates(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	out := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	addWithSlashVariant := func(p string) {
		add(p)
		if strings.HasSuffix(p, "/") && len(p) > 1 {
			add(strings.TrimSuffix(p, "/"))
		} else {
			add(p + "/")
		}
	}

	addWithSlashVariant(path)
	if rs.basePath != "" && strings.HasPrefix(path, rs.basePath) {
		rest := strings.TrimPrefix(path, rs.basePath)
		if !strings.HasPrefix(rest, "/") {
			rest = "/" + rest
		}
		addWithSlashVariant(rest)
	}
	return out
}

// maxSuggestions caps the near-miss templates reported for unknown paths.
const maxSuggestions = 3

// suggest returns documented templates similar to the failed request path,
// best match first.
func (rs *routeSet) suggest(path string) []string {
	return stringutil.ClosestMatches(path, rs.templates(), maxSuggestions, 0.6)
}

// templates returns all documented path templates in matching order.
func (rs *routeSet) templates() []string {
	templates := make([]string, len(rs.routes))
	for i, rt := range rs.routes {
		templates[i] = rt.template
	}
	return templates
}
