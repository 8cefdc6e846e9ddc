package parser

import (
	"regexp"
	"strings"

	"github.com/erraggy/ramltools/internal/maputil"
	"github.com/erraggy/ramltools/internal/stringutil"
	"github.com/erraggy/ramltools/ramlerrors"
)

// Resource is one node of the resource tree, keyed by URI path segment.
// Children are owned exclusively by their parent; inherited state (base
// URI parameters, security, URI parameters, annotations) flows in through
// an explicit context at construction time.
type Resource struct {
	// URI is the full template URI from the API root ("/songs/{songId}").
	// It always starts with "/".
	URI         string
	DisplayName string
	Description string

	BaseURIParameters map[string]*NamedParameter
	URIParameters     map[string]*NamedParameter
	SecuredBy         []*SecurityScheme
	Annotations       map[string]*Annotation

	// Methods is keyed by upper-case HTTP verb.
	Methods map[string]*Method
	// SubResources is keyed by the child's own URI segment ("/items").
	SubResources map[string]*Resource
}

// inheritedContext carries the state a resource receives from its parent
// (or the API root) before its own declarations are applied. Inheritance
// is a pure data-flow step: the maps here are copied, never shared.
type inheritedContext struct {
	baseURIParameters map[string]*NamedParameter
	uriParameters     map[string]*NamedParameter
	securedBy         []*SecurityScheme
	annotations       map[string]*Annotation
}

func copyParams(src map[string]*NamedParameter) map[string]*NamedParameter {
	if src == nil {
		return nil
	}
	dst := make(map[string]*NamedParameter, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// buildResource recursively constructs a resource and its subtree.
// Order of application matters: security first, then annotations, then
// methods and nested resources, so children observe the parent's fully
// resolved security and annotation sets.
func buildResource(uri string, definition any, inh inheritedContext, api *APIDefinition) (*Resource, error) {
	if !strings.HasPrefix(uri, "/") {
		return nil, &ramlerrors.ParseError{
			Key:     uri,
			Message: "resource URI must begin with a slash",
		}
	}

	r := &Resource{
		URI:               uri,
		DisplayName:       uri,
		BaseURIParameters: copyParams(inh.baseURIParameters),
		URIParameters:     copyParams(inh.uriParameters),
		SecuredBy:         inh.securedBy,
		Methods:           make(map[string]*Method),
		SubResources:      make(map[string]*Resource),
	}

	var def map[string]any
	if definition != nil {
		m, err := asMap(definition)
		if err != nil {
			return nil, &ramlerrors.ParseError{Key: uri, Message: "invalid resource definition", Cause: err}
		}
		def = m
	}

	if dn := getString(def, "displayName"); dn != "" {
		r.DisplayName = dn
	}
	r.Description = getString(def, "description")

	if securedBy, ok := def["securedBy"]; ok {
		schemes, err := parseSecuredBy(securedBy, api.SecuritySchemes)
		if err != nil {
			return nil, err
		}
		r.SecuredBy = schemes
	}

	annotations, err := parseAnnotations(def, TargetResource, api.AnnotationTypes, inh.annotations)
	if err != nil {
		return nil, err
	}
	r.Annotations = annotations

	if params, ok := def["baseUriParameters"]; ok {
		declared, perr := parseNamedParameterMap(params, ParamInBaseURI)
		if perr != nil {
			return nil, perr
		}
		if r.BaseURIParameters == nil {
			r.BaseURIParameters = make(map[string]*NamedParameter, len(declared))
		}
		for name, p := range declared {
			r.BaseURIParameters[name] = p
		}
	}

	if params, ok := def["uriParameters"]; ok {
		declared, perr := parseNamedParameterMap(params, ParamInURI)
		if perr != nil {
			return nil, perr
		}
		if r.URIParameters == nil {
			r.URIParameters = make(map[string]*NamedParameter, len(declared))
		}
		// Own declarations take precedence over inherited ones
		for name, p := range declared {
			r.URIParameters[name] = p
		}
	}

	for _, key := range maputil.SortedKeys(def) {
		value := def[key]
		switch {
		case strings.HasPrefix(key, "/"):
			child, cerr := buildResource(uri+key, value, inheritedContext{
				baseURIParameters: r.BaseURIParameters,
				uriParameters:     r.URIParameters,
				securedBy:         r.SecuredBy,
				annotations:       r.Annotations,
			}, api)
			if cerr != nil {
				return nil, cerr
			}
			r.SubResources[key] = child
		case httpVerbs[strings.ToUpper(key)]:
			method, merr := parseMethod(key, value, api, r.SecuredBy)
			if merr != nil {
				return nil, merr
			}
			r.Methods[method.Verb] = method
		}
	}

	return r, nil
}

// HumanDisplayName returns the declared display name, or one derived from
// the resource's last URI segment when none was declared.
func (r *Resource) HumanDisplayName() string {
	if r.DisplayName != r.URI {
		return r.DisplayName
	}
	segment := r.URI
	if i := strings.LastIndexByte(segment, '/'); i >= 0 {
		segment = segment[i:]
	}
	if humanized := stringutil.HumanizeSegment(segment); humanized != "" {
		return humanized
	}
	return r.DisplayName
}

// Method returns the method for the given verb (case-insensitive).
func (r *Resource) Method(verb string) (*Method, error) {
	if m, ok := r.Methods[strings.ToUpper(verb)]; ok {
		return m, nil
	}
	return nil, &ramlerrors.NotFoundError{Kind: "method", Key: strings.ToUpper(verb)}
}

// templatePlaceholderRe matches "{param}" and "~{param}" placeholders in a
// template URI.
var templatePlaceholderRe = regexp.MustCompile(`~?\{[^}/]+\}`)

// MatchesURI reports whether a concrete candidate URI matches this
// resource's template URI. Each declared "{param}" placeholder is replaced
// with that parameter's match pattern (its own anchors stripped before
// splicing); "~{param}" becomes an optional group of the same pattern.
// Placeholders without a declared parameter fall back to a non-slash
// capture. Any trailing query string on the candidate is ignored.
func (r *Resource) MatchesURI(candidate string) bool {
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range templatePlaceholderRe.FindAllStringIndex(r.URI, -1) {
		b.WriteString(regexp.QuoteMeta(r.URI[last:loc[0]]))
		raw := r.URI[loc[0]:loc[1]]
		optional := strings.HasPrefix(raw, "~")
		name := strings.Trim(strings.TrimPrefix(raw, "~"), "{}")

		inner := "[^/]+"
		if param, ok := r.URIParameters[name]; ok {
			inner = stripAnchors(param.MatchPattern())
		}
		if optional {
			b.WriteString("(" + inner + ")?")
		} else {
			b.WriteString("(" + inner + ")")
		}
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(r.URI[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(stringutil.StripQuery(candidate))
}

// stripAnchors removes leading "^" and trailing "$" from a pattern so it
// can be spliced into a larger expression.
func stripAnchors(pattern string) string {
	pattern = strings.TrimPrefix(pattern, "^")
	return strings.TrimSuffix(pattern, "$")
}
