package parser

import (
	"fmt"
	"strings"

	"github.com/erraggy/ramltools/internal/maputil"
	"github.com/erraggy/ramltools/internal/stringutil"
	"github.com/erraggy/ramltools/ramlerrors"
)

// DocumentationItem is one ordered title/content pair from the
// documentation list.
type DocumentationItem struct {
	Title   string
	Content string
}

// Route is one flattened verb+path entry of the API.
type Route struct {
	Verb          string
	Path          string
	Protocols     []string
	URIParameters map[string]*NamedParameter
	Method        *Method
}

// APIDefinition is the root of the parsed object graph. It owns the type
// registry, the declared security schemes and annotation types, and the
// top-level resource tree.
type APIDefinition struct {
	Title       string
	Description string
	Version     string
	// BaseURI has any "{version}" placeholder already substituted.
	BaseURI           string
	BaseURIParameters map[string]*NamedParameter
	// Protocols holds HTTP and/or HTTPS. When not declared it is inferred
	// from the base URI's scheme.
	Protocols     []string
	MediaType     string
	Documentation []DocumentationItem

	// Types is the per-parse type registry. By the time ParseMap returns,
	// every reference reachable from it is resolved.
	Types *TypeRegistry

	// Traits, ResourceTypes and Uses are declared but not expanded;
	// template expansion and library resolution are not implemented.
	Traits        map[string]any
	ResourceTypes map[string]any
	Uses          map[string]string

	AnnotationTypes map[string]*AnnotationType
	Annotations     map[string]*Annotation
	SecuritySchemes map[string]*SecurityScheme
	SecuredBy       []*SecurityScheme

	// Schemas is the deprecated RAML 0.8 root-level schema collection,
	// stored as a raw passthrough. Mutually exclusive with types.
	Schemas map[string]any

	// Resources maps top-level URI segment to resource subtree.
	Resources map[string]*Resource

	// RAMLVersion and Fragment come from the document header when one was
	// available to the parser.
	RAMLVersion string
	Fragment    Fragment
}

// NewAPIDefinition creates an empty definition with a fresh type registry.
func NewAPIDefinition() *APIDefinition {
	return &APIDefinition{
		Types:           NewTypeRegistry(),
		AnnotationTypes: make(map[string]*AnnotationType),
		SecuritySchemes: make(map[string]*SecurityScheme),
		Resources:       make(map[string]*Resource),
	}
}

// ParseMap builds an APIDefinition from an already-decoded document tree.
// This is the core entry point: document decoding (YAML/JSON) is the
// caller's concern, and [Parser.Parse] is a convenience wrapper around it.
//
// Declarations are processed in dependency order: the registry is cleared
// and repopulated, inheritance is resolved over the whole registry, and
// only then is the resource tree parsed, so resources and methods always
// observe fully resolved types and security schemes.
func ParseMap(data map[string]any) (*APIDefinition, error) {
	api := NewAPIDefinition()
	if err := api.parse(data); err != nil {
		return nil, err
	}
	return api, nil
}

func (api *APIDefinition) parse(data map[string]any) error {
	// The deprecated schema collection and the modern type declarations
	// cannot coexist; this is checked before any other processing.
	_, hasSchemas := data["schemas"]
	_, hasTypes := data["types"]
	if hasSchemas && hasTypes {
		return &ramlerrors.ParseError{
			Message: "'schemas' and 'types' are mutually exclusive",
		}
	}

	api.Title = getString(data, "title")
	api.Description = getString(data, "description")
	api.Version = getString(data, "version")
	api.MediaType = getString(data, "mediaType")

	api.BaseURI = strings.ReplaceAll(getString(data, "baseUri"), "{version}", api.Version)
	params, err := parseNamedParameterMap(data["baseUriParameters"], ParamInBaseURI)
	if err != nil {
		return err
	}
	api.BaseURIParameters = params

	if err := api.parseProtocols(data); err != nil {
		return err
	}
	if err := api.parseDocumentation(data); err != nil {
		return err
	}

	// Type declarations first: the registry must be complete and resolved
	// before security schemes, annotations, or resources consume it.
	api.Types.Clear()
	if hasTypes {
		if err := api.parseTypes(data["types"]); err != nil {
			return err
		}
	}
	if hasSchemas {
		schemas, serr := asMap(data["schemas"])
		if serr != nil {
			// RAML 0.8 also allows a sequence of single-entry maps
			schemas = make(map[string]any)
			for _, entry := range asSlice(data["schemas"]) {
				m, merr := asMap(entry)
				if merr != nil {
					return &ramlerrors.ParseError{Key: "schemas", Message: "invalid schema collection", Cause: merr}
				}
				for k, v := range m {
					schemas[k] = v
				}
			}
		}
		api.Schemas = schemas
	}
	if err := api.Types.ApplyInheritance(); err != nil {
		return err
	}

	if ats, ok := data["annotationTypes"]; ok && ats != nil {
		defs, merr := asMap(ats)
		if merr != nil {
			return &ramlerrors.ParseError{Key: "annotationTypes", Message: "invalid annotationTypes declaration", Cause: merr}
		}
		for name, def := range defs {
			at, aerr := ParseAnnotationType(name, def)
			if aerr != nil {
				return aerr
			}
			api.AnnotationTypes[name] = at
		}
	}

	if schemes, ok := data["securitySchemes"]; ok && schemes != nil {
		defs, merr := asMap(schemes)
		if merr != nil {
			return &ramlerrors.ParseError{Key: "securitySchemes", Message: "invalid securitySchemes declaration", Cause: merr}
		}
		for name, def := range defs {
			scheme, serr := ParseSecurityScheme(name, def)
			if serr != nil {
				return serr
			}
			api.SecuritySchemes[name] = scheme
		}
	}

	if securedBy, ok := data["securedBy"]; ok {
		schemes, serr := parseSecuredBy(securedBy, api.SecuritySchemes)
		if serr != nil {
			return serr
		}
		api.SecuredBy = schemes
	}

	annotations, err := parseAnnotations(data, TargetAPI, api.AnnotationTypes, nil)
	if err != nil {
		return err
	}
	api.Annotations = annotations

	api.Traits = rawMapOrNil(data["traits"])
	api.ResourceTypes = rawMapOrNil(data["resourceTypes"])
	if uses, ok := data["uses"]; ok && uses != nil {
		m, merr := asMap(uses)
		if merr != nil {
			return &ramlerrors.ParseError{Key: "uses", Message: "invalid uses declaration", Cause: merr}
		}
		api.Uses = make(map[string]string, len(m))
		for name, location := range m {
			if s, sok := location.(string); sok {
				api.Uses[name] = s
			}
		}
	}

	for _, key := range maputil.SortedKeys(data) {
		if !strings.HasPrefix(key, "/") {
			continue
		}
		resource, rerr := buildResource(key, data[key], inheritedContext{
			baseURIParameters: api.BaseURIParameters,
			securedBy:         api.SecuredBy,
		}, api)
		if rerr != nil {
			return rerr
		}
		api.Resources[key] = resource
	}
	return nil
}

// rawMapOrNil stores a declaration as-is when it is a mapping, flattening
// the RAML 0.8 sequence-of-single-entry-maps form. Declarations that are
// stored but never expanded (traits, resourceTypes) go through here.
func rawMapOrNil(value any) map[string]any {
	if value == nil {
		return nil
	}
	if m, err := asMap(value); err == nil {
		return m
	}
	out := make(map[string]any)
	for _, entry := range asSlice(value) {
		if m, err := asMap(entry); err == nil {
			for k, v := range m {
				out[k] = v
			}
		}
	}
	return out
}

func (api *APIDefinition) parseProtocols(data map[string]any) error {
	declared := getStringSlice(data, "protocols")
	for _, p := range declared {
		switch strings.ToUpper(p) {
		case ProtocolHTTP, ProtocolHTTPS:
			api.Protocols = append(api.Protocols, strings.ToUpper(p))
		default:
			return &ramlerrors.ParseError{
				Key:     "protocols",
				Message: fmt.Sprintf("invalid protocol %q (only HTTP and HTTPS are allowed)", p),
			}
		}
	}
	if len(api.Protocols) == 0 && api.BaseURI != "" {
		// Infer from the base URI scheme when nothing is declared
		if strings.HasPrefix(api.BaseURI, "https://") {
			api.Protocols = []string{ProtocolHTTPS}
		} else if strings.HasPrefix(api.BaseURI, "http://") {
			api.Protocols = []string{ProtocolHTTP}
		}
	}
	return nil
}

func (api *APIDefinition) parseDocumentation(data map[string]any) error {
	docs, ok := data["documentation"]
	if !ok || docs == nil {
		return nil
	}
	for i, entry := range asSlice(docs) {
		m, err := asMap(entry)
		if err != nil {
			return &ramlerrors.ParseError{Key: "documentation", Message: "invalid documentation entry", Cause: err}
		}
		item := DocumentationItem{
			Title:   getString(m, "title"),
			Content: getString(m, "content"),
		}
		if item.Title == "" || item.Content == "" {
			return &ramlerrors.ParseError{
				Key:     fmt.Sprintf("documentation[%d]", i),
				Message: "documentation entries require both title and content",
			}
		}
		api.Documentation = append(api.Documentation, item)
	}
	return nil
}

// parseTypes registers every declared type. References between them are
// left as placeholders for ApplyInheritance.
func (api *APIDefinition) parseTypes(value any) error {
	defs, err := asMap(value)
	if err != nil {
		return &ramlerrors.ParseError{Key: "types", Message: "invalid types declaration", Cause: err}
	}
	for name, def := range defs {
		t, terr := DetermineType(name, def)
		if terr != nil {
			return terr
		}
		api.Types.Add(trimOptionalMarker(name), t)
	}
	return nil
}

// ValidateDeclaredValues checks every registered type's declared default
// and example against the type's own constraints. Failures are returned
// rather than raised: a declaration with a bad example is suspect but the
// definition is still usable.
func (api *APIDefinition) ValidateDeclaredValues() []error {
	var errs []error
	for _, name := range api.Types.Names() {
		t, ok := api.Types.Get(name)
		if !ok {
			continue
		}
		if t.Default != nil {
			if verr := t.Validate(t.Default); verr != nil {
				errs = append(errs, fmt.Errorf("type %s: default value: %w", name, verr))
			}
		}
		if t.Example != nil {
			if verr := t.Validate(t.Example); verr != nil {
				errs = append(errs, fmt.Errorf("type %s: example value: %w", name, verr))
			}
		}
	}
	return errs
}

// SupportsHTTP reports whether the API accepts plain HTTP.
func (api *APIDefinition) SupportsHTTP() bool {
	for _, p := range api.Protocols {
		if p == ProtocolHTTP {
			return true
		}
	}
	return false
}

// SupportsHTTPS reports whether the API accepts HTTPS.
func (api *APIDefinition) SupportsHTTPS() bool {
	for _, p := range api.Protocols {
		if p == ProtocolHTTPS {
			return true
		}
	}
	return false
}

// ResourceByURI returns the first resource (in tree traversal order)
// whose template matches the candidate URI. Any trailing query string is
// stripped before matching. A miss is a *ramlerrors.NotFoundError.
func (api *APIDefinition) ResourceByURI(uri string) (*Resource, error) {
	candidate := stringutil.StripQuery(uri)
	for _, key := range maputil.SortedKeys(api.Resources) {
		if found := findByURI(api.Resources[key], candidate); found != nil {
			return found, nil
		}
	}
	return nil, &ramlerrors.NotFoundError{Kind: "resource", Key: candidate}
}

func findByURI(r *Resource, candidate string) *Resource {
	if r.MatchesURI(candidate) {
		return r
	}
	for _, key := range maputil.SortedKeys(r.SubResources) {
		if found := findByURI(r.SubResources[key], candidate); found != nil {
			return found
		}
	}
	return nil
}

// ResourceByPath returns the resource whose template URI equals path
// exactly. A miss is a *ramlerrors.NotFoundError.
func (api *APIDefinition) ResourceByPath(path string) (*Resource, error) {
	for _, key := range maputil.SortedKeys(api.Resources) {
		if found := findByPath(api.Resources[key], path); found != nil {
			return found, nil
		}
	}
	return nil, &ramlerrors.NotFoundError{Kind: "resource", Key: path}
}

func findByPath(r *Resource, path string) *Resource {
	if r.URI == path {
		return r
	}
	for _, key := range maputil.SortedKeys(r.SubResources) {
		if found := findByPath(r.SubResources[key], path); found != nil {
			return found
		}
	}
	return nil
}

// Routes returns the flattened route list: one entry per verb and full
// path, deduplicated by the verb+path key, in deterministic order.
func (api *APIDefinition) Routes() []Route {
	routes := make(map[string]Route)
	for _, key := range maputil.SortedKeys(api.Resources) {
		collectRoutes(api.Resources[key], api.Protocols, routes)
	}
	out := make([]Route, 0, len(routes))
	for _, key := range maputil.SortedKeys(routes) {
		out = append(out, routes[key])
	}
	return out
}

func collectRoutes(r *Resource, protocols []string, routes map[string]Route) {
	for _, verb := range maputil.SortedKeys(r.Methods) {
		method := r.Methods[verb]
		key := verb + " " + r.URI
		if _, seen := routes[key]; seen {
			continue
		}
		routeProtocols := protocols
		if len(method.Protocols) > 0 {
			routeProtocols = method.Protocols
		}
		routes[key] = Route{
			Verb:          verb,
			Path:          r.URI,
			Protocols:     routeProtocols,
			URIParameters: r.URIParameters,
			Method:        method,
		}
	}
	for _, key := range maputil.SortedKeys(r.SubResources) {
		collectRoutes(r.SubResources[key], protocols, routes)
	}
}
