package parser

import (
	"fmt"

	"github.com/erraggy/ramltools/ramlerrors"
)

// NullSecuritySchemeName is the name of the anonymous scheme installed
// when a securedBy entry is declared falsy (null), meaning the resource or
// method may also be used without authentication.
const NullSecuritySchemeName = "null"

// SecurityScheme is a named authentication/authorization mechanism
// applicable to the API, a resource, or a method.
type SecurityScheme struct {
	Name        string
	Type        string
	Description string
	// DescribedBy carries the scheme's declared headers, query parameters,
	// and responses. It is stored as parsed but otherwise uninterpreted.
	DescribedBy map[string]any
	// Settings carries scheme-type-specific configuration
	// (authorizationUri, scopes, requestTokenUri, ...).
	Settings map[string]any
}

// NullSecurityScheme returns the anonymous scheme.
func NullSecurityScheme() *SecurityScheme {
	return &SecurityScheme{Name: NullSecuritySchemeName, Type: NullSecuritySchemeName}
}

// Clone returns a copy of the scheme with its own settings map, so
// per-resource overrides never mutate the API-level declaration.
func (s *SecurityScheme) Clone() *SecurityScheme {
	clone := *s
	if s.Settings != nil {
		clone.Settings = make(map[string]any, len(s.Settings))
		for k, v := range s.Settings {
			clone.Settings[k] = v
		}
	}
	return &clone
}

// MergeSettings overlays override settings onto the scheme's own.
func (s *SecurityScheme) MergeSettings(overrides map[string]any) {
	if len(overrides) == 0 {
		return
	}
	if s.Settings == nil {
		s.Settings = make(map[string]any, len(overrides))
	}
	for k, v := range overrides {
		s.Settings[k] = v
	}
}

// ParseSecurityScheme builds a SecurityScheme from its declaration.
func ParseSecurityScheme(name string, definition any) (*SecurityScheme, error) {
	def, err := asMap(definition)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: name, Message: "invalid security scheme", Cause: err}
	}
	s := &SecurityScheme{
		Name:        name,
		Type:        getString(def, "type"),
		Description: getString(def, "description"),
	}
	if db, ok := def["describedBy"]; ok && db != nil {
		m, merr := asMap(db)
		if merr != nil {
			return nil, &ramlerrors.ParseError{Key: name, Message: "invalid describedBy declaration", Cause: merr}
		}
		s.DescribedBy = m
	}
	if st, ok := def["settings"]; ok && st != nil {
		m, merr := asMap(st)
		if merr != nil {
			return nil, &ramlerrors.ParseError{Key: name, Message: "invalid settings declaration", Cause: merr}
		}
		s.Settings = m
	}
	return s, nil
}

// parseSecuredBy resolves a securedBy list against the declared schemes.
// A falsy entry installs the anonymous scheme; a bare name looks up the
// declaration; a mapping entry clones the named scheme and merges the
// inline settings over it. An undeclared name is fatal.
func parseSecuredBy(value any, declared map[string]*SecurityScheme) ([]*SecurityScheme, error) {
	var schemes []*SecurityScheme
	for _, entry := range asSlice(value) {
		switch e := entry.(type) {
		case nil:
			schemes = append(schemes, NullSecurityScheme())
		case bool:
			if !e {
				schemes = append(schemes, NullSecurityScheme())
				continue
			}
			return nil, &ramlerrors.ParseError{
				Key:     "securedBy",
				Message: "securedBy entry must be null, a scheme name, or a scheme with settings",
			}
		case string:
			scheme, ok := declared[e]
			if !ok {
				return nil, &ramlerrors.ReferenceError{
					Name:    e,
					Kind:    "securityScheme",
					Message: "security scheme is not declared",
				}
			}
			schemes = append(schemes, scheme)
		default:
			m, err := asMap(entry)
			if err != nil {
				return nil, &ramlerrors.ParseError{
					Key:     "securedBy",
					Message: fmt.Sprintf("invalid securedBy entry of type %T", entry),
					Cause:   err,
				}
			}
			for name, overrides := range m {
				scheme, ok := declared[name]
				if !ok {
					return nil, &ramlerrors.ReferenceError{
						Name:    name,
						Kind:    "securityScheme",
						Message: "security scheme is not declared",
					}
				}
				clone := scheme.Clone()
				if overrides != nil {
					om, oerr := asMap(overrides)
					if oerr != nil {
						return nil, &ramlerrors.ParseError{Key: name, Message: "invalid security scheme overrides", Cause: oerr}
					}
					if settings, ok := om["settings"]; ok {
						sm, serr := asMap(settings)
						if serr != nil {
							return nil, &ramlerrors.ParseError{Key: name, Message: "invalid security scheme settings override", Cause: serr}
						}
						clone.MergeSettings(sm)
					} else {
						clone.MergeSettings(om)
					}
				}
				schemes = append(schemes, clone)
			}
		}
	}
	return schemes, nil
}
