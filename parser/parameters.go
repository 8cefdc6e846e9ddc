package parser

import (
	"fmt"

	"github.com/erraggy/ramltools/ramlerrors"
)

// namedParameterTypes is the set of scalar types a named parameter may
// declare. Named parameters predate the full RAML type system and only
// carry this restricted palette.
var namedParameterTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"integer": true,
	"date":    true,
	"boolean": true,
	"file":    true,
}

// NamedParameter is a single named, typed, constrained scalar parameter
// used for URI, query, and header parameters.
type NamedParameter struct {
	Name string
	// Location is where the parameter is passed (one of the ParamIn
	// constants). Set by the declaration block the parameter came from.
	Location    string
	DisplayName string
	Description string
	// Type is one of string, number, integer, date, boolean, file.
	// Defaults to string.
	Type     string
	Required bool
	Default  any
	Example  any
	Enum     []string
	Repeat   bool

	// String facets
	Pattern   string
	MinLength *int
	MaxLength *int

	// Numeric facets
	Minimum *float64
	Maximum *float64
}

// ParseNamedParameter builds a NamedParameter from a definition fragment.
// A nil definition declares a parameter with all defaults (common for URI
// parameters that exist only as template placeholders).
func ParseNamedParameter(name string, definition any) (*NamedParameter, error) {
	p := &NamedParameter{
		Name: name,
		Type: "string",
	}
	if definition == nil {
		return p, nil
	}
	def, err := asMap(definition)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: name, Message: "invalid named parameter", Cause: err}
	}

	if ts := getString(def, "type"); ts != "" {
		if !namedParameterTypes[ts] {
			return nil, &ramlerrors.ParseError{
				Key:     name,
				Message: fmt.Sprintf("invalid named parameter type %q", ts),
			}
		}
		p.Type = ts
	}
	p.DisplayName = getString(def, "displayName")
	p.Description = getString(def, "description")
	if req, ok := getBool(def, "required"); ok {
		p.Required = req
	}
	if rep, ok := getBool(def, "repeat"); ok {
		p.Repeat = rep
	}
	p.Default = def["default"]
	p.Example = def["example"]
	p.Enum = getStringSlice(def, "enum")
	p.Pattern = getString(def, "pattern")
	p.MinLength = getInt(def, "minLength")
	p.MaxLength = getInt(def, "maxLength")
	p.Minimum = getFloat(def, "minimum")
	p.Maximum = getFloat(def, "maximum")
	return p, nil
}

// MatchPattern returns the anchored regular expression used to match a
// value of this parameter inside a URI template. A declared pattern facet
// wins; otherwise the pattern derives from the parameter type.
func (p *NamedParameter) MatchPattern() string {
	if p.Pattern != "" {
		return p.Pattern
	}
	switch p.Type {
	case "integer":
		return `^-?\d+$`
	case "number":
		return `^-?\d+(\.\d+)?$`
	case "boolean":
		return `^(true|false)$`
	case "date":
		return `^\d{4}-\d{2}-\d{2}$`
	default:
		return `^[^/]+$`
	}
}

// parseNamedParameterMap parses a mapping of parameter name to definition,
// stamping each parameter with the location it was declared in.
func parseNamedParameterMap(value any, in string) (map[string]*NamedParameter, error) {
	if value == nil {
		return nil, nil
	}
	defs, err := asMap(value)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: in, Message: "expected a mapping of named parameters", Cause: err}
	}
	params := make(map[string]*NamedParameter, len(defs))
	for name, def := range defs {
		p, perr := ParseNamedParameter(name, def)
		if perr != nil {
			return nil, perr
		}
		p.Location = in
		params[name] = p
	}
	return params, nil
}
