package parser

import (
	"fmt"

	"github.com/erraggy/ramltools/ramlerrors"
)

// TypeKind identifies the concrete variant of a [Type].
type TypeKind int

const (
	// KindAny is the untyped base variant (declared "any" or no type at all)
	KindAny TypeKind = iota
	// KindString is a string with optional pattern/length facets
	KindString
	// KindNumber is an arbitrary numeric value
	KindNumber
	// KindInteger is a whole numeric value
	KindInteger
	// KindBoolean is true or false
	KindBoolean
	// KindDateOnly is a date without time ("yyyy-mm-dd")
	KindDateOnly
	// KindTimeOnly is a time without date ("hh:mm:ss")
	KindTimeOnly
	// KindDateTimeOnly is a combined date and time without timezone
	KindDateTimeOnly
	// KindDateTime is a timestamp in RFC 3339 or RFC 2616 format
	KindDateTime
	// KindFile is binary content with optional content-type restrictions
	KindFile
	// KindNil is the null type
	KindNil
	// KindObject is a mapping of named properties
	KindObject
	// KindArray is a sequence of items of a single type
	KindArray
	// KindUnion is one of a fixed set of member types
	KindUnion
	// KindJSONSchema is an embedded raw JSON schema
	KindJSONSchema
	// KindXMLSchema is an embedded raw XML schema
	KindXMLSchema
	// KindReference is a lazy placeholder naming another declared type.
	// It must be resolved by [TypeRegistry.ApplyInheritance] before use.
	KindReference
)

var kindNames = map[TypeKind]string{
	KindAny:          "any",
	KindString:       "string",
	KindNumber:       "number",
	KindInteger:      "integer",
	KindBoolean:      "boolean",
	KindDateOnly:     "date-only",
	KindTimeOnly:     "time-only",
	KindDateTimeOnly: "datetime-only",
	KindDateTime:     "datetime",
	KindFile:         "file",
	KindNil:          "nil",
	KindObject:       "object",
	KindArray:        "array",
	KindUnion:        "union",
	KindJSONSchema:   "json-schema",
	KindXMLSchema:    "xml-schema",
	KindReference:    "reference",
}

// String returns the RAML keyword (or descriptive name) for the kind.
func (k TypeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// builtinKinds maps RAML type keywords to their kinds. Only keywords in
// this table dispatch directly; everything else goes through the shorthand
// and reference rules in DetermineType.
var builtinKinds = map[string]TypeKind{
	"array":         KindArray,
	"boolean":       KindBoolean,
	"datetime":      KindDateTime,
	"datetime-only": KindDateTimeOnly,
	"date-only":     KindDateOnly,
	"file":          KindFile,
	"integer":       KindInteger,
	"nil":           KindNil,
	"number":        KindNumber,
	"object":        KindObject,
	"string":        KindString,
	"time-only":     KindTimeOnly,
}

// Type is a RAML data type: a tagged variant over the fixed set of kinds,
// carrying the common declaration contract plus per-kind facets. Only the
// facets matching Kind are meaningful; the rest stay zero.
//
// Named declarations are registered in a [TypeRegistry] and may be referenced
// before they are declared; such references are KindReference placeholders
// that the registry resolves in place, so every holder of a *Type observes
// the resolved form.
type Type struct {
	Kind TypeKind

	// Common declaration contract
	Name        string
	DisplayName string
	Description string
	Required    bool
	Default     any
	Example     any

	// String facets
	Pattern   string
	MinLength *int
	MaxLength *int

	// Number / integer facets
	Minimum    *float64
	Maximum    *float64
	MultipleOf *float64

	// Format applies to numbers (int32, int64, ...) and datetime
	// (rfc3339, rfc2616)
	Format string

	// File facets. FileTypes lists allowed content types; length bounds
	// are in bytes.
	FileTypes []string

	// Object facets
	Properties           map[string]*Type
	MinProperties        *int
	MaxProperties        *int
	AdditionalProperties bool
	Discriminator        string
	DiscriminatorValue   string

	// Array facets
	Items       *Type
	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	// Union facets
	OneOf []*Type

	// Embedded schema facets (KindJSONSchema / KindXMLSchema)
	RawSchema string

	// Reference facets. TargetName is the declared parent or alias for
	// KindReference placeholders.
	TargetName string

	// raw is the normalized definition fragment this type was built from.
	// Inheritance resolution merges parent and child fragments and
	// re-determines the merged result.
	raw map[string]any
}

// newBaseType builds the common contract shared by every variant.
// optional marks the declaration's "?" shorthand; an explicit required key
// in the definition always wins over the shorthand.
func newBaseType(kind TypeKind, name string, def map[string]any, optional bool) *Type {
	t := &Type{
		Kind:        kind,
		Name:        name,
		DisplayName: getString(def, "displayName"),
		Description: getString(def, "description"),
		Required:    true,
		Default:     def["default"],
		Example:     def["example"],
		raw:         def,
	}
	if req, ok := getBool(def, "required"); ok {
		t.Required = req
	} else if optional {
		t.Required = false
	}
	return t
}

// applyScalarFacets fills the facets shared by scalar-ish variants from def.
func (t *Type) applyScalarFacets(def map[string]any) {
	t.Pattern = getString(def, "pattern")
	t.MinLength = getInt(def, "minLength")
	t.MaxLength = getInt(def, "maxLength")
	t.Minimum = getFloat(def, "minimum")
	t.Maximum = getFloat(def, "maximum")
	t.MultipleOf = getFloat(def, "multipleOf")
	t.Format = getString(def, "format")
}

// newObjectType builds an object variant, determining each declared
// property recursively.
func newObjectType(name string, def map[string]any, optional bool) (*Type, error) {
	t := newBaseType(KindObject, name, def, optional)
	t.MinProperties = getInt(def, "minProperties")
	t.MaxProperties = getInt(def, "maxProperties")
	t.AdditionalProperties = true
	if ap, ok := getBool(def, "additionalProperties"); ok {
		t.AdditionalProperties = ap
	}
	t.Discriminator = getString(def, "discriminator")
	t.DiscriminatorValue = getString(def, "discriminatorValue")

	if rawProps, ok := def["properties"]; ok && rawProps != nil {
		props, err := asMap(rawProps)
		if err != nil {
			return nil, &ramlerrors.ParseError{Key: name, Message: "invalid properties declaration", Cause: err}
		}
		t.Properties = make(map[string]*Type, len(props))
		for propName, propDef := range props {
			prop, err := DetermineType(propName, propDef)
			if err != nil {
				return nil, err
			}
			// The "?" suffix is only a marker; the property is stored
			// under its clean name.
			t.Properties[trimOptionalMarker(propName)] = prop
		}
	}
	return t, nil
}

// newArrayType builds an array variant. The item type comes from the
// "items" key when present, defaulting to the untyped base variant.
func newArrayType(name string, def map[string]any, optional bool) (*Type, error) {
	t := newBaseType(KindArray, name, def, optional)
	t.MinItems = getInt(def, "minItems")
	t.MaxItems = getInt(def, "maxItems")
	if u, ok := getBool(def, "uniqueItems"); ok {
		t.UniqueItems = u
	}

	if itemsDef, ok := def["items"]; ok && itemsDef != nil {
		items, err := DetermineType(name+"-items", itemsDef)
		if err != nil {
			return nil, err
		}
		t.Items = items
	} else {
		t.Items = newBaseType(KindAny, name+"-items", map[string]any{}, false)
	}
	return t, nil
}
