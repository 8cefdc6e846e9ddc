package parser

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/erraggy/ramltools/ramlerrors"
)

// trimOptionalMarker strips the "?" optional-shorthand suffix from a
// declaration name or type string.
func trimOptionalMarker(s string) string {
	return strings.TrimSuffix(s, "?")
}

// DetermineType decides which concrete [Type] variant a definition fragment
// describes and constructs it. It is total over the three accepted shapes:
// a string shorthand, a mapping, or a literal embedded schema document; any
// other shape is a fatal *ramlerrors.ParseError.
//
// Shorthand forms handled here:
//
//	"string?"        optional marker (required=false unless declared)
//	"Song[]"         array of the named item type
//	"Song|Album"     union of the member types
//	"<...>"          embedded XML schema
//	"{...}"          embedded JSON schema
//
// A type string that matches none of the built-in keywords or shorthand
// forms becomes a [KindReference] placeholder carrying the target name,
// resolved later by [TypeRegistry.ApplyInheritance].
//
// Any definition that is neither a string nor a mapping (a sequence, or a
// bare scalar such as a number) is treated as a literal embedded schema
// document and serialized to JSON under the sentinel root name. Callers
// that want to reject such values must do so before determination.
func DetermineType(name string, definition any) (*Type, error) {
	var def map[string]any
	switch v := definition.(type) {
	case string:
		def = map[string]any{"type": v}
	case map[string]any, map[any]any:
		m, err := asMap(v)
		if err != nil {
			return nil, err
		}
		def = m
		if _, ok := def["type"]; !ok {
			if _, hasProps := def["properties"]; hasProps {
				def["type"] = "object"
			} else {
				def["type"] = "string"
			}
		}
	default:
		// A literal schema document (already decoded into something that
		// is neither a string nor a mapping) is an embedded JSON schema,
		// bypassing every other rule.
		raw, err := json.Marshal(definition)
		if err != nil {
			return nil, &ramlerrors.ParseError{
				Key:     name,
				Message: fmt.Sprintf("cannot interpret %T as a type definition", definition),
				Cause:   err,
			}
		}
		t := newBaseType(KindJSONSchema, schemaRootElement, map[string]any{}, false)
		t.RawSchema = string(raw)
		return t, nil
	}

	typeStr, ok := def["type"].(string)
	if !ok {
		// A structured "type" value is an inline schema document.
		return DetermineType(name, def["type"])
	}

	// The "?" marker may sit on either the declaration name or the type
	// string; both mean optional unless required is declared explicitly.
	optional := strings.Contains(typeStr, "?") || strings.Contains(name, "?")
	cleanName := trimOptionalMarker(name)
	typeStr = trimOptionalMarker(typeStr)

	if kind, ok := builtinKinds[typeStr]; ok {
		return newBuiltinType(kind, cleanName, def, optional)
	}

	if typeStr == "" || typeStr == "any" {
		return newBaseType(KindAny, cleanName, def, optional), nil
	}

	if strings.Contains(typeStr, "|") {
		t := newBaseType(KindUnion, cleanName, def, optional)
		for _, member := range strings.Split(typeStr, "|") {
			member = strings.TrimSpace(member)
			memberType, err := DetermineType(member, member)
			if err != nil {
				return nil, err
			}
			t.OneOf = append(t.OneOf, memberType)
		}
		return t, nil
	}

	if strings.Contains(typeStr, "[]") {
		itemName := strings.Replace(typeStr, "[]", "", 1)
		t := newBaseType(KindArray, cleanName, def, optional)
		t.MinItems = getInt(def, "minItems")
		t.MaxItems = getInt(def, "maxItems")
		if u, uok := getBool(def, "uniqueItems"); uok {
			t.UniqueItems = u
		}
		items, err := DetermineType(itemName, itemName)
		if err != nil {
			return nil, err
		}
		t.Items = items
		return t, nil
	}

	if trimmed := strings.TrimLeft(typeStr, " \t\n"); strings.HasPrefix(trimmed, "<") {
		t := newBaseType(KindXMLSchema, schemaRootElement, def, optional)
		t.RawSchema = trimmed
		return t, nil
	} else if strings.HasPrefix(trimmed, "{") {
		if !json.Valid([]byte(trimmed)) {
			return nil, &ramlerrors.ParseError{
				Key:     cleanName,
				Message: "embedded JSON schema is not valid JSON",
			}
		}
		t := newBaseType(KindJSONSchema, schemaRootElement, def, optional)
		t.RawSchema = trimmed
		return t, nil
	}

	// An unrecognized name is a reference to a (possibly not yet declared)
	// named type. Resolution happens in the registry's inheritance pass.
	t := newBaseType(KindReference, cleanName, def, optional)
	t.TargetName = typeStr
	return t, nil
}

// newBuiltinType dispatches to the constructor for a built-in kind.
func newBuiltinType(kind TypeKind, name string, def map[string]any, optional bool) (*Type, error) {
	switch kind {
	case KindObject:
		return newObjectType(name, def, optional)
	case KindArray:
		return newArrayType(name, def, optional)
	case KindFile:
		t := newBaseType(KindFile, name, def, optional)
		t.FileTypes = getStringSlice(def, "fileTypes")
		t.MinLength = getInt(def, "minLength")
		t.MaxLength = getInt(def, "maxLength")
		return t, nil
	default:
		t := newBaseType(kind, name, def, optional)
		t.applyScalarFacets(def)
		return t, nil
	}
}
