package parser

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/erraggy/ramltools/ramlerrors"
)

// Date and time layouts for the date/time variants. DateTimeOnly accepts
// both the timezone-less RAML layout and a full RFC 3339 timestamp; the
// round-trip check below keeps lenient parses from slipping through.
const (
	layoutDateOnly     = "2006-01-02"
	layoutTimeOnly     = "15:04:05"
	layoutDateTimeOnly = "2006-01-02T15:04:05"
)

// dateTimeOnlyLayouts are tried in order for KindDateTimeOnly values.
var dateTimeOnlyLayouts = []string{layoutDateTimeOnly, time.RFC3339}

// Validate checks value against the type's constraints. It is pure: no
// state is touched, and it either returns nil or a
// *ramlerrors.ValidationError carrying the offending property name and a
// description of the violated constraint.
//
// Validating an unresolved [KindReference] placeholder is a programming
// error and yields a *ramlerrors.ReferenceError; consumers only see
// placeholders if [TypeRegistry.ApplyInheritance] never ran.
func (t *Type) Validate(value any) error {
	switch t.Kind {
	case KindAny:
		return nil
	case KindString:
		return t.validateString(value)
	case KindNumber:
		return t.validateNumber(value, false)
	case KindInteger:
		return t.validateNumber(value, true)
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return t.constraintError("value is not a boolean", value)
		}
		return nil
	case KindDateOnly:
		return t.validateTimestamp(value, layoutDateOnly)
	case KindTimeOnly:
		return t.validateTimestamp(value, layoutTimeOnly)
	case KindDateTimeOnly:
		return t.validateTimestamp(value, dateTimeOnlyLayouts...)
	case KindDateTime:
		if t.Format == "rfc2616" {
			return t.validateTimestamp(value, time.RFC1123)
		}
		return t.validateTimestamp(value, time.RFC3339)
	case KindFile:
		return t.validateFile(value)
	case KindNil:
		if value != nil {
			return t.constraintError("value is not nil", value)
		}
		return nil
	case KindObject:
		return t.validateObject(value)
	case KindArray:
		return t.validateArray(value)
	case KindUnion:
		return t.validateUnion(value)
	case KindJSONSchema:
		if s, ok := value.(string); ok && !json.Valid([]byte(s)) {
			return t.constraintError("value is not valid JSON", value)
		}
		return nil
	case KindXMLSchema:
		// XSD validation of instance documents is out of scope
		return nil
	case KindReference:
		return &ramlerrors.ReferenceError{
			Name:    t.TargetName,
			Kind:    "type",
			Message: "cannot validate against an unresolved type reference",
		}
	default:
		return t.constraintError(fmt.Sprintf("unknown type kind %v", t.Kind), value)
	}
}

// constraintError builds the validation error for this type's name.
func (t *Type) constraintError(constraint string, value any) error {
	return &ramlerrors.ValidationError{
		Property:   t.Name,
		Constraint: constraint,
		Value:      value,
	}
}

func (t *Type) validateString(value any) error {
	s, ok := value.(string)
	if !ok {
		return t.constraintError("value is not a string", value)
	}
	n := utf8.RuneCountInString(s)
	if t.MinLength != nil && n < *t.MinLength {
		return t.constraintError(fmt.Sprintf("minLength of %d not met", *t.MinLength), value)
	}
	if t.MaxLength != nil && n > *t.MaxLength {
		return t.constraintError(fmt.Sprintf("maxLength of %d exceeded", *t.MaxLength), value)
	}
	if t.Pattern != "" {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return t.constraintError(fmt.Sprintf("pattern %q does not compile", t.Pattern), value)
		}
		if !re.MatchString(s) {
			return t.constraintError(fmt.Sprintf("pattern %q not matched", t.Pattern), value)
		}
	}
	return nil
}

// asNumber widens the numeric shapes YAML and JSON decoders produce.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func (t *Type) validateNumber(value any, integral bool) error {
	f, ok := asNumber(value)
	if !ok {
		return t.constraintError("value is not numeric", value)
	}
	if integral && f != float64(int64(f)) {
		return t.constraintError("value is not an integer", value)
	}
	if t.Minimum != nil && f < *t.Minimum {
		return t.constraintError(fmt.Sprintf("minimum of %v not met", *t.Minimum), value)
	}
	if t.Maximum != nil && f > *t.Maximum {
		return t.constraintError(fmt.Sprintf("maximum of %v exceeded", *t.Maximum), value)
	}
	if t.MultipleOf != nil && *t.MultipleOf != 0 {
		q := f / *t.MultipleOf
		if q != float64(int64(q)) {
			return t.constraintError(fmt.Sprintf("value is not a multiple of %v", *t.MultipleOf), value)
		}
	}
	return nil
}

// validateTimestamp requires the value to parse under one of the layouts
// AND to reproduce the input exactly when re-serialized. The round-trip
// equality guards against lenient parsers silently accepting malformed
// input (e.g. out-of-range day-of-month normalization).
func (t *Type) validateTimestamp(value any, layouts ...string) error {
	s, ok := value.(string)
	if !ok {
		return t.constraintError("value is not a string timestamp", value)
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if parsed.Format(layout) == s {
			return nil
		}
	}
	return t.constraintError(fmt.Sprintf("value does not match the %s format", t.Kind), value)
}

func (t *Type) validateFile(value any) error {
	var n int
	switch v := value.(type) {
	case string:
		n = len(v)
	case []byte:
		n = len(v)
	default:
		return t.constraintError("value is not file content", value)
	}
	if t.MinLength != nil && n < *t.MinLength {
		return t.constraintError(fmt.Sprintf("minLength of %d bytes not met", *t.MinLength), value)
	}
	if t.MaxLength != nil && n > *t.MaxLength {
		return t.constraintError(fmt.Sprintf("maxLength of %d bytes exceeded", *t.MaxLength), value)
	}
	return nil
}

func (t *Type) validateObject(value any) error {
	m, err := asMap(value)
	if err != nil {
		return t.constraintError("value is not an object", value)
	}
	if t.MinProperties != nil && len(m) < *t.MinProperties {
		return t.constraintError(fmt.Sprintf("minProperties of %d not met", *t.MinProperties), value)
	}
	if t.MaxProperties != nil && len(m) > *t.MaxProperties {
		return t.constraintError(fmt.Sprintf("maxProperties of %d exceeded", *t.MaxProperties), value)
	}
	for name, prop := range t.Properties {
		v, present := m[name]
		if !present {
			if prop.Required {
				return t.constraintError(fmt.Sprintf("required property %q is missing", name), value)
			}
			continue
		}
		if err := prop.Validate(v); err != nil {
			return err
		}
	}
	if !t.AdditionalProperties {
		for key := range m {
			if _, declared := t.Properties[key]; !declared {
				return t.constraintError(fmt.Sprintf("additional property %q is not allowed", key), value)
			}
		}
	}
	return nil
}

func (t *Type) validateArray(value any) error {
	items, ok := value.([]any)
	if !ok {
		return t.constraintError("value is not an array", value)
	}
	if t.MinItems != nil && len(items) < *t.MinItems {
		return t.constraintError(fmt.Sprintf("minItems of %d not met", *t.MinItems), value)
	}
	if t.MaxItems != nil && len(items) > *t.MaxItems {
		return t.constraintError(fmt.Sprintf("maxItems of %d exceeded", *t.MaxItems), value)
	}
	if t.UniqueItems {
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			key := fmt.Sprintf("%v", item)
			if seen[key] {
				return t.constraintError("items are not unique", value)
			}
			seen[key] = true
		}
	}
	if t.Items != nil {
		for _, item := range items {
			if err := t.Items.Validate(item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Type) validateUnion(value any) error {
	for _, member := range t.OneOf {
		if member.Validate(value) == nil {
			return nil
		}
	}
	return t.constraintError("value matches no member of the union", value)
}
