package parser

import (
	"fmt"

	"github.com/erraggy/ramltools/ramlerrors"
)

// asMap coerces a decoded value into a map[string]any. YAML decoders may
// produce map[any]any for nested mappings; non-string keys are a fatal
// input error.
func asMap(value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			switch key := k.(type) {
			case string:
				m[key] = val
			case int:
				// YAML response-code keys decode as integers
				m[fmt.Sprintf("%d", key)] = val
			case int64:
				m[fmt.Sprintf("%d", key)] = val
			default:
				return nil, &ramlerrors.ParseError{
					Message: fmt.Sprintf("mapping key must be a scalar, got %T", k),
				}
			}
		}
		return m, nil
	default:
		return nil, &ramlerrors.ParseError{
			Message: fmt.Sprintf("expected a mapping, got %T", value),
		}
	}
}

// asSlice coerces a decoded value into a []any, treating a scalar as a
// single-element sequence. RAML allows several list-valued keys to be
// declared as a bare scalar.
func asSlice(value any) []any {
	if s, ok := value.([]any); ok {
		return s
	}
	return []any{value}
}

// getString returns m[key] as a string, or "" if absent or not a string.
func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getBool returns m[key] as a bool along with whether the key was present
// as a bool.
func getBool(m map[string]any, key string) (bool, bool) {
	v, ok := m[key].(bool)
	return v, ok
}

// getInt returns m[key] as *int, or nil if absent or not an integer.
func getInt(m map[string]any, key string) *int {
	switch v := m[key].(type) {
	case int:
		return &v
	case int64:
		i := int(v)
		return &i
	case uint64:
		i := int(v)
		return &i
	case float64:
		// YAML decoders may widen; only accept integral values
		if v == float64(int(v)) {
			i := int(v)
			return &i
		}
	}
	return nil
}

// getFloat returns m[key] as *float64, or nil if absent or not numeric.
func getFloat(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case uint64:
		f := float64(v)
		return &f
	}
	return nil
}

// getStringSlice returns m[key] as a []string, accepting either a bare
// string or a sequence of strings. Returns nil when absent.
func getStringSlice(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	var out []string
	for _, item := range asSlice(v) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
