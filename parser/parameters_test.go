package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamedParameter(t *testing.T) {
	t.Run("nil definition yields defaults", func(t *testing.T) {
		p, err := ParseNamedParameter("songId", nil)
		require.NoError(t, err)
		assert.Equal(t, "songId", p.Name)
		assert.Equal(t, "string", p.Type)
		assert.False(t, p.Required)
	})

	t.Run("full definition", func(t *testing.T) {
		p, err := ParseNamedParameter("page", map[string]any{
			"type":        "integer",
			"displayName": "Page",
			"description": "page number",
			"required":    true,
			"minimum":     1,
			"default":     1,
		})
		require.NoError(t, err)
		assert.Equal(t, "integer", p.Type)
		assert.Equal(t, "Page", p.DisplayName)
		assert.True(t, p.Required)
		require.NotNil(t, p.Minimum)
		assert.Equal(t, 1.0, *p.Minimum)
	})

	t.Run("invalid type is fatal", func(t *testing.T) {
		_, err := ParseNamedParameter("p", map[string]any{"type": "object"})
		assert.Error(t, err)
	})

	t.Run("enum", func(t *testing.T) {
		p, err := ParseNamedParameter("sort", map[string]any{
			"enum": []any{"asc", "desc"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"asc", "desc"}, p.Enum)
	})
}

func TestParseNamedParameterMap(t *testing.T) {
	params, err := parseNamedParameterMap(map[string]any{
		"page":   map[string]any{"type": "integer"},
		"filter": nil,
	}, ParamInQuery)
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, ParamInQuery, params["page"].Location)
	assert.Equal(t, ParamInQuery, params["filter"].Location)

	_, err = parseNamedParameterMap("not a mapping", ParamInQuery)
	assert.Error(t, err)
}

func TestNamedParameterMatchPattern(t *testing.T) {
	tests := []struct {
		name      string
		param     *NamedParameter
		matches   []string
		mismaches []string
	}{
		{
			name:      "explicit pattern wins",
			param:     &NamedParameter{Type: "integer", Pattern: `^[a-f0-9]+$`},
			matches:   []string{"deadbeef"},
			mismaches: []string{"xyz"},
		},
		{
			name:      "integer",
			param:     &NamedParameter{Type: "integer"},
			matches:   []string{"123", "-7"},
			mismaches: []string{"1.5", "abc"},
		},
		{
			name:      "number",
			param:     &NamedParameter{Type: "number"},
			matches:   []string{"1.5", "42"},
			mismaches: []string{"abc"},
		},
		{
			name:      "boolean",
			param:     &NamedParameter{Type: "boolean"},
			matches:   []string{"true", "false"},
			mismaches: []string{"yes"},
		},
		{
			name:      "date",
			param:     &NamedParameter{Type: "date"},
			matches:   []string{"2023-01-01"},
			mismaches: []string{"01/01/2023"},
		},
		{
			name:      "string default",
			param:     &NamedParameter{Type: "string"},
			matches:   []string{"anything"},
			mismaches: []string{"with/slash"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile(tt.param.MatchPattern())
			for _, v := range tt.matches {
				assert.True(t, re.MatchString(v), "%q should match", v)
			}
			for _, v := range tt.mismaches {
				assert.False(t, re.MatchString(v), "%q should not match", v)
			}
		})
	}
}
