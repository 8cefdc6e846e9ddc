package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/ramltools/ramlerrors"
)

func declaredSchemes(t *testing.T) map[string]*SecurityScheme {
	t.Helper()
	oauth, err := ParseSecurityScheme("oauth_2_0", map[string]any{
		"type":        "OAuth 2.0",
		"description": "OAuth 2.0 protection",
		"settings": map[string]any{
			"authorizationUri": "https://example.com/oauth/authorize",
			"scopes":           []any{"read"},
		},
	})
	require.NoError(t, err)
	basic, err := ParseSecurityScheme("basic", map[string]any{
		"type": "Basic Authentication",
	})
	require.NoError(t, err)
	return map[string]*SecurityScheme{"oauth_2_0": oauth, "basic": basic}
}

func TestParseSecurityScheme(t *testing.T) {
	schemes := declaredSchemes(t)
	oauth := schemes["oauth_2_0"]
	assert.Equal(t, "OAuth 2.0", oauth.Type)
	assert.Equal(t, "https://example.com/oauth/authorize", oauth.Settings["authorizationUri"])
}

func TestParseSecuredBy(t *testing.T) {
	schemes := declaredSchemes(t)

	t.Run("null entry installs the anonymous scheme", func(t *testing.T) {
		got, err := parseSecuredBy([]any{nil}, schemes)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, NullSecuritySchemeName, got[0].Name)
	})

	t.Run("bare name looks up the declaration", func(t *testing.T) {
		got, err := parseSecuredBy([]any{"basic"}, schemes)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Same(t, schemes["basic"], got[0])
	})

	t.Run("inline settings clone and merge", func(t *testing.T) {
		got, err := parseSecuredBy([]any{
			map[string]any{
				"oauth_2_0": map[string]any{
					"settings": map[string]any{"scopes": []any{"write"}},
				},
			},
		}, schemes)
		require.NoError(t, err)
		require.Len(t, got, 1)

		clone := got[0]
		assert.NotSame(t, schemes["oauth_2_0"], clone, "overrides operate on a clone")
		assert.Equal(t, []any{"write"}, clone.Settings["scopes"])
		assert.Equal(t, "https://example.com/oauth/authorize", clone.Settings["authorizationUri"])
		// The declaration itself is untouched
		assert.Equal(t, []any{"read"}, schemes["oauth_2_0"].Settings["scopes"])
	})

	t.Run("undeclared scheme is fatal", func(t *testing.T) {
		_, err := parseSecuredBy([]any{"digest"}, schemes)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ramlerrors.ErrReference))
	})

	t.Run("mixed list", func(t *testing.T) {
		got, err := parseSecuredBy([]any{nil, "basic"}, schemes)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, NullSecuritySchemeName, got[0].Name)
		assert.Equal(t, "basic", got[1].Name)
	})
}
