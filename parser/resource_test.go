package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/ramltools/ramlerrors"
)

func testAPI(t *testing.T) *APIDefinition {
	t.Helper()
	api := NewAPIDefinition()

	oauth, err := ParseSecurityScheme("oauth_2_0", map[string]any{"type": "OAuth 2.0"})
	require.NoError(t, err)
	api.SecuritySchemes["oauth_2_0"] = oauth

	rateLimit, err := ParseAnnotationType("rate-limit", map[string]any{
		"type":           "integer",
		"allowedTargets": []any{"Resource"},
	})
	require.NoError(t, err)
	api.AnnotationTypes["rate-limit"] = rateLimit
	return api
}

func TestBuildResourceRejectsBadURI(t *testing.T) {
	api := testAPI(t)
	_, err := buildResource("songs", map[string]any{}, inheritedContext{}, api)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ramlerrors.ErrParse))
}

func TestBuildResourceDefaults(t *testing.T) {
	api := testAPI(t)
	r, err := buildResource("/songs", nil, inheritedContext{}, api)
	require.NoError(t, err)
	assert.Equal(t, "/songs", r.URI)
	assert.Equal(t, "/songs", r.DisplayName, "display name defaults to the URI")
	assert.Equal(t, "Songs", r.HumanDisplayName())
}

func TestBuildResourceNested(t *testing.T) {
	api := testAPI(t)
	r, err := buildResource("/songs", map[string]any{
		"displayName": "Songs",
		"get":         nil,
		"/{songId}": map[string]any{
			"uriParameters": map[string]any{
				"songId": map[string]any{"type": "integer"},
			},
			"get":    nil,
			"delete": nil,
		},
	}, inheritedContext{}, api)
	require.NoError(t, err)

	assert.Contains(t, r.Methods, "GET")
	require.Contains(t, r.SubResources, "/{songId}")

	child := r.SubResources["/{songId}"]
	assert.Equal(t, "/songs/{songId}", child.URI)
	assert.Contains(t, child.Methods, "DELETE")
	require.Contains(t, child.URIParameters, "songId")
	assert.Equal(t, "integer", child.URIParameters["songId"].Type)
}

func TestBuildResourceParameterInheritance(t *testing.T) {
	api := testAPI(t)
	r, err := buildResource("/songs/{songId}", map[string]any{
		"uriParameters": map[string]any{
			"songId": map[string]any{"type": "integer"},
		},
		"/versions/{versionId}": map[string]any{
			"uriParameters": map[string]any{
				"versionId": map[string]any{"type": "integer"},
			},
		},
	}, inheritedContext{}, api)
	require.NoError(t, err)

	child := r.SubResources["/versions/{versionId}"]
	require.NotNil(t, child)
	assert.Contains(t, child.URIParameters, "songId", "parent parameters are inherited")
	assert.Contains(t, child.URIParameters, "versionId")
	assert.NotContains(t, r.URIParameters, "versionId", "inheritance flows down, never up")
}

func TestBuildResourceSecurityOverride(t *testing.T) {
	api := testAPI(t)
	inherited := []*SecurityScheme{api.SecuritySchemes["oauth_2_0"]}

	t.Run("inherited by default", func(t *testing.T) {
		r, err := buildResource("/songs", map[string]any{}, inheritedContext{securedBy: inherited}, api)
		require.NoError(t, err)
		require.Len(t, r.SecuredBy, 1)
		assert.Equal(t, "oauth_2_0", r.SecuredBy[0].Name)
	})

	t.Run("declared securedBy overrides", func(t *testing.T) {
		r, err := buildResource("/songs", map[string]any{
			"securedBy": []any{nil},
		}, inheritedContext{securedBy: inherited}, api)
		require.NoError(t, err)
		require.Len(t, r.SecuredBy, 1)
		assert.Equal(t, NullSecuritySchemeName, r.SecuredBy[0].Name)
	})

	t.Run("methods inherit the resource's resolved schemes", func(t *testing.T) {
		r, err := buildResource("/songs", map[string]any{
			"get": nil,
		}, inheritedContext{securedBy: inherited}, api)
		require.NoError(t, err)
		require.Contains(t, r.Methods, "GET")
		require.Len(t, r.Methods["GET"].SecuredBy, 1)
		assert.Equal(t, "oauth_2_0", r.Methods["GET"].SecuredBy[0].Name)
	})

	t.Run("undeclared scheme is fatal", func(t *testing.T) {
		_, err := buildResource("/songs", map[string]any{
			"securedBy": []any{"digest"},
		}, inheritedContext{}, api)
		assert.Error(t, err)
	})
}

func TestBuildResourceAnnotations(t *testing.T) {
	api := testAPI(t)

	t.Run("parsed and inherited into children", func(t *testing.T) {
		r, err := buildResource("/songs", map[string]any{
			"(rate-limit)": 100,
			"/{songId}":    map[string]any{},
		}, inheritedContext{}, api)
		require.NoError(t, err)
		require.Contains(t, r.Annotations, "rate-limit")
		child := r.SubResources["/{songId}"]
		require.Contains(t, child.Annotations, "rate-limit", "children see the parent's resolved annotations")
		assert.Equal(t, 100, child.Annotations["rate-limit"].Value)
	})

	t.Run("undeclared annotation type is fatal", func(t *testing.T) {
		_, err := buildResource("/songs", map[string]any{
			"(unknown)": 1,
		}, inheritedContext{}, api)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ramlerrors.ErrReference))
	})
}

func TestResourceMethodLookup(t *testing.T) {
	api := testAPI(t)
	r, err := buildResource("/songs", map[string]any{"get": nil}, inheritedContext{}, api)
	require.NoError(t, err)

	m, err := r.Method("get")
	require.NoError(t, err)
	assert.Equal(t, "GET", m.Verb)

	_, err = r.Method("patch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ramlerrors.ErrNotFound))
}

func TestMatchesURI(t *testing.T) {
	api := testAPI(t)
	r, err := buildResource("/songs/{songId}", map[string]any{
		"uriParameters": map[string]any{
			"songId": map[string]any{"type": "integer"},
		},
	}, inheritedContext{}, api)
	require.NoError(t, err)

	tests := []struct {
		candidate string
		matches   bool
	}{
		{"/songs/123", true},
		{"/songs/123?x=1", true},
		{"/songs/123/extra", false},
		{"/songs", false},
		{"/songs/", false},
		{"/songs/abc", false}, // integer parameter pattern
	}
	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.matches, r.MatchesURI(tt.candidate))
		})
	}
}

func TestMatchesURIUndeclaredPlaceholder(t *testing.T) {
	api := testAPI(t)
	r, err := buildResource("/songs/{songId}", nil, inheritedContext{}, api)
	require.NoError(t, err)

	assert.True(t, r.MatchesURI("/songs/123"))
	assert.True(t, r.MatchesURI("/songs/abc"), "undeclared placeholder falls back to a non-slash capture")
	assert.False(t, r.MatchesURI("/songs/a/b"))
}

func TestMatchesURIOptionalPlaceholder(t *testing.T) {
	api := testAPI(t)
	r, err := buildResource("/songs/~{format}", nil, inheritedContext{}, api)
	require.NoError(t, err)

	assert.True(t, r.MatchesURI("/songs/json"))
	assert.True(t, r.MatchesURI("/songs/"), "optional placeholder may be absent")
	assert.False(t, r.MatchesURI("/albums/json"))
}
