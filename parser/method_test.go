package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethodBareVerb(t *testing.T) {
	api := testAPI(t)
	m, err := parseMethod("get", nil, api, nil)
	require.NoError(t, err)
	assert.Equal(t, "GET", m.Verb)
	assert.Empty(t, m.Bodies)
	assert.Empty(t, m.Responses)
}

func TestParseMethodFull(t *testing.T) {
	api := testAPI(t)
	m, err := parseMethod("post", map[string]any{
		"displayName": "Create song",
		"description": "Adds a song",
		"protocols":   []any{"HTTPS"},
		"queryParameters": map[string]any{
			"dryRun": map[string]any{"type": "boolean"},
		},
		"headers": map[string]any{
			"X-Request-Id": nil,
		},
		"body": map[string]any{
			"application/json": map[string]any{
				"type":    "object",
				"example": map[string]any{"title": "Song"},
			},
		},
		"responses": map[string]any{
			"201": map[string]any{
				"description": "created",
				"body": map[string]any{
					"application/json": map[string]any{"type": "Song"},
				},
			},
			"400": nil,
		},
	}, api, nil)
	require.NoError(t, err)

	assert.Equal(t, "POST", m.Verb)
	assert.Equal(t, "Create song", m.DisplayName)
	assert.Equal(t, []string{"HTTPS"}, m.Protocols)
	assert.Contains(t, m.QueryParameters, "dryRun")
	assert.Contains(t, m.Headers, "X-Request-Id")

	require.Contains(t, m.Bodies, "application/json")
	body := m.Bodies["application/json"]
	require.NotNil(t, body.Type)
	assert.Equal(t, KindObject, body.Type.Kind)
	assert.Equal(t, map[string]any{"title": "Song"}, body.Example)

	require.Contains(t, m.Responses, 201)
	created := m.Responses[201]
	assert.Equal(t, "created", created.Description)
	require.Contains(t, created.Bodies, "application/json")
	assert.Equal(t, KindReference, created.Bodies["application/json"].Type.Kind)

	require.Contains(t, m.Responses, 400)
	assert.Empty(t, m.Responses[400].Description)
}

func TestParseMethodSecurity(t *testing.T) {
	api := testAPI(t)
	inherited := []*SecurityScheme{api.SecuritySchemes["oauth_2_0"]}

	t.Run("inherits by default", func(t *testing.T) {
		m, err := parseMethod("get", map[string]any{}, api, inherited)
		require.NoError(t, err)
		require.Len(t, m.SecuredBy, 1)
		assert.Equal(t, "oauth_2_0", m.SecuredBy[0].Name)
	})

	t.Run("own declaration overrides", func(t *testing.T) {
		m, err := parseMethod("get", map[string]any{
			"securedBy": []any{nil},
		}, api, inherited)
		require.NoError(t, err)
		require.Len(t, m.SecuredBy, 1)
		assert.Equal(t, NullSecuritySchemeName, m.SecuredBy[0].Name)
	})
}

func TestParseBodiesDefaultMediaType(t *testing.T) {
	t.Run("declared media type from the API", func(t *testing.T) {
		bodies, err := parseBodies(map[string]any{"type": "object"}, "application/xml")
		require.NoError(t, err)
		require.Contains(t, bodies, "application/xml")
		assert.Equal(t, KindObject, bodies["application/xml"].Type.Kind)
	})

	t.Run("falls back to JSON", func(t *testing.T) {
		bodies, err := parseBodies(map[string]any{"type": "string"}, "")
		require.NoError(t, err)
		assert.Contains(t, bodies, "application/json")
	})

	t.Run("multiple media types", func(t *testing.T) {
		bodies, err := parseBodies(map[string]any{
			"application/json": map[string]any{"type": "object"},
			"application/xml":  nil,
		}, "")
		require.NoError(t, err)
		assert.Len(t, bodies, 2)
		assert.Nil(t, bodies["application/xml"].Type)
	})
}

func TestParseBodyLegacySchema(t *testing.T) {
	body, err := parseBody("application/json", map[string]any{
		"schema": `{"type": "object"}`,
	})
	require.NoError(t, err)
	require.NotNil(t, body.Type)
	assert.Equal(t, KindJSONSchema, body.Type.Kind)
}

func TestParseResponsesBadStatusCode(t *testing.T) {
	for _, code := range []string{"ok", "99", "600"} {
		t.Run(code, func(t *testing.T) {
			_, err := parseResponses(map[string]any{code: nil}, "")
			assert.Error(t, err)
		})
	}
}

func TestParseResponsesIntegerKeys(t *testing.T) {
	// YAML decodes unquoted status codes as integers
	_, err := parseResponses(map[any]any{200: nil}, "")
	require.NoError(t, err)
}
