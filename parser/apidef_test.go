package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/ramltools/ramlerrors"
)

const musicAPI = `#%RAML 1.0
title: Music API
version: v1
baseUri: https://api.example.com/{version}
mediaType: application/json
documentation:
  - title: Getting Started
    content: Read this first.
types:
  Song:
    type: object
    properties:
      title: string
      length?: number
  FavoriteSong:
    type: Song
    properties:
      rating: integer
securitySchemes:
  oauth_2_0:
    type: OAuth 2.0
    settings:
      authorizationUri: https://api.example.com/oauth/authorize
annotationTypes:
  deprecated: nil
securedBy: [oauth_2_0]
/songs:
  displayName: Songs
  get:
    description: List songs
  post:
    body:
      type: Song
  /{songId}:
    uriParameters:
      songId:
        type: integer
    get:
      responses:
        200:
          body:
            type: Song
    delete:
      (deprecated):
`

func parseMusicAPI(t *testing.T) *APIDefinition {
	t.Helper()
	result, err := New().ParseBytes([]byte(musicAPI))
	require.NoError(t, err)
	require.NotNil(t, result.API)
	return result.API
}

func TestParseMapRoot(t *testing.T) {
	api := parseMusicAPI(t)

	assert.Equal(t, "Music API", api.Title)
	assert.Equal(t, "v1", api.Version)
	assert.Equal(t, "https://api.example.com/v1", api.BaseURI, "{version} is substituted")
	assert.Equal(t, "application/json", api.MediaType)
	assert.Equal(t, "1.0", api.RAMLVersion)

	require.Len(t, api.Documentation, 1)
	assert.Equal(t, "Getting Started", api.Documentation[0].Title)

	require.Len(t, api.SecuredBy, 1)
	assert.Equal(t, "oauth_2_0", api.SecuredBy[0].Name)
}

func TestParseMapTypesResolved(t *testing.T) {
	api := parseMusicAPI(t)

	song, ok := api.Types.Get("Song")
	require.True(t, ok)
	assert.Equal(t, KindObject, song.Kind)
	require.Contains(t, song.Properties, "length")
	assert.False(t, song.Properties["length"].Required)

	favorite, ok := api.Types.Get("FavoriteSong")
	require.True(t, ok)
	assert.Equal(t, KindObject, favorite.Kind, "inheritance is resolved before resources parse")
	assert.Contains(t, favorite.Properties, "title")
	assert.Contains(t, favorite.Properties, "rating")
}

func TestParseMapResourceTree(t *testing.T) {
	api := parseMusicAPI(t)

	songs, ok := api.Resources["/songs"]
	require.True(t, ok)
	assert.Equal(t, "Songs", songs.DisplayName)
	assert.Contains(t, songs.Methods, "GET")
	assert.Contains(t, songs.Methods, "POST")

	require.Len(t, songs.Methods["GET"].SecuredBy, 1, "API-level securedBy flows into methods")
	assert.Equal(t, "oauth_2_0", songs.Methods["GET"].SecuredBy[0].Name)

	song := songs.SubResources["/{songId}"]
	require.NotNil(t, song)
	assert.Equal(t, "/songs/{songId}", song.URI)
	assert.Contains(t, song.Methods["DELETE"].Annotations, "deprecated")
}

func TestParseMapProtocols(t *testing.T) {
	t.Run("inferred from baseUri", func(t *testing.T) {
		api := parseMusicAPI(t)
		assert.True(t, api.SupportsHTTPS())
		assert.False(t, api.SupportsHTTP())
	})

	t.Run("declared protocols win", func(t *testing.T) {
		api, err := ParseMap(map[string]any{
			"title":     "T",
			"baseUri":   "https://example.com",
			"protocols": []any{"http"},
		})
		require.NoError(t, err)
		assert.True(t, api.SupportsHTTP())
		assert.False(t, api.SupportsHTTPS())
	})

	t.Run("invalid protocol is fatal", func(t *testing.T) {
		_, err := ParseMap(map[string]any{
			"title":     "T",
			"protocols": []any{"FTP"},
		})
		assert.Error(t, err)
	})
}

func TestParseMapSchemasAndTypesExclusive(t *testing.T) {
	_, err := ParseMap(map[string]any{
		"title":   "T",
		"schemas": map[string]any{"Song": "{}"},
		"types":   map[string]any{"Song": "object"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ramlerrors.ErrParse))
}

func TestParseMapSchemasPassthrough(t *testing.T) {
	t.Run("mapping form", func(t *testing.T) {
		api, err := ParseMap(map[string]any{
			"title":   "T",
			"schemas": map[string]any{"Song": `{"type": "object"}`},
		})
		require.NoError(t, err)
		assert.Contains(t, api.Schemas, "Song")
	})

	t.Run("sequence form", func(t *testing.T) {
		api, err := ParseMap(map[string]any{
			"title": "T",
			"schemas": []any{
				map[string]any{"Song": `{}`},
				map[string]any{"Album": `{}`},
			},
		})
		require.NoError(t, err)
		assert.Len(t, api.Schemas, 2)
	})
}

func TestParseMapDocumentationValidation(t *testing.T) {
	_, err := ParseMap(map[string]any{
		"title": "T",
		"documentation": []any{
			map[string]any{"title": "Intro"},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ramlerrors.ErrParse))
}

func TestResourceByURI(t *testing.T) {
	api := parseMusicAPI(t)

	t.Run("template match", func(t *testing.T) {
		r, err := api.ResourceByURI("/songs/123")
		require.NoError(t, err)
		assert.Equal(t, "/songs/{songId}", r.URI)
	})

	t.Run("query string is stripped", func(t *testing.T) {
		r, err := api.ResourceByURI("/songs/123?x=1")
		require.NoError(t, err)
		assert.Equal(t, "/songs/{songId}", r.URI)
	})

	t.Run("parameter pattern constrains the match", func(t *testing.T) {
		_, err := api.ResourceByURI("/songs/not-a-number")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ramlerrors.ErrNotFound))
	})

	t.Run("miss", func(t *testing.T) {
		_, err := api.ResourceByURI("/albums/1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ramlerrors.ErrNotFound))
	})
}

func TestResourceByPath(t *testing.T) {
	api := parseMusicAPI(t)

	r, err := api.ResourceByPath("/songs/{songId}")
	require.NoError(t, err)
	assert.Equal(t, "/songs/{songId}", r.URI)

	_, err = api.ResourceByPath("/songs/123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ramlerrors.ErrNotFound))
}

func TestRoutes(t *testing.T) {
	api := parseMusicAPI(t)
	routes := api.Routes()

	want := map[string]bool{
		"GET /songs":             true,
		"POST /songs":            true,
		"GET /songs/{songId}":    true,
		"DELETE /songs/{songId}": true,
	}
	require.Len(t, routes, len(want))
	for _, route := range routes {
		key := route.Verb + " " + route.Path
		assert.True(t, want[key], "unexpected route %s", key)
		assert.Equal(t, []string{ProtocolHTTPS}, route.Protocols)
		require.NotNil(t, route.Method)
	}

	// Deterministic ordering across calls
	again := api.Routes()
	require.Equal(t, len(routes), len(again))
	for i := range routes {
		assert.Equal(t, routes[i].Verb, again[i].Verb)
		assert.Equal(t, routes[i].Path, again[i].Path)
	}
}
