package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeSegment(t *testing.T) {
	tests := []struct {
		segment  string
		expected string
	}{
		{"/playlist-items", "Playlist Items"},
		{"/songs", "Songs"},
		{"/{songId}", "SongId"},
		{"/~{version}", "Version"},
		{"/two_words", "Two Words"},
		{"/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			assert.Equal(t, tt.expected, HumanizeSegment(tt.segment))
		})
	}
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, "/songs/123", StripQuery("/songs/123?x=1&y=2"))
	assert.Equal(t, "/songs/123", StripQuery("/songs/123"))
	assert.Equal(t, "", StripQuery("?x=1"))
}
