// Package stringutil provides small string helpers shared by the parser.
package stringutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// HumanizeSegment derives a human-readable display name from a URI path
// segment: strips the leading slash and template braces, splits on common
// word separators, and title-cases each word.
//
//	HumanizeSegment("/playlist-items") == "Playlist Items"
//	HumanizeSegment("/{songId}")       == "SongId"
func HumanizeSegment(segment string) string {
	s := strings.TrimPrefix(segment, "/")
	s = strings.TrimPrefix(s, "~")
	s = strings.Trim(s, "{}")
	if s == "" {
		return ""
	}
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// StripQuery removes a trailing query string from a URI candidate.
func StripQuery(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}
