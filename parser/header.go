package parser

import (
	"fmt"
	"strings"

	"github.com/erraggy/ramltools/ramlerrors"
)

// Fragment identifies a RAML 1.0 document subtype declared in the header
// line. A plain API document uses FragmentDefault.
type Fragment string

// The complete set of RAML 1.0 fragment identifiers.
const (
	FragmentDefault                   Fragment = "Default"
	FragmentDocumentationItem         Fragment = "DocumentationItem"
	FragmentDataType                  Fragment = "DataType"
	FragmentNamedExample              Fragment = "NamedExample"
	FragmentResourceType              Fragment = "ResourceType"
	FragmentTrait                     Fragment = "Trait"
	FragmentAnnotationTypeDeclaration Fragment = "AnnotationTypeDeclaration"
	FragmentLibrary                   Fragment = "Library"
	FragmentOverlay                   Fragment = "Overlay"
	FragmentExtension                 Fragment = "Extension"
	FragmentSecurityScheme            Fragment = "SecurityScheme"
)

var validFragments = map[Fragment]bool{
	FragmentDocumentationItem:         true,
	FragmentDataType:                  true,
	FragmentNamedExample:              true,
	FragmentResourceType:              true,
	FragmentTrait:                     true,
	FragmentAnnotationTypeDeclaration: true,
	FragmentLibrary:                   true,
	FragmentOverlay:                   true,
	FragmentExtension:                 true,
	FragmentSecurityScheme:            true,
}

// Header is the parsed "#%RAML" first line of a document.
type Header struct {
	// Version is "0.8" or "1.0".
	Version string
	// Fragment is the document subtype; FragmentDefault for a plain API
	// document. Always FragmentDefault for RAML 0.8.
	Fragment Fragment
}

const headerPrefix = "#%RAML"

// ParseHeader parses a RAML header line of the form
//
//	#%RAML <major>.<minor>[ <Fragment>]
//
// The version must be 0.8 or 1.0, and a fragment identifier is only legal
// for 1.0 documents. Any violation is a fatal *ramlerrors.ParseError.
func ParseHeader(line string) (*Header, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, headerPrefix) {
		return nil, &ramlerrors.ParseError{
			Message: fmt.Sprintf("document does not begin with a %s header", headerPrefix),
		}
	}
	fields := strings.Fields(strings.TrimPrefix(line, headerPrefix))
	if len(fields) == 0 || len(fields) > 2 {
		return nil, &ramlerrors.ParseError{
			Message: fmt.Sprintf("malformed RAML header %q", line),
		}
	}

	version := fields[0]
	if version != "0.8" && version != "1.0" {
		return nil, &ramlerrors.ParseError{
			Message: fmt.Sprintf("unsupported RAML version %q (only 0.8 and 1.0 are supported)", version),
		}
	}

	h := &Header{Version: version, Fragment: FragmentDefault}
	if len(fields) == 2 {
		if version == "0.8" {
			return nil, &ramlerrors.ParseError{
				Message: "RAML 0.8 documents cannot declare a fragment identifier",
			}
		}
		fragment := Fragment(fields[1])
		if !validFragments[fragment] {
			return nil, &ramlerrors.ParseError{
				Message: fmt.Sprintf("unknown RAML fragment identifier %q", fields[1]),
			}
		}
		h.Fragment = fragment
	}
	return h, nil
}
