package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/ramltools/ramlerrors"
)

// Body is a request or response body declaration for one media type.
type Body struct {
	MediaType string
	Type      *Type
	Example   any
	Examples  map[string]any
}

// Response is a declared response for one status code.
type Response struct {
	StatusCode  int
	Description string
	Headers     map[string]*NamedParameter
	Bodies      map[string]*Body
}

// Method is a single HTTP method declared on a resource.
type Method struct {
	Verb            string
	DisplayName     string
	Description     string
	QueryParameters map[string]*NamedParameter
	Headers         map[string]*NamedParameter
	Bodies          map[string]*Body
	Responses       map[int]*Response
	Protocols       []string
	// SecuredBy is inherited from the enclosing resource's resolved
	// schemes unless the method declares its own.
	SecuredBy   []*SecurityScheme
	Annotations map[string]*Annotation
}

// parseMethod builds a Method from its definition. A nil definition is a
// bare verb key ("get:") and yields a method with defaults.
func parseMethod(verb string, definition any, api *APIDefinition, inheritedSecurity []*SecurityScheme) (*Method, error) {
	m := &Method{
		Verb:      strings.ToUpper(verb),
		SecuredBy: inheritedSecurity,
	}
	if definition == nil {
		return m, nil
	}
	def, err := asMap(definition)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: verb, Message: "invalid method definition", Cause: err}
	}

	m.DisplayName = getString(def, "displayName")
	m.Description = getString(def, "description")
	m.Protocols = getStringSlice(def, "protocols")

	if m.QueryParameters, err = parseNamedParameterMap(def["queryParameters"], ParamInQuery); err != nil {
		return nil, err
	}
	if m.Headers, err = parseNamedParameterMap(def["headers"], ParamInHeader); err != nil {
		return nil, err
	}

	if body, ok := def["body"]; ok && body != nil {
		if m.Bodies, err = parseBodies(body, api.MediaType); err != nil {
			return nil, err
		}
	}

	if responses, ok := def["responses"]; ok && responses != nil {
		if m.Responses, err = parseResponses(responses, api.MediaType); err != nil {
			return nil, err
		}
	}

	if securedBy, ok := def["securedBy"]; ok {
		schemes, serr := parseSecuredBy(securedBy, api.SecuritySchemes)
		if serr != nil {
			return nil, serr
		}
		m.SecuredBy = schemes
	}

	if m.Annotations, err = parseAnnotations(def, TargetMethod, api.AnnotationTypes, nil); err != nil {
		return nil, err
	}
	return m, nil
}

// parseBodies parses a body declaration, keyed either by media type or
// declared directly (in which case the API's default media type applies).
func parseBodies(value any, defaultMediaType string) (map[string]*Body, error) {
	def, err := asMap(value)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: "body", Message: "invalid body declaration", Cause: err}
	}

	perMediaType := true
	for key := range def {
		if !strings.Contains(key, "/") {
			perMediaType = false
			break
		}
	}

	bodies := make(map[string]*Body)
	if perMediaType && len(def) > 0 {
		for mediaType, bodyDef := range def {
			body, berr := parseBody(mediaType, bodyDef)
			if berr != nil {
				return nil, berr
			}
			bodies[mediaType] = body
		}
		return bodies, nil
	}

	mediaType := defaultMediaType
	if mediaType == "" {
		mediaType = "application/json"
	}
	body, err := parseBody(mediaType, def)
	if err != nil {
		return nil, err
	}
	bodies[mediaType] = body
	return bodies, nil
}

// parseBody parses a single media type's body.
func parseBody(mediaType string, definition any) (*Body, error) {
	b := &Body{MediaType: mediaType}
	if definition == nil {
		return b, nil
	}
	def, err := asMap(definition)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: mediaType, Message: "invalid body", Cause: err}
	}

	typeDef, ok := def["type"]
	if !ok {
		// RAML 0.8 declares body types under "schema"
		typeDef = def["schema"]
	}
	if typeDef != nil {
		t, terr := DetermineType(mediaType, typeDef)
		if terr != nil {
			return nil, terr
		}
		b.Type = t
	}
	b.Example = def["example"]
	if examples, eok := def["examples"]; eok && examples != nil {
		m, merr := asMap(examples)
		if merr != nil {
			return nil, &ramlerrors.ParseError{Key: mediaType, Message: "invalid examples declaration", Cause: merr}
		}
		b.Examples = m
	}
	return b, nil
}

// parseResponses parses a responses block keyed by status code.
func parseResponses(value any, defaultMediaType string) (map[int]*Response, error) {
	def, err := asMap(value)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: "responses", Message: "invalid responses declaration", Cause: err}
	}
	responses := make(map[int]*Response, len(def))
	for codeKey, responseDef := range def {
		code, cerr := strconv.Atoi(codeKey)
		if cerr != nil || code < 100 || code > 599 {
			return nil, &ramlerrors.ParseError{
				Key:     codeKey,
				Message: fmt.Sprintf("invalid response status code %q", codeKey),
			}
		}
		resp := &Response{StatusCode: code}
		if responseDef != nil {
			rm, merr := asMap(responseDef)
			if merr != nil {
				return nil, &ramlerrors.ParseError{Key: codeKey, Message: "invalid response", Cause: merr}
			}
			resp.Description = getString(rm, "description")
			if resp.Headers, err = parseNamedParameterMap(rm["headers"], ParamInHeader); err != nil {
				return nil, err
			}
			if body, bok := rm["body"]; bok && body != nil {
				if resp.Bodies, err = parseBodies(body, defaultMediaType); err != nil {
					return nil, err
				}
			}
		}
		responses[code] = resp
	}
	return responses, nil
}
