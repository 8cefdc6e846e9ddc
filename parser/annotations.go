package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/erraggy/ramltools/ramlerrors"
)

// TargetKind names a node kind an annotation may be applied to. The set is
// fixed by the RAML 1.0 specification.
type TargetKind string

// The complete set of annotation target kinds.
const (
	TargetAPI                       TargetKind = "API"
	TargetDocumentationItem         TargetKind = "DocumentationItem"
	TargetResource                  TargetKind = "Resource"
	TargetMethod                    TargetKind = "Method"
	TargetResponse                  TargetKind = "Response"
	TargetRequestBody               TargetKind = "RequestBody"
	TargetResponseBody              TargetKind = "ResponseBody"
	TargetTypeDeclaration           TargetKind = "TypeDeclaration"
	TargetExample                   TargetKind = "Example"
	TargetResourceType              TargetKind = "ResourceType"
	TargetTrait                     TargetKind = "Trait"
	TargetSecurityScheme            TargetKind = "SecurityScheme"
	TargetSecuritySchemeSettings    TargetKind = "SecuritySchemeSettings"
	TargetAnnotationTypeDeclaration TargetKind = "AnnotationType"
	TargetLibrary                   TargetKind = "Library"
	TargetOverlay                   TargetKind = "Overlay"
	TargetExtension                 TargetKind = "Extension"
)

var validTargets = map[TargetKind]bool{
	TargetAPI:                       true,
	TargetDocumentationItem:         true,
	TargetResource:                  true,
	TargetMethod:                    true,
	TargetResponse:                  true,
	TargetRequestBody:               true,
	TargetResponseBody:              true,
	TargetTypeDeclaration:           true,
	TargetExample:                   true,
	TargetResourceType:              true,
	TargetTrait:                     true,
	TargetSecurityScheme:            true,
	TargetSecuritySchemeSettings:    true,
	TargetAnnotationTypeDeclaration: true,
	TargetLibrary:                   true,
	TargetOverlay:                   true,
	TargetExtension:                 true,
}

// annotationKeyRe matches annotation-marker keys of the form "(name)".
var annotationKeyRe = regexp.MustCompile(`^\((.+)\)$`)

// annotationName extracts the annotation name from a "(name)" key, or
// returns false when the key is not an annotation marker.
func annotationName(key string) (string, bool) {
	m := annotationKeyRe.FindStringSubmatch(strings.TrimSpace(key))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// AnnotationType declares a named annotation, the type of its value, and
// the node kinds it may be applied to. An empty AllowedTargets permits
// every target.
type AnnotationType struct {
	Name           string
	DisplayName    string
	Description    string
	Type           *Type
	AllowedTargets []TargetKind
}

// AllowsTarget reports whether the annotation type may annotate target.
func (at *AnnotationType) AllowsTarget(target TargetKind) bool {
	if len(at.AllowedTargets) == 0 {
		return true
	}
	for _, allowed := range at.AllowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseAnnotationType builds an AnnotationType from its declaration.
// Unknown allowedTargets entries are fatal.
func ParseAnnotationType(name string, definition any) (*AnnotationType, error) {
	at := &AnnotationType{Name: name}

	if s, ok := definition.(string); ok {
		t, err := DetermineType(name, s)
		if err != nil {
			return nil, err
		}
		at.Type = t
		return at, nil
	}

	def, err := asMap(definition)
	if err != nil {
		return nil, &ramlerrors.ParseError{Key: name, Message: "invalid annotation type", Cause: err}
	}
	at.DisplayName = getString(def, "displayName")
	at.Description = getString(def, "description")

	for _, target := range getStringSlice(def, "allowedTargets") {
		kind := TargetKind(target)
		if !validTargets[kind] {
			return nil, &ramlerrors.ParseError{
				Key:     name,
				Message: fmt.Sprintf("invalid annotation target %q", target),
			}
		}
		at.AllowedTargets = append(at.AllowedTargets, kind)
	}

	typeDef := make(map[string]any, len(def))
	for k, v := range def {
		if k != "allowedTargets" {
			typeDef[k] = v
		}
	}
	t, err := DetermineType(name, typeDef)
	if err != nil {
		return nil, err
	}
	at.Type = t
	return at, nil
}

// Annotation is an applied annotation instance: a value attached to a node
// under a declared annotation type.
type Annotation struct {
	Name  string
	Value any
	Type  *AnnotationType
}

// ParseAnnotation validates and builds an annotation applied to a node of
// the given target kind. An undeclared annotation type or a disallowed
// target is fatal.
func ParseAnnotation(name string, value any, target TargetKind, declared map[string]*AnnotationType) (*Annotation, error) {
	at, ok := declared[name]
	if !ok {
		return nil, &ramlerrors.ReferenceError{
			Name:    name,
			Kind:    "annotationType",
			Message: "annotation type is not declared",
		}
	}
	if !at.AllowsTarget(target) {
		return nil, &ramlerrors.ReferenceError{
			Name:    name,
			Kind:    "annotationTarget",
			Message: fmt.Sprintf("annotation %q is not allowed on target %s", name, target),
		}
	}
	return &Annotation{Name: name, Value: value, Type: at}, nil
}

// parseAnnotations collects every "(name)" key in def as an annotation on
// the given target kind, merging over the inherited set (own annotations
// win on name collisions).
func parseAnnotations(def map[string]any, target TargetKind, declared map[string]*AnnotationType, inherited map[string]*Annotation) (map[string]*Annotation, error) {
	annotations := make(map[string]*Annotation, len(inherited))
	for name, a := range inherited {
		annotations[name] = a
	}
	for key, value := range def {
		name, ok := annotationName(key)
		if !ok {
			continue
		}
		a, err := ParseAnnotation(name, value, target, declared)
		if err != nil {
			return nil, err
		}
		annotations[name] = a
	}
	return annotations, nil
}
