package parser

import (
	"github.com/erraggy/ramltools/internal/maputil"
	"github.com/erraggy/ramltools/ramlerrors"
)

// TypeRegistry maps declared type names to their [Type] instances for a
// single parse. It is a plain value owned by the [APIDefinition], not
// process state: concurrent parses each get their own registry, and a
// registry is cleared at the start of every top-level parse so a prior
// document's types never leak into a new one.
//
// Declarations may reference names registered later; after every
// declaration is registered, [TypeRegistry.ApplyInheritance] resolves all
// [KindReference] placeholders in place and merges inherited facets.
type TypeRegistry struct {
	entries map[string]*Type
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{entries: make(map[string]*Type)}
}

// Clear removes every registered type.
func (r *TypeRegistry) Clear() {
	r.entries = make(map[string]*Type)
}

// Add registers t under name, replacing any previous registration.
func (r *TypeRegistry) Add(name string, t *Type) {
	r.entries[name] = t
}

// Get returns the type registered under name.
func (r *TypeRegistry) Get(name string) (*Type, bool) {
	t, ok := r.entries[name]
	return t, ok
}

// Names returns the registered type names in sorted order.
func (r *TypeRegistry) Names() []string {
	return maputil.SortedKeys(r.entries)
}

// Count returns the number of registered types.
func (r *TypeRegistry) Count() int {
	return len(r.entries)
}

// ApplyInheritance resolves every [KindReference] placeholder reachable
// from a registered type and merges inherited facets from named parents
// into their children. It runs once per parse, after all declarations are
// registered and before resources or methods consume any type.
//
// Resolution mutates each placeholder in place, so holders that captured a
// *Type before resolution (object properties, array items, union members)
// observe the resolved form without any graph rewriting. An unresolvable
// name or an inheritance cycle is a fatal *ramlerrors.ReferenceError.
func (r *TypeRegistry) ApplyInheritance() error {
	for _, name := range maputil.SortedKeys(r.entries) {
		if err := r.resolveType(r.entries[name], map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

// resolveType resolves t and every placeholder nested inside it.
func (r *TypeRegistry) resolveType(t *Type, visiting map[string]bool) error {
	switch t.Kind {
	case KindReference:
		return r.resolveReference(t, visiting)
	case KindObject:
		for _, prop := range t.Properties {
			if err := r.resolveType(prop, visiting); err != nil {
				return err
			}
		}
	case KindArray:
		if t.Items != nil {
			return r.resolveType(t.Items, visiting)
		}
	case KindUnion:
		for _, member := range t.OneOf {
			if err := r.resolveType(member, visiting); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveReference resolves a single placeholder: the parent is looked up,
// resolved first if it is itself a placeholder, then merged with the
// child's own facets and written back over the placeholder.
//
// The visiting set tracks registry names on the inheritance walk, never
// declaration names: a property whose name collides with a registered
// type must not trip cycle detection.
//
// A placeholder with no facets of its own (a pure alias, such as an object
// property declared simply as "Song") becomes a renamed copy of the parent
// without re-determination or cycle bookkeeping. This also terminates
// legal self-recursive object shapes, since the copy shares the parent's
// property map instead of rebuilding it.
func (r *TypeRegistry) resolveReference(t *Type, visiting map[string]bool) error {
	parent, ok := r.entries[t.TargetName]
	if !ok {
		return &ramlerrors.ReferenceError{
			Name:    t.TargetName,
			Kind:    "type",
			Message: "referenced type is not declared",
		}
	}
	if parent.Kind == KindReference {
		if visiting[t.TargetName] {
			return circularReference(t.TargetName)
		}
		visiting[t.TargetName] = true
		err := r.resolveReference(parent, visiting)
		delete(visiting, t.TargetName)
		if err != nil {
			return err
		}
	}

	if isPureAlias(t.raw) {
		merged := *parent
		merged.Name = t.Name
		merged.Required = t.Required
		*t = merged
		return nil
	}

	if visiting[t.TargetName] {
		return circularReference(t.TargetName)
	}
	visiting[t.TargetName] = true
	defer delete(visiting, t.TargetName)

	merged, err := r.merge(parent, t, visiting)
	if err != nil {
		return err
	}
	*t = *merged
	return nil
}

// circularReference builds the fatal error for an inheritance cycle
// through the named registry entry.
func circularReference(name string) error {
	return &ramlerrors.ReferenceError{
		Name:       name,
		Kind:       "type",
		IsCircular: true,
		Message:    "type inheritance forms a cycle",
	}
}

// isPureAlias reports whether a placeholder's definition carries nothing
// beyond the reference itself and an optionality override.
func isPureAlias(raw map[string]any) bool {
	for k := range raw {
		if k != "type" && k != "required" {
			return false
		}
	}
	return true
}

// merge produces the child type that results from extending parent with
// the child placeholder's own declared facets. Child facets override
// inherited ones; unset child facets take the parent's value. Object
// properties are merged per property rather than replaced wholesale.
func (r *TypeRegistry) merge(parent, child *Type, visiting map[string]bool) (*Type, error) {
	// Embedded schemas carry no mergeable facet map; the child becomes a
	// renamed copy of the parent.
	if parent.Kind == KindJSONSchema || parent.Kind == KindXMLSchema {
		merged := *parent
		merged.Name = child.Name
		merged.Required = child.Required
		if d := getString(child.raw, "description"); d != "" {
			merged.Description = d
		}
		return &merged, nil
	}

	mergedRaw := make(map[string]any, len(parent.raw)+len(child.raw))
	for k, v := range parent.raw {
		if k != "type" {
			mergedRaw[k] = v
		}
	}
	for k, v := range child.raw {
		if k == "type" {
			continue
		}
		if k == "properties" {
			if parentProps, ok := mergedRaw["properties"]; ok {
				combined, err := mergeProperties(parentProps, v)
				if err != nil {
					return nil, err
				}
				mergedRaw[k] = combined
				continue
			}
		}
		mergedRaw[k] = v
	}

	keyword := getString(parent.raw, "type")
	if keyword == "" {
		keyword = parent.Kind.String()
	}
	mergedRaw["type"] = keyword

	merged, err := DetermineType(child.Name, mergedRaw)
	if err != nil {
		return nil, err
	}
	// Optionality belongs to the referencing declaration: a "?" marker on
	// the child survives re-determination unless required was declared
	// explicitly.
	if _, ok := child.raw["required"]; !ok {
		merged.Required = child.Required
	}
	// The merged result may itself contain fresh placeholders (the parent
	// chain, union members, array items); resolve them before handing it
	// back so no consumer ever observes an unresolved reference.
	if err := r.resolveType(merged, visiting); err != nil {
		return nil, err
	}
	return merged, nil
}

// mergeProperties overlays the child's property declarations on the
// parent's, child winning on name collisions.
func mergeProperties(parentProps, childProps any) (map[string]any, error) {
	pm, err := asMap(parentProps)
	if err != nil {
		return nil, err
	}
	cm, err := asMap(childProps)
	if err != nil {
		return nil, err
	}
	combined := make(map[string]any, len(pm)+len(cm))
	for k, v := range pm {
		combined[k] = v
	}
	for k, v := range cm {
		combined[k] = v
	}
	return combined, nil
}
