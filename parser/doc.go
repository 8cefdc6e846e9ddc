// Package parser parses RAML 0.8 and 1.0 API description documents into a
// typed, cross-referenced object graph.
//
// The entry points are [Parse], [ParseWithOptions], and [ParseMap] for
// callers that have already decoded the document into generic maps. The
// first two produce a [ParseResult] whose API field holds the
// [APIDefinition] root.
//
// # Type System
//
// RAML data types are represented by [Type], a tagged variant over the fixed
// set of RAML kinds (string, number, object, array, union, and so on).
// Named type declarations live in a [TypeRegistry] owned by the
// [APIDefinition]; declarations may reference each other in any order.
// References to names that are not yet resolvable are represented as
// [KindReference] placeholders, and [TypeRegistry.ApplyInheritance] resolves
// every placeholder and merges inherited facets before resources and methods
// are parsed. The registry is a per-parse value, not process state, so
// concurrent parses never share mutable type tables.
//
// # Resource Tree
//
// Resources form a tree keyed by URI segment. Construction is top-down:
// each child receives an explicit inherited context (base URI parameters,
// security schemes, URI parameters, annotations) from its parent, and its
// own declarations override the inherited values.
//
// # Validation
//
// [Type.Validate] checks a runtime value against the resolved type's
// constraints, reporting failures as *ramlerrors.ValidationError with the
// offending property name and a constraint description.
package parser
