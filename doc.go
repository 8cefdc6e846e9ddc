// Package ramltools provides tools for working with RAML API description documents.
//
// ramltools parses RAML 0.8 and 1.0 documents into a typed, cross-referenced
// model of an API: resources, methods, parameters, security schemes, and a
// data-type system with inheritance, unions, arrays, and forward references.
//
// # Overview
//
// The library consists of two primary packages:
//
//   - parser: Parse RAML documents into an APIDefinition object graph
//   - ramlerrors: Structured error types for programmatic error handling
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/ramltools
//
// # Quick Start
//
// Parse a RAML specification:
//
//	import "github.com/erraggy/ramltools/parser"
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("api.raml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Title: %s\n", result.API.Title)
//
// Query the parsed resource tree:
//
//	res, err := result.API.ResourceByURI("/songs/123")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Matched: %s\n", res.URI)
//
// # Error Handling
//
// All errors returned by this library can be inspected with errors.Is and
// errors.As using the types in the ramlerrors package:
//
//	if errors.Is(err, ramlerrors.ErrNotFound) {
//		// lookup miss, not a malformed document
//	}
package ramltools
