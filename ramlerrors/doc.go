// Package ramlerrors provides structured error types for ramltools.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: malformed documents and definition fragments
//   - ReferenceError: undeclared or circular named references
//   - ValidationError: a value violating a declared type constraint
//   - NotFoundError: resource or method lookup misses
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("api.raml"))
//	if err != nil {
//	    var refErr *ramlerrors.ReferenceError
//	    if errors.As(err, &refErr) {
//	        if refErr.IsCircular {
//	            // Handle circular type inheritance specifically
//	        }
//	    }
//	}
package ramlerrors
