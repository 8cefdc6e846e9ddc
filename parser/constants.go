package parser

// Parameter location constants (used when parsing named parameters)
const (
	// ParamInQuery indicates the parameter is passed in the query string
	ParamInQuery = "query"
	// ParamInHeader indicates the parameter is passed in a request header
	ParamInHeader = "header"
	// ParamInURI indicates the parameter is part of the URI template
	ParamInURI = "uri"
	// ParamInBaseURI indicates the parameter is part of the base URI template
	ParamInBaseURI = "baseUri"
)

// Protocol constants (the only values allowed in the protocols list)
const (
	// ProtocolHTTP is the plain HTTP protocol
	ProtocolHTTP = "HTTP"
	// ProtocolHTTPS is the TLS-secured HTTP protocol
	ProtocolHTTPS = "HTTPS"
)

// httpVerbs is the set of HTTP methods recognized as method keys on a
// resource definition. Keys are upper-case; lookups normalize first.
var httpVerbs = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"HEAD":    true,
	"OPTIONS": true,
	"TRACE":   true,
}

// schemaRootElement is the sentinel root-element name used for embedded
// XML and JSON schemas. Root element naming is structural, not caller
// supplied, so embedded schemas never take the declaration's name.
const schemaRootElement = "root"
