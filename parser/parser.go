package parser

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/ramltools/ramlerrors"
)

// Parser handles RAML specification parsing
type Parser struct {
	// RequireHeader makes a missing "#%RAML" header line fatal. When
	// false (the default) a missing header produces a warning and the
	// document is treated as RAML 1.0. A present-but-malformed header is
	// always fatal.
	RequireHeader bool
	// ValidateValues checks declared defaults and examples against their
	// types after parsing. Failures are reported as warnings on the
	// result, never as errors.
	ValidateValues bool
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source RAML specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// detectFormatFromPath detects the source format from a file path
func detectFormatFromPath(path string) SourceFormat {
	switch filepath.Ext(path) {
	case ".json":
		return SourceFormatJSON
	case ".raml", ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent attempts to detect the format from the content bytes
// JSON typically starts with '{' or '[', while YAML (and the RAML header) do not
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// ParseResult contains the parsed RAML specification and metadata.
//
// Callers should treat ParseResult as read-only after parsing; the object
// graph is shared, not deep-copied, between the registry and the resource
// tree by design.
type ParseResult struct {
	// API is the root of the parsed object graph.
	API *APIDefinition
	// SourcePath is the input source the document was read from
	// ("<reader>" or "<bytes>" for non-file sources).
	SourcePath string
	// SourceFormat is the detected input format.
	SourceFormat SourceFormat
	// RAMLVersion is the header-declared version ("0.8" or "1.0").
	RAMLVersion string
	// Fragment is the header-declared document subtype.
	Fragment Fragment
	// Duration is the wall-clock time the parse took.
	Duration time.Duration
	// Warnings lists non-fatal oddities encountered while parsing.
	Warnings []string
}

// Parse parses a RAML specification from a file path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path is caller-provided input
	if err != nil {
		return nil, &ramlerrors.ParseError{Path: path, Message: "failed to read file", Cause: err}
	}
	result, err := p.ParseBytes(data)
	if result != nil {
		result.SourcePath = path
		if f := detectFormatFromPath(path); f != SourceFormatUnknown {
			result.SourceFormat = f
		}
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// ParseReader parses a RAML specification from an io.Reader.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ramlerrors.ParseError{Path: "<reader>", Message: "failed to read input", Cause: err}
	}
	result, perr := p.ParseBytes(data)
	if result != nil && result.SourcePath == "" {
		result.SourcePath = "<reader>"
	}
	return result, perr
}

// ParseBytes parses a RAML specification from raw bytes: the header line
// is consumed first, then the document is decoded (YAML via yaml/v4, JSON
// via goccy/go-json) and handed to [ParseMap].
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	start := time.Now()
	result := &ParseResult{
		SourcePath:   "<bytes>",
		SourceFormat: detectFormatFromContent(data),
		RAMLVersion:  "1.0",
		Fragment:     FragmentDefault,
	}

	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\n\r"), []byte(headerPrefix)) {
		line, _, _ := bytes.Cut(bytes.TrimLeft(data, " \t\n\r"), []byte("\n"))
		header, err := ParseHeader(string(line))
		if err != nil {
			return nil, err
		}
		result.RAMLVersion = header.Version
		result.Fragment = header.Fragment
	} else if p.RequireHeader {
		return nil, &ramlerrors.ParseError{
			Message: "document does not begin with a #%RAML header",
		}
	} else {
		result.Warnings = append(result.Warnings, "missing #%RAML header; assuming RAML 1.0")
	}

	doc := make(map[string]any)
	switch result.SourceFormat {
	case SourceFormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ramlerrors.ParseError{Message: "failed to decode JSON document", Cause: err}
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ramlerrors.ParseError{Message: "failed to decode YAML document", Cause: err}
		}
	}

	p.log().Debug("document decoded", "format", result.SourceFormat, "keys", len(doc))

	api, err := ParseMap(doc)
	if err != nil {
		return nil, err
	}
	api.RAMLVersion = result.RAMLVersion
	api.Fragment = result.Fragment
	result.API = api

	if p.ValidateValues {
		for _, verr := range api.ValidateDeclaredValues() {
			result.Warnings = append(result.Warnings, verr.Error())
		}
	}
	result.Duration = time.Since(start)

	p.log().Debug("parse complete",
		"title", api.Title,
		"types", api.Types.Count(),
		"resources", len(api.Resources),
		"duration", result.Duration)
	return result, nil
}

// Parse is a convenience wrapper for New().Parse(path).
func Parse(path string) (*ParseResult, error) {
	return New().Parse(path)
}
