// Package structured turns free-form model output into typed values.
//
// Models are asked for a single JSON object but routinely wrap it in prose
// or code fences. Decode tries the raw text first, then the outermost
// {...} block, and validates the result against a JSON schema before
// unmarshalling into the caller's struct.
package structured

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ParseError reports model output that could not be turned into the
// expected shape. Raw is kept for traces and logs.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model output: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled JSON schema
type Schema struct {
	compiled *gojsonschema.Schema
}

// MustSchema compiles a schema literal and panics when it is invalid.
// Schemas are package-level constants, so a bad one is a programming error.
func MustSchema(doc string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("structured: invalid schema: %v", err))
	}
	return &Schema{compiled: s}
}

// Validate checks an already decoded document
func (s *Schema) Validate(doc interface{}) error {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// ExtractObject returns the outermost {...} block of text, or "" when there is none
func ExtractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

// Decode parses raw into out. schema may be nil.
func Decode(raw string, schema *Schema, out interface{}) error {
	doc, err := parseObject(raw)
	if err != nil {
		return &ParseError{Raw: raw, Cause: err}
	}

	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return &ParseError{Raw: raw, Cause: err}
		}
	}

	// Re-marshal the validated generic document so the struct decode sees exactly what was checked.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return &ParseError{Raw: raw, Cause: err}
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return &ParseError{Raw: raw, Cause: err}
	}
	return nil
}

func parseObject(raw string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), &doc); err == nil && doc != nil {
		return doc, nil
	}

	block := ExtractObject(trimmed)
	if block == "" {
		return nil, fmt.Errorf("no JSON object found")
	}
	doc = nil
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("JSON value is not an object")
	}
	return doc, nil
}
