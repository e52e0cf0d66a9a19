package llm

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// extractionSchema mirrors the prompt contract: the four metadata fields must
// be present and well-typed. Substantive fields are free-form by design.
const extractionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["document_description", "fields_found", "fields_not_found", "extraction_confidence"],
  "properties": {
    "document_description": {"type": "string", "minLength": 1},
    "fields_found": {"type": "array", "items": {"type": "string"}},
    "fields_not_found": {"type": "array", "items": {"type": "string"}},
    "extraction_confidence": {"enum": ["high", "medium", "low"]}
  }
}`

var compiledSchema = jsonschema.MustCompileString("extraction.schema.json", extractionSchema)

// ValidateResult checks a parsed extraction map against the prompt contract.
// A failure means the model skipped mandatory metadata; callers log it and
// keep the map, since partial data still has value downstream.
func ValidateResult(m map[string]any) error {
	return compiledSchema.Validate(toJSONValue(m))
}

// toJSONValue rewrites a map into the plain JSON value types the validator
// expects. Values produced by encoding/json already qualify; this guards maps
// assembled by hand in tests and fallbacks.
func toJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = toJSONValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = toJSONValue(val)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = val
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}
