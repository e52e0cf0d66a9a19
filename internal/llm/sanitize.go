package llm

import (
	"encoding/json"
	"strings"
)

// ParseExtraction converts a raw model response into a structured map. It is
// total over arbitrary input: wrapper fences are stripped, the remainder is
// parsed as JSON, and anything unparsable degrades to a raw_text map with low
// confidence. It never returns nil and never panics.
func ParseExtraction(raw string) map[string]any {
	cleaned := StripCodeFences(raw)
	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err == nil && m != nil {
		return m
	}
	return map[string]any{
		KeyRawText:     raw,
		KeyDescription: "Model response could not be parsed as structured data.",
		KeyConfidence:  ConfidenceLow,
	}
}

// StripCodeFences removes a leading markdown fence (with or without a
// language tag) and a trailing fence, if present.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if strings.HasPrefix(strings.ToLower(s), "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}
