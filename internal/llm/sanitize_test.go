package llm

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseExtractionFenceVariants(t *testing.T) {
	want := map[string]any{"full_name": "Jane Doe"}
	cases := []struct {
		name string
		raw  string
	}{
		{"bare json", `{"full_name":"Jane Doe"}`},
		{"json fence", "```json\n{\"full_name\":\"Jane Doe\"}\n```"},
		{"plain fence", "```\n{\"full_name\":\"Jane Doe\"}\n```"},
		{"uppercase tag", "```JSON\n{\"full_name\":\"Jane Doe\"}\n```"},
		{"single line fence", "```json{\"full_name\":\"Jane Doe\"}```"},
		{"surrounding whitespace", "  \n```json\n{\"full_name\":\"Jane Doe\"}\n```\n  "},
		{"no closing fence", "```json\n{\"full_name\":\"Jane Doe\"}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseExtraction(tc.raw)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ParseExtraction(%q) = %v, want %v", tc.raw, got, want)
			}
		})
	}
}

func TestParseExtractionTotality(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not json at all",
		"```",
		"``````",
		"```json\n```",
		`{"unterminated": `,
		`[1, 2, 3]`,
		`"just a string"`,
		"I'm sorry, I cannot read this document.",
	}
	for _, raw := range cases {
		got := ParseExtraction(raw)
		if got == nil {
			t.Fatalf("ParseExtraction(%q) returned nil", raw)
		}
		if got[KeyConfidence] != ConfidenceLow {
			t.Errorf("ParseExtraction(%q): confidence = %v, want low", raw, got[KeyConfidence])
		}
		if got[KeyRawText] != raw {
			t.Errorf("ParseExtraction(%q): raw_text = %v, want original input", raw, got[KeyRawText])
		}
	}
}

func TestParseExtractionRoundTrip(t *testing.T) {
	original := map[string]any{
		"full_name":       "Jane Doe",
		"income":          "85000",
		KeyDescription:    "A payslip for Jane Doe.",
		KeyFieldsFound:    []any{"full_name", "income"},
		KeyFieldsNotFound: []any{"date_of_birth"},
		KeyConfidence:     ConfidenceHigh,
	}
	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	got := ParseExtraction(string(encoded))
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip mismatch: got %v, want %v", got, original)
	}
}

func TestValidateResult(t *testing.T) {
	valid := map[string]any{
		KeyDescription:    "A driving licence.",
		KeyFieldsFound:    []string{"full_name", "id_number"},
		KeyFieldsNotFound: []string{"income"},
		KeyConfidence:     ConfidenceMedium,
	}
	if err := ValidateResult(valid); err != nil {
		t.Errorf("expected valid result, got %v", err)
	}

	missing := map[string]any{"full_name": "Jane Doe"}
	if err := ValidateResult(missing); err == nil {
		t.Error("expected error for result missing metadata fields")
	}

	badConfidence := map[string]any{
		KeyDescription:    "A driving licence.",
		KeyFieldsFound:    []string{},
		KeyFieldsNotFound: []string{},
		KeyConfidence:     "certain",
	}
	if err := ValidateResult(badConfidence); err == nil {
		t.Error("expected error for unknown confidence value")
	}
}
