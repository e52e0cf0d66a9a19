package llm

import "strings"

// StandardFields is the fixed set of optional personal/financial fields the
// model is asked to extract from every document.
var StandardFields = []string{
	"full_name",
	"date_of_birth",
	"address",
	"phone",
	"email",
	"id_number",
	"employer",
	"income",
	"expiration_date",
	"other",
}

// BuildExtractionPrompt returns the instruction block shared by the vision
// and text extraction paths. The four metadata fields are mandatory no matter
// how little substantive data the model finds.
func BuildExtractionPrompt() string {
	parts := []string{
		"You are a document analyst for a client-onboarding service.",
		"Extract the following fields from the document if present: " + strings.Join(StandardFields, ", ") + ".",
		"Use 'other' as a free-form bucket for relevant data that fits no listed field.",
		"Regardless of how much you find, ALWAYS include these four fields:",
		"'document_description': one or two sentences describing what the document is;",
		"'fields_found': the list of field names you extracted;",
		"'fields_not_found': the field names from the standard set you looked for but did not find;",
		"'extraction_confidence': exactly one of \"high\", \"medium\" or \"low\".",
		"Omit fields you did not find. Never output null.",
		"Return ONLY a JSON object. No prose, no markdown, no code fences.",
	}
	return strings.Join(parts, " ")
}

// BuildTextUserPrompt wraps extracted document text for the text-only path.
func BuildTextUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Document text:\n")
	b.WriteString(TruncateText(text))
	return b.String()
}
