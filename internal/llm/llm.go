package llm

import (
	"context"
	"errors"
	"unicode/utf8"
)

// Confidence tiers the extraction model self-reports.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Metadata keys the model is required to populate on every response, plus the
// key used when a response degrades to raw text.
const (
	KeyDescription    = "document_description"
	KeyFieldsFound    = "fields_found"
	KeyFieldsNotFound = "fields_not_found"
	KeyConfidence     = "extraction_confidence"
	KeyRawText        = "raw_text"
)

// MaxTextChars bounds the document text sent to the model per call.
const MaxTextChars = 8000

// Client abstracts the extraction model provider. Both methods return the raw
// text of the model response; callers must run it through ParseExtraction
// because the model is never trusted to return valid JSON.
type Client interface {
	ExtractFromImage(ctx context.Context, mimeType string, data []byte) (string, error)
	ExtractFromText(ctx context.Context, text string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub used when no provider is configured.
type PlaceholderClient struct{}

func (PlaceholderClient) ExtractFromImage(ctx context.Context, mimeType string, data []byte) (string, error) {
	_ = ctx
	_ = mimeType
	_ = data
	return "", ErrNotConfigured
}

func (PlaceholderClient) ExtractFromText(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", ErrNotConfigured
}

// TruncateText bounds text to MaxTextChars, backing off to a rune boundary
// so the cut never produces invalid UTF-8.
func TruncateText(text string) string {
	if len(text) <= MaxTextChars {
		return text
	}
	cut := MaxTextChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

var _ Client = PlaceholderClient{}
