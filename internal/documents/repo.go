package documents

import (
	"context"
	"time"
)

// DocumentsRepo defines persistence operations for document records.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// Finalize marks the document completed and writes the extraction
	// outcome. Extracted may be nil when nothing was extracted.
	Finalize(ctx context.Context, id string, extracted map[string]any, at time.Time) error
	ListByClient(ctx context.Context, clientID string) ([]Document, error)
}
