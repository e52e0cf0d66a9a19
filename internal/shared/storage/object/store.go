package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
// Upload failures are per-call: callers decide whether a failed upload aborts
// their work or is skipped.
type ObjectStore interface {
	Upload(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	PublicURL(storageKey string) string
}
