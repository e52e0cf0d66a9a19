package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    client_id,
    broker_id,
    file_name,
    storage_path,
    storage_url,
    file_type,
    document_type,
    status,
    ai_extracted_data,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	extracted, err := marshalExtracted(doc.AIExtractedData)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.ClientID,
		doc.BrokerID,
		doc.FileName,
		doc.StoragePath,
		doc.StorageURL,
		string(doc.FileType),
		doc.DocumentType,
		string(doc.Status),
		extracted,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID returns a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT id, client_id, broker_id, file_name, storage_path, storage_url,
       file_type, document_type, status, ai_extracted_data, created_at, updated_at
FROM documents WHERE id = $1`

	row := r.DB.QueryRowContext(ctx, query, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Finalize marks a document completed with its extraction outcome.
func (r *PGRepo) Finalize(ctx context.Context, id string, extracted map[string]any, at time.Time) error {
	payload, err := marshalExtracted(extracted)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
UPDATE documents SET status = $2, ai_extracted_data = $3, updated_at = $4 WHERE id = $1`,
		id, string(StatusCompleted), payload, at)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByClient returns a client's documents, oldest first.
func (r *PGRepo) ListByClient(ctx context.Context, clientID string) ([]Document, error) {
	const query = `
SELECT id, client_id, broker_id, file_name, storage_path, storage_url,
       file_type, document_type, status, ai_extracted_data, created_at, updated_at
FROM documents WHERE client_id = $1 ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var fileType, status string
	var extracted []byte
	err := row.Scan(
		&doc.ID,
		&doc.ClientID,
		&doc.BrokerID,
		&doc.FileName,
		&doc.StoragePath,
		&doc.StorageURL,
		&fileType,
		&doc.DocumentType,
		&status,
		&extracted,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.FileType = FileType(fileType)
	doc.Status = Status(status)
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &doc.AIExtractedData); err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

// marshalExtracted keeps nil maps as SQL NULL so "nothing extracted" stays
// distinguishable from an empty result.
func marshalExtracted(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

var _ DocumentsRepo = (*PGRepo)(nil)
