package clients

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements ClientsRepo using Postgres. FormData and AIExtractedData
// live in JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new client record.
func (r *PGRepo) Create(ctx context.Context, client Client) error {
	const query = `
INSERT INTO clients (
    id,
    broker_id,
    link_token,
    full_name,
    email,
    phone,
    status,
    onboarding_progress,
    documents_required,
    documents_submitted,
    form_data,
    ai_extracted_data,
    created_at,
    updated_at,
    completed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	formData, err := marshalJSONB(client.FormData)
	if err != nil {
		return err
	}
	extracted, err := marshalJSONB(client.AIExtractedData)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		client.ID,
		client.BrokerID,
		client.LinkToken,
		client.FullName,
		client.Email,
		client.Phone,
		string(client.Status),
		client.OnboardingProgress,
		client.DocumentsRequired,
		client.DocumentsSubmitted,
		formData,
		extracted,
		client.CreatedAt,
		client.UpdatedAt,
		client.CompletedAt,
	)
	return err
}

// GetByID returns a client by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Client, error) {
	const query = `
SELECT id, broker_id, link_token, full_name, email, phone, status,
       onboarding_progress, documents_required, documents_submitted,
       form_data, ai_extracted_data, created_at, updated_at, completed_at
FROM clients WHERE id = $1`

	row := r.DB.QueryRowContext(ctx, query, id)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return client, nil
}

// Update replaces the mutable fields of a client record.
func (r *PGRepo) Update(ctx context.Context, client Client) error {
	const query = `
UPDATE clients SET
    full_name = $2,
    email = $3,
    phone = $4,
    status = $5,
    onboarding_progress = $6,
    documents_required = $7,
    documents_submitted = $8,
    form_data = $9,
    ai_extracted_data = $10,
    updated_at = $11,
    completed_at = $12
WHERE id = $1`

	formData, err := marshalJSONB(client.FormData)
	if err != nil {
		return err
	}
	extracted, err := marshalJSONB(client.AIExtractedData)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		client.ID,
		client.FullName,
		client.Email,
		client.Phone,
		string(client.Status),
		client.OnboardingProgress,
		client.DocumentsRequired,
		client.DocumentsSubmitted,
		formData,
		extracted,
		client.UpdatedAt,
		client.CompletedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByBroker returns a broker's clients, newest first.
func (r *PGRepo) ListByBroker(ctx context.Context, brokerID string) ([]Client, error) {
	const query = `
SELECT id, broker_id, link_token, full_name, email, phone, status,
       onboarding_progress, documents_required, documents_submitted,
       form_data, ai_extracted_data, created_at, updated_at, completed_at
FROM clients WHERE broker_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, brokerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, client)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (Client, error) {
	var client Client
	var status string
	var formData, extracted []byte
	var completedAt sql.NullTime
	err := row.Scan(
		&client.ID,
		&client.BrokerID,
		&client.LinkToken,
		&client.FullName,
		&client.Email,
		&client.Phone,
		&status,
		&client.OnboardingProgress,
		&client.DocumentsRequired,
		&client.DocumentsSubmitted,
		&formData,
		&extracted,
		&client.CreatedAt,
		&client.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return Client{}, err
	}
	client.Status = Status(status)
	if completedAt.Valid {
		t := completedAt.Time
		client.CompletedAt = &t
	}
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &client.FormData); err != nil {
			return Client{}, err
		}
	}
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &client.AIExtractedData); err != nil {
			return Client{}, err
		}
	}
	return client, nil
}

func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

var _ ClientsRepo = (*PGRepo)(nil)
