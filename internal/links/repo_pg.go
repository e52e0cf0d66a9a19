package links

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements LinksRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new link.
func (r *PGRepo) Create(ctx context.Context, link Link) error {
	const query = `
INSERT INTO onboarding_links (token, broker_id, status, expires_at, max_submissions, submissions_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		link.Token,
		link.BrokerID,
		string(link.Status),
		link.ExpiresAt,
		link.MaxSubmissions,
		link.SubmissionsCount,
		link.CreatedAt,
	)
	return err
}

// GetByToken returns the link for a token.
func (r *PGRepo) GetByToken(ctx context.Context, token string) (Link, error) {
	const query = `
SELECT token, broker_id, status, expires_at, max_submissions, submissions_count, created_at
FROM onboarding_links WHERE token = $1`

	var link Link
	var status string
	row := r.DB.QueryRowContext(ctx, query, token)
	err := row.Scan(&link.Token, &link.BrokerID, &status, &link.ExpiresAt, &link.MaxSubmissions, &link.SubmissionsCount, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Link{}, ErrNotFound
		}
		return Link{}, err
	}
	link.Status = Status(status)
	return link, nil
}

// IncrementSubmissions bumps the submission counter.
func (r *PGRepo) IncrementSubmissions(ctx context.Context, token string) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE onboarding_links SET submissions_count = submissions_count + 1 WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus changes the link lifecycle state.
func (r *PGRepo) UpdateStatus(ctx context.Context, token string, status Status) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE onboarding_links SET status = $1 WHERE token = $2`, string(status), token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ LinksRepo = (*PGRepo)(nil)
