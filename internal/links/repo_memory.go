package links

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of LinksRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Link // token -> link
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Link),
	}
}

// Create stores a new link keyed by token.
func (r *MemoryRepo) Create(ctx context.Context, link Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[link.Token] = link
	return nil
}

// GetByToken returns the link for a token.
func (r *MemoryRepo) GetByToken(ctx context.Context, token string) (Link, error) {
	if err := ctx.Err(); err != nil {
		return Link{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.data[token]
	if !ok {
		return Link{}, ErrNotFound
	}
	return link, nil
}

// IncrementSubmissions bumps the submission counter.
func (r *MemoryRepo) IncrementSubmissions(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.data[token]
	if !ok {
		return ErrNotFound
	}
	link.SubmissionsCount++
	r.data[token] = link
	return nil
}

// UpdateStatus changes the link lifecycle state.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, token string, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.data[token]
	if !ok {
		return ErrNotFound
	}
	link.Status = status
	r.data[token] = link
	return nil
}

var _ LinksRepo = (*MemoryRepo)(nil)
