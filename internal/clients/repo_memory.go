package clients

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of ClientsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Client // id -> client
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Client),
	}
}

// Create stores a new client record.
func (r *MemoryRepo) Create(ctx context.Context, client Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[client.ID] = client
	return nil
}

// GetByID returns a client by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Client, error) {
	if err := ctx.Err(); err != nil {
		return Client{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.data[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return client, nil
}

// Update replaces the stored client record.
func (r *MemoryRepo) Update(ctx context.Context, client Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[client.ID]; !ok {
		return ErrNotFound
	}
	r.data[client.ID] = client
	return nil
}

// ListByBroker returns a broker's clients, newest first.
func (r *MemoryRepo) ListByBroker(ctx context.Context, brokerID string) ([]Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Client
	for _, client := range r.data {
		if client.BrokerID == brokerID {
			out = append(out, client)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ ClientsRepo = (*MemoryRepo)(nil)
