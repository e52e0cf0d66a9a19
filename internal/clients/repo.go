package clients

import "context"

// ClientsRepo defines persistence operations for client records.
type ClientsRepo interface {
	Create(ctx context.Context, client Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	Update(ctx context.Context, client Client) error
	ListByBroker(ctx context.Context, brokerID string) ([]Client, error)
}
