package tokens

import (
	"context"
	"fmt"
)

type store interface {
	Balance(ctx context.Context, brokerID string) (int, error)
	Apply(ctx context.Context, brokerID string, amount int, action ActionType, description string) (Transaction, error)
	Transactions(ctx context.Context, brokerID string) ([]Transaction, error)
}

// Service manages broker token balances and the transaction ledger via an
// underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return &Service{store: NewMemoryStore()}
}

// NewServiceWithStore constructs a Service over an explicit store, such as
// the Postgres store or a pre-seeded memory store.
func NewServiceWithStore(st store) *Service {
	return &Service{store: st}
}

// Balance returns the broker's current token balance.
func (s *Service) Balance(ctx context.Context, brokerID string) (int, error) {
	return s.store.Balance(ctx, brokerID)
}

// HasMinimumBalance reports whether the broker holds enough tokens to start a
// submission, along with the current balance.
func (s *Service) HasMinimumBalance(ctx context.Context, brokerID string) (bool, int, error) {
	balance, err := s.store.Balance(ctx, brokerID)
	if err != nil {
		return false, 0, err
	}
	return balance >= MinimumBalance, balance, nil
}

// ChargeOnboarding deducts the flat per-submission fee.
func (s *Service) ChargeOnboarding(ctx context.Context, brokerID, clientName string) (Transaction, error) {
	desc := fmt.Sprintf("Client onboarding: %s", clientName)
	return s.store.Apply(ctx, brokerID, -FeeOnboarding, ActionOnboarding, desc)
}

// ChargeAIScan deducts the per-document extraction fee.
func (s *Service) ChargeAIScan(ctx context.Context, brokerID, documentName string) (Transaction, error) {
	desc := fmt.Sprintf("AI document scan: %s", documentName)
	return s.store.Apply(ctx, brokerID, -FeeAIScan, ActionAIScan, desc)
}

// Credit adds tokens to a broker balance, for purchases and allocations.
func (s *Service) Credit(ctx context.Context, brokerID string, amount int, action ActionType, description string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	return s.store.Apply(ctx, brokerID, amount, action, description)
}

// Transactions returns the broker's ledger, newest first.
func (s *Service) Transactions(ctx context.Context, brokerID string) ([]Transaction, error) {
	return s.store.Transactions(ctx, brokerID)
}
