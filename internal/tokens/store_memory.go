package tokens

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps balances and ledger entries in memory. Used for local
// development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	balances map[string]int
	ledger   map[string][]Transaction
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances: make(map[string]int),
		ledger:   make(map[string][]Transaction),
	}
}

// SetBalance registers a broker with the given balance, replacing any
// existing balance. The ledger is left untouched.
func (s *MemoryStore) SetBalance(brokerID string, balance int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[brokerID] = balance
}

func (s *MemoryStore) Balance(ctx context.Context, brokerID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance, ok := s.balances[brokerID]
	if !ok {
		return 0, ErrBrokerNotFound
	}
	return balance, nil
}

func (s *MemoryStore) Apply(ctx context.Context, brokerID string, amount int, action ActionType, description string) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[brokerID]
	if !ok {
		return Transaction{}, ErrBrokerNotFound
	}
	balance += amount
	s.balances[brokerID] = balance
	s.nextID++
	txn := Transaction{
		ID:           s.nextID,
		BrokerID:     brokerID,
		Amount:       amount,
		ActionType:   action,
		Description:  description,
		BalanceAfter: balance,
		CreatedAt:    time.Now().UTC(),
	}
	s.ledger[brokerID] = append(s.ledger[brokerID], txn)
	return txn, nil
}

func (s *MemoryStore) Transactions(ctx context.Context, brokerID string) ([]Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.ledger[brokerID]
	out := make([]Transaction, len(entries))
	for i, txn := range entries {
		out[len(entries)-1-i] = txn
	}
	return out, nil
}
