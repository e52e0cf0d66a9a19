package tokens

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed token store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Balance(ctx context.Context, brokerID string) (int, error) {
	var balance int
	row := s.DB.QueryRowContext(ctx, `
SELECT token_balance FROM brokers WHERE id = $1`, brokerID)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBrokerNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Apply deducts or credits the balance and appends the ledger entry in one
// transaction, so concurrent submissions for the same broker never lose an
// update.
func (s *pgStore) Apply(ctx context.Context, brokerID string, amount int, action ActionType, description string) (Transaction, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Transaction{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var balance int
	row := tx.QueryRowContext(ctx, `
UPDATE brokers SET token_balance = token_balance + $1 WHERE id = $2 RETURNING token_balance`, amount, brokerID)
	if err = row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrBrokerNotFound
		}
		return Transaction{}, err
	}

	txn := Transaction{
		BrokerID:     brokerID,
		Amount:       amount,
		ActionType:   action,
		Description:  description,
		BalanceAfter: balance,
	}
	row = tx.QueryRowContext(ctx, `
INSERT INTO token_transactions (broker_id, amount, action_type, description, balance_after)
VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		brokerID, amount, string(action), description, balance)
	if err = row.Scan(&txn.ID, &txn.CreatedAt); err != nil {
		return Transaction{}, err
	}
	if err = tx.Commit(); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

func (s *pgStore) Transactions(ctx context.Context, brokerID string) ([]Transaction, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, broker_id, amount, action_type, description, balance_after, created_at
FROM token_transactions WHERE broker_id = $1 ORDER BY id DESC`, brokerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var txn Transaction
		var action string
		if err := rows.Scan(&txn.ID, &txn.BrokerID, &txn.Amount, &action, &txn.Description, &txn.BalanceAfter, &txn.CreatedAt); err != nil {
			return nil, err
		}
		txn.ActionType = ActionType(action)
		out = append(out, txn)
	}
	return out, rows.Err()
}
