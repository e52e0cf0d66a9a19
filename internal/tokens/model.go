package tokens

import "time"

// ActionType labels what a ledger entry paid for.
type ActionType string

const (
	ActionOnboarding ActionType = "onboarding"
	ActionAIScan     ActionType = "ai_scan"
	ActionPurchase   ActionType = "purchase"
	ActionAllocation ActionType = "allocation"
	ActionAdminAdd   ActionType = "admin_add"
	ActionEmail      ActionType = "email"
	ActionForm       ActionType = "form"
)

// Fee schedule, in tokens. MinimumBalance is the floor a broker must hold
// before a new submission is accepted.
const (
	FeeOnboarding  = 5
	FeeAIScan      = 10
	MinimumBalance = 5
)

// Transaction is a single ledger entry. Amount is negative for charges and
// positive for credits; BalanceAfter snapshots the broker balance once the
// entry applied.
type Transaction struct {
	ID           int64      `json:"id"`
	BrokerID     string     `json:"brokerId"`
	Amount       int        `json:"amount"`
	ActionType   ActionType `json:"actionType"`
	Description  string     `json:"description"`
	BalanceAfter int        `json:"balanceAfter"`
	CreatedAt    time.Time  `json:"createdAt"`
}
