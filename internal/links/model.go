package links

import "time"

// Status is the lifecycle state of an onboarding link.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusExpired   Status = "expired"
	StatusCompleted Status = "completed"
)

// Link is a broker-issued onboarding link. The token doubles as the primary
// key and is the only credential a client needs to submit.
type Link struct {
	Token            string    `json:"token"`
	BrokerID         string    `json:"brokerId"`
	Status           Status    `json:"status"`
	ExpiresAt        time.Time `json:"expiresAt"`
	MaxSubmissions   int       `json:"maxSubmissions"`
	SubmissionsCount int       `json:"submissionsCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Validate checks the link against the submission preconditions, in order:
// active status, not expired, under the submission cap. A MaxSubmissions of
// zero or less means uncapped.
func (l Link) Validate(now time.Time) error {
	if l.Status != StatusActive {
		return ErrInactive
	}
	if !l.ExpiresAt.IsZero() && !now.Before(l.ExpiresAt) {
		return ErrExpired
	}
	if l.MaxSubmissions > 0 && l.SubmissionsCount >= l.MaxSubmissions {
		return ErrExhausted
	}
	return nil
}
