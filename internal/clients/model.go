package clients

import "time"

// Status is the onboarding state of a client record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusExpired    Status = "expired"
)

// Client is one person going through onboarding under a broker's link.
// FormData holds the raw form answers as submitted; AIExtractedData maps
// document role to the structured extraction result for that document.
type Client struct {
	ID                 string         `json:"id"`
	BrokerID           string         `json:"brokerId"`
	LinkToken          string         `json:"linkToken"`
	FullName           string         `json:"fullName"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone"`
	Status             Status         `json:"status"`
	OnboardingProgress int            `json:"onboardingProgress"`
	DocumentsRequired  int            `json:"documentsRequired"`
	DocumentsSubmitted int            `json:"documentsSubmitted"`
	FormData           map[string]any `json:"formData,omitempty"`
	AIExtractedData    map[string]any `json:"aiExtractedData,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
}
