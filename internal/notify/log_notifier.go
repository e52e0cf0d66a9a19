package notify

import (
	"context"

	"onboard-backend/internal/shared/telemetry"
)

// LogNotifier writes events to the log instead of a queue. Used for local
// development and tests.
type LogNotifier struct{}

// SubmissionCompleted logs the event.
func (LogNotifier) SubmissionCompleted(ctx context.Context, event SubmissionEvent) error {
	_ = ctx
	telemetry.Info("notify.submission_completed", map[string]any{
		"client_id":           event.ClientID,
		"broker_id":           event.BrokerID,
		"link_token":          event.LinkToken,
		"documents_processed": event.DocumentsProcessed,
	})
	return nil
}

var _ Notifier = LogNotifier{}
