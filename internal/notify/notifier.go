package notify

import "context"

// Notifier delivers post-submission events to the broker-facing side.
// Deliveries are fire-and-forget: callers log failures and move on, a broken
// notifier never affects a submission.
type Notifier interface {
	SubmissionCompleted(ctx context.Context, event SubmissionEvent) error
}
