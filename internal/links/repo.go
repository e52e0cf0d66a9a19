package links

import "context"

// LinksRepo defines persistence operations for onboarding links.
type LinksRepo interface {
	Create(ctx context.Context, link Link) error
	GetByToken(ctx context.Context, token string) (Link, error)
	IncrementSubmissions(ctx context.Context, token string) error
	UpdateStatus(ctx context.Context, token string, status Status) error
}
