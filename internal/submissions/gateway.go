package submissions

import (
	"context"
	"time"

	"onboard-backend/internal/links"
	"onboard-backend/internal/tokens"
)

// Gateway runs the submission preconditions, in order: link exists, link is
// active, link is unexpired, link is under its submission cap, and the owning
// broker holds the minimum token balance. It performs no writes, so a
// rejected submission leaves no trace.
type Gateway struct {
	links  links.LinksRepo
	tokens *tokens.Service
}

// NewGateway constructs a Gateway.
func NewGateway(linksRepo links.LinksRepo, tokenSvc *tokens.Service) *Gateway {
	return &Gateway{links: linksRepo, tokens: tokenSvc}
}

// Admit validates a token and returns the link it names. The error identifies
// the first failed check: links.ErrNotFound, links.ErrInactive,
// links.ErrExpired, links.ErrExhausted or tokens.ErrInsufficientBalance.
func (g *Gateway) Admit(ctx context.Context, token string) (links.Link, error) {
	link, err := g.links.GetByToken(ctx, token)
	if err != nil {
		return links.Link{}, err
	}
	if err := link.Validate(time.Now().UTC()); err != nil {
		return links.Link{}, err
	}
	ok, _, err := g.tokens.HasMinimumBalance(ctx, link.BrokerID)
	if err != nil {
		return links.Link{}, err
	}
	if !ok {
		return links.Link{}, tokens.ErrInsufficientBalance
	}
	return link, nil
}
