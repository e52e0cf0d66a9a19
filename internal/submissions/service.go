package submissions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"onboard-backend/internal/clients"
	"onboard-backend/internal/documents"
	"onboard-backend/internal/links"
	"onboard-backend/internal/notify"
	"onboard-backend/internal/shared/metrics"
	"onboard-backend/internal/shared/telemetry"
	"onboard-backend/internal/tokens"
)

type processor interface {
	Process(ctx context.Context, clientID, brokerID string, files []documents.FileInput) documents.ProcessResult
}

// Service orchestrates a full submission: admission, client creation,
// document processing, finalization, token charges and the completion
// notification.
type Service struct {
	gateway   *Gateway
	clients   clients.ClientsRepo
	links     links.LinksRepo
	processor processor
	tokens    *tokens.Service
	notifier  notify.Notifier
}

// NewService constructs a submission Service.
func NewService(gateway *Gateway, clientsRepo clients.ClientsRepo, linksRepo links.LinksRepo, proc processor, tokenSvc *tokens.Service, notifier notify.Notifier) *Service {
	return &Service{
		gateway:   gateway,
		clients:   clientsRepo,
		links:     linksRepo,
		processor: proc,
		tokens:    tokenSvc,
		notifier:  notifier,
	}
}

// SubmitInput carries a parsed submission.
type SubmitInput struct {
	Token    string
	FormData map[string]any
	Files    []documents.FileInput
}

// SubmitOutput reports what was recorded. DocumentsProcessed counts files
// that reached storage; SkippedFiles names the ones that did not.
type SubmitOutput struct {
	ClientID           string
	DocumentsProcessed int
	SkippedFiles       []string
}

// Submit runs the full pipeline. An error here means the submission was
// rejected at the gate or the client record could not be written; everything
// past that point degrades per-document instead of failing the call.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitOutput, error) {
	start := time.Now()

	link, err := s.gateway.Admit(ctx, input.Token)
	if err != nil {
		metrics.IncSubmissionRejected()
		return SubmitOutput{}, err
	}

	now := time.Now().UTC()
	client := clients.Client{
		ID:                uuid.NewString(),
		BrokerID:          link.BrokerID,
		LinkToken:         link.Token,
		FullName:          formString(input.FormData, "fullName", "full_name", "name"),
		Email:             formString(input.FormData, "email"),
		Phone:             formString(input.FormData, "phone"),
		Status:            clients.StatusInProgress,
		DocumentsRequired: len(input.Files),
		FormData:          input.FormData,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return SubmitOutput{}, err
	}

	result := s.processor.Process(ctx, client.ID, link.BrokerID, input.Files)

	completedAt := time.Now().UTC()
	client.Status = clients.StatusCompleted
	client.OnboardingProgress = 100
	client.DocumentsSubmitted = len(result.Processed)
	client.AIExtractedData = result.Extracted
	client.UpdatedAt = completedAt
	client.CompletedAt = &completedAt
	if err := s.clients.Update(ctx, client); err != nil {
		return SubmitOutput{}, err
	}

	if err := s.links.IncrementSubmissions(ctx, link.Token); err != nil {
		telemetry.Warn("submission.link_increment_failed", map[string]any{
			"link_token": link.Token,
			"error":      err.Error(),
		})
	}

	s.charge(ctx, link.BrokerID, client, result)
	s.notifyCompleted(ctx, link, client, result)

	metrics.IncSubmissionAccepted()
	metrics.ObserveSubmissionDurationMs(float64(time.Since(start).Milliseconds()))
	return SubmitOutput{
		ClientID:           client.ID,
		DocumentsProcessed: len(result.Processed),
		SkippedFiles:       result.Skipped,
	}, nil
}

// charge applies the flat onboarding fee, then one scan fee per document
// that ended up with an extraction result. Degraded results count; only
// doc-type files, which never enter extraction, are free. Charge failures
// are logged, never surfaced: the submission is already recorded and the
// client must not see a broker-side accounting problem.
func (s *Service) charge(ctx context.Context, brokerID string, client clients.Client, result documents.ProcessResult) {
	if _, err := s.tokens.ChargeOnboarding(ctx, brokerID, client.FullName); err != nil {
		telemetry.Error("submission.charge_failed", map[string]any{
			"broker_id": brokerID,
			"client_id": client.ID,
			"action":    string(tokens.ActionOnboarding),
			"error":     err.Error(),
		})
	}
	for _, doc := range result.Processed {
		if doc.Extracted == nil {
			continue
		}
		if _, err := s.tokens.ChargeAIScan(ctx, brokerID, doc.FileName); err != nil {
			telemetry.Error("submission.charge_failed", map[string]any{
				"broker_id":   brokerID,
				"client_id":   client.ID,
				"document_id": doc.DocumentID,
				"action":      string(tokens.ActionAIScan),
				"error":       err.Error(),
			})
		}
	}
}

func (s *Service) notifyCompleted(ctx context.Context, link links.Link, client clients.Client, result documents.ProcessResult) {
	event := notify.SubmissionEvent{
		ClientID:           client.ID,
		BrokerID:           link.BrokerID,
		LinkToken:          link.Token,
		ClientName:         client.FullName,
		ClientEmail:        client.Email,
		DocumentsProcessed: len(result.Processed),
		ExtractionOccurred: len(result.Extracted) > 0,
		CompletedAt:        client.UpdatedAt.Format(time.RFC3339),
		Version:            1,
	}
	if err := s.notifier.SubmissionCompleted(ctx, event); err != nil {
		metrics.IncNotificationFailed()
		telemetry.Warn("submission.notify_failed", map[string]any{
			"client_id": client.ID,
			"broker_id": link.BrokerID,
			"error":     err.Error(),
		})
	}
}

// formString returns the first non-empty string among the given form keys.
func formString(form map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := form[key].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
