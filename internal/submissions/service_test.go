package submissions

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"onboard-backend/internal/clients"
	"onboard-backend/internal/documents"
	"onboard-backend/internal/links"
	"onboard-backend/internal/notify"
	"onboard-backend/internal/tokens"
)

type fakeObjectStore struct{}

func (fakeObjectStore) Upload(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	return io.Copy(io.Discard, r)
}

func (fakeObjectStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (fakeObjectStore) PublicURL(storageKey string) string {
	return "https://files.example.com/" + storageKey
}

type fakeLLM struct {
	imageResponse string
	textResponse  string
	err           error
	calls         int
}

func (m *fakeLLM) ExtractFromImage(ctx context.Context, mimeType string, data []byte) (string, error) {
	m.calls++
	return m.imageResponse, m.err
}

func (m *fakeLLM) ExtractFromText(ctx context.Context, text string) (string, error) {
	m.calls++
	return m.textResponse, m.err
}

type recordingNotifier struct {
	events []notify.SubmissionEvent
	err    error
}

func (n *recordingNotifier) SubmissionCompleted(ctx context.Context, event notify.SubmissionEvent) error {
	n.events = append(n.events, event)
	return n.err
}

type fixture struct {
	svc       *Service
	links     *links.MemoryRepo
	clients   *clients.MemoryRepo
	docs      *documents.MemoryRepo
	tokens    *tokens.MemoryStore
	tokenSvc  *tokens.Service
	llm       *fakeLLM
	notifier  *recordingNotifier
	linkToken string
	brokerID  string
}

func newFixture(t *testing.T, link links.Link, balance int, model *fakeLLM) *fixture {
	t.Helper()
	linksRepo := links.NewMemoryRepo()
	if err := linksRepo.Create(context.Background(), link); err != nil {
		t.Fatalf("seed link: %v", err)
	}
	tokenStore := tokens.NewMemoryStore()
	tokenStore.SetBalance(link.BrokerID, balance)
	tokenSvc := tokens.NewServiceWithStore(tokenStore)
	clientsRepo := clients.NewMemoryRepo()
	docsRepo := documents.NewMemoryRepo()
	notifier := &recordingNotifier{}
	proc := documents.NewProcessor(docsRepo, fakeObjectStore{}, model)
	gateway := NewGateway(linksRepo, tokenSvc)
	svc := NewService(gateway, clientsRepo, linksRepo, proc, tokenSvc, notifier)
	return &fixture{
		svc:       svc,
		links:     linksRepo,
		clients:   clientsRepo,
		docs:      docsRepo,
		tokens:    tokenStore,
		tokenSvc:  tokenSvc,
		llm:       model,
		notifier:  notifier,
		linkToken: link.Token,
		brokerID:  link.BrokerID,
	}
}

func activeLink(token string) links.Link {
	return links.Link{
		Token:          token,
		BrokerID:       "broker-1",
		Status:         links.StatusActive,
		ExpiresAt:      time.Now().UTC().Add(24 * time.Hour),
		MaxSubmissions: 1,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestGatewayRejectionsLeaveNoWrites(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		mutate  func(*links.Link)
		balance int
		wantErr error
	}{
		{"inactive", func(l *links.Link) { l.Status = links.StatusPaused }, 50, links.ErrInactive},
		{"expired", func(l *links.Link) { l.ExpiresAt = time.Now().UTC().Add(-time.Hour) }, 50, links.ErrExpired},
		{"exhausted", func(l *links.Link) { l.SubmissionsCount = l.MaxSubmissions }, 50, links.ErrExhausted},
		{"insufficient balance", func(l *links.Link) {}, tokens.MinimumBalance - 1, tokens.ErrInsufficientBalance},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			link := activeLink("tok-" + tc.name)
			tc.mutate(&link)
			f := newFixture(t, link, tc.balance, &fakeLLM{})

			_, err := f.svc.Submit(ctx, SubmitInput{
				Token:    link.Token,
				FormData: map[string]any{"fullName": "Jane Doe"},
				Files: []documents.FileInput{
					{Role: "id", FileName: "id.jpg", MimeType: "image/jpeg", Data: []byte("x")},
				},
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}

			// A rejected submission must leave zero traces.
			if list, _ := f.clients.ListByBroker(ctx, f.brokerID); len(list) != 0 {
				t.Errorf("clients written: %d", len(list))
			}
			if ledger, _ := f.tokenSvc.Transactions(ctx, f.brokerID); len(ledger) != 0 {
				t.Errorf("ledger entries written: %d", len(ledger))
			}
			stored, _ := f.links.GetByToken(ctx, link.Token)
			if stored.SubmissionsCount != link.SubmissionsCount {
				t.Errorf("submission count changed: %d -> %d", link.SubmissionsCount, stored.SubmissionsCount)
			}
			if f.llm.calls != 0 {
				t.Errorf("model called %d times", f.llm.calls)
			}
		})
	}

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t, activeLink("tok-known"), 50, &fakeLLM{})
		_, err := f.svc.Submit(ctx, SubmitInput{Token: "tok-unknown"})
		if !errors.Is(err, links.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestSubmitImageScenario(t *testing.T) {
	// One image document, model answers with a fenced JSON object, broker
	// starts at 20 tokens.
	ctx := context.Background()
	model := &fakeLLM{imageResponse: "```json\n{\"full_name\":\"Jane Doe\"}\n```"}
	f := newFixture(t, activeLink("tok-1"), 20, model)

	out, err := f.svc.Submit(ctx, SubmitInput{
		Token:    "tok-1",
		FormData: map[string]any{"fullName": "Jane Doe", "email": "jane@example.com"},
		Files: []documents.FileInput{
			{Role: "id", FileName: "passport.jpg", MimeType: "image/jpeg", Data: []byte("jpeg")},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.DocumentsProcessed != 1 {
		t.Errorf("documentsProcessed = %d, want 1", out.DocumentsProcessed)
	}
	if len(out.SkippedFiles) != 0 {
		t.Errorf("skippedFiles = %v", out.SkippedFiles)
	}

	client, err := f.clients.GetByID(ctx, out.ClientID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if client.Status != clients.StatusCompleted {
		t.Errorf("client status = %s, want completed", client.Status)
	}
	if client.FullName != "Jane Doe" || client.Email != "jane@example.com" {
		t.Errorf("client identity = %q/%q", client.FullName, client.Email)
	}
	idData, ok := client.AIExtractedData["id"].(map[string]any)
	if !ok || idData["full_name"] != "Jane Doe" {
		t.Errorf("aiExtractedData = %v", client.AIExtractedData)
	}

	docs, _ := f.docs.ListByClient(ctx, out.ClientID)
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	if docs[0].Status != documents.StatusCompleted || docs[0].AIExtractedData["full_name"] != "Jane Doe" {
		t.Errorf("document = %+v", docs[0])
	}

	// Ledger: onboarding fee then scan fee, balance 20 -> 5.
	ledger, _ := f.tokenSvc.Transactions(ctx, f.brokerID)
	if len(ledger) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(ledger))
	}
	// Newest first: scan, then onboarding.
	if ledger[0].Amount != -tokens.FeeAIScan || ledger[1].Amount != -tokens.FeeOnboarding {
		t.Errorf("ledger amounts = %d, %d", ledger[0].Amount, ledger[1].Amount)
	}
	balance, _ := f.tokenSvc.Balance(ctx, f.brokerID)
	if balance != 5 {
		t.Errorf("balance = %d, want 5", balance)
	}

	link, _ := f.links.GetByToken(ctx, "tok-1")
	if link.SubmissionsCount != 1 {
		t.Errorf("submissions count = %d, want 1", link.SubmissionsCount)
	}
	if len(f.notifier.events) != 1 {
		t.Fatalf("notifications = %+v", f.notifier.events)
	}
	event := f.notifier.events[0]
	if event.ClientID != out.ClientID || event.ClientEmail != "jane@example.com" {
		t.Errorf("event identity = %+v", event)
	}
	if !event.ExtractionOccurred || event.DocumentsProcessed != 1 {
		t.Errorf("event processing summary = %+v", event)
	}
}

func TestSubmitScannedPDFChargesScanFee(t *testing.T) {
	// A PDF with no extractable text gets the canned low-confidence result
	// without a model call, and the scan fee applies to it like any other
	// produced result.
	ctx := context.Background()
	model := &fakeLLM{}
	f := newFixture(t, activeLink("tok-1"), 20, model)

	out, err := f.svc.Submit(ctx, SubmitInput{
		Token:    "tok-1",
		FormData: map[string]any{"fullName": "Jane Doe"},
		Files: []documents.FileInput{
			{Role: "statement", FileName: "scan.pdf", MimeType: "application/pdf", Data: []byte("no text here")},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.DocumentsProcessed != 1 {
		t.Errorf("documentsProcessed = %d, want 1", out.DocumentsProcessed)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times, want none", model.calls)
	}

	docs, _ := f.docs.ListByClient(ctx, out.ClientID)
	if len(docs) != 1 || docs[0].Status != documents.StatusCompleted {
		t.Fatalf("documents = %+v", docs)
	}
	if docs[0].AIExtractedData["extraction_confidence"] != "low" {
		t.Errorf("extraction = %v", docs[0].AIExtractedData)
	}

	balance, _ := f.tokenSvc.Balance(ctx, f.brokerID)
	if balance != 20-tokens.FeeOnboarding-tokens.FeeAIScan {
		t.Errorf("balance = %d, want %d", balance, 20-tokens.FeeOnboarding-tokens.FeeAIScan)
	}
}

func TestSubmitFailedExtractionStoresErrorResult(t *testing.T) {
	// A model outage still leaves the broker with an explicit low-confidence
	// result on the document, and the scan fee applies to it.
	ctx := context.Background()
	model := &fakeLLM{err: errors.New("model down")}
	f := newFixture(t, activeLink("tok-1"), 20, model)

	out, err := f.svc.Submit(ctx, SubmitInput{
		Token:    "tok-1",
		FormData: map[string]any{"fullName": "Jane Doe"},
		Files: []documents.FileInput{
			{Role: "id", FileName: "id.jpg", MimeType: "image/jpeg", Data: []byte("x")},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.DocumentsProcessed != 1 {
		t.Errorf("documentsProcessed = %d, want 1", out.DocumentsProcessed)
	}

	docs, _ := f.docs.ListByClient(ctx, out.ClientID)
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	data := docs[0].AIExtractedData
	if data == nil {
		t.Fatal("expected structured error result, got nil")
	}
	if data["extraction_confidence"] != "low" {
		t.Errorf("confidence = %v, want low", data["extraction_confidence"])
	}

	ledger, _ := f.tokenSvc.Transactions(ctx, f.brokerID)
	if len(ledger) != 2 {
		t.Fatalf("ledger entries = %d, want onboarding and scan fees", len(ledger))
	}
	balance, _ := f.tokenSvc.Balance(ctx, f.brokerID)
	if balance != 20-tokens.FeeOnboarding-tokens.FeeAIScan {
		t.Errorf("balance = %d, want %d", balance, 20-tokens.FeeOnboarding-tokens.FeeAIScan)
	}
}

func TestSubmitDocOnlyHasNoScanFeeOrExtraction(t *testing.T) {
	// Doc-type files never enter extraction, so only the onboarding fee
	// applies and the notification reports no extraction.
	ctx := context.Background()
	f := newFixture(t, activeLink("tok-1"), 20, &fakeLLM{})

	out, err := f.svc.Submit(ctx, SubmitInput{
		Token:    "tok-1",
		FormData: map[string]any{"fullName": "Jane Doe"},
		Files: []documents.FileInput{
			{Role: "contract", FileName: "contract.docx", MimeType: "application/msword", Data: []byte("x")},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.DocumentsProcessed != 1 {
		t.Errorf("documentsProcessed = %d, want 1", out.DocumentsProcessed)
	}

	ledger, _ := f.tokenSvc.Transactions(ctx, f.brokerID)
	if len(ledger) != 1 || ledger[0].ActionType != tokens.ActionOnboarding {
		t.Errorf("ledger = %+v, want single onboarding entry", ledger)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].ExtractionOccurred {
		t.Errorf("events = %+v, want one with no extraction", f.notifier.events)
	}
}

func TestSubmitReplayDoublesCharges(t *testing.T) {
	// There is no submission idempotency: replaying the same form charges
	// the broker again and creates a second client record.
	ctx := context.Background()
	link := activeLink("tok-1")
	link.MaxSubmissions = 0
	f := newFixture(t, link, 50, &fakeLLM{})

	input := SubmitInput{
		Token:    "tok-1",
		FormData: map[string]any{"fullName": "Jane Doe"},
	}
	if _, err := f.svc.Submit(ctx, input); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, input); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	list, _ := f.clients.ListByBroker(ctx, f.brokerID)
	if len(list) != 2 {
		t.Errorf("clients = %d, want 2", len(list))
	}
	ledger, _ := f.tokenSvc.Transactions(ctx, f.brokerID)
	if len(ledger) != 2 {
		t.Errorf("ledger entries = %d, want 2", len(ledger))
	}
	balance, _ := f.tokenSvc.Balance(ctx, f.brokerID)
	if balance != 50-2*tokens.FeeOnboarding {
		t.Errorf("balance = %d, want %d", balance, 50-2*tokens.FeeOnboarding)
	}
}

func TestSubmitNotifierFailureDoesNotAffectOutcome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, activeLink("tok-1"), 20, &fakeLLM{})
	f.notifier.err = errors.New("queue unreachable")

	out, err := f.svc.Submit(ctx, SubmitInput{
		Token:    "tok-1",
		FormData: map[string]any{"fullName": "Jane Doe"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.ClientID == "" {
		t.Error("expected client to be created")
	}
}
