package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"onboard-backend/internal/extract"
	"onboard-backend/internal/llm"
	"onboard-backend/internal/shared/metrics"
	"onboard-backend/internal/shared/storage/object"
	"onboard-backend/internal/shared/telemetry"
	"onboard-backend/internal/shared/util"
)

// FileInput is one uploaded file, already read off the multipart stream.
// Role is the document slot the file was attached to ("id", "paystub").
type FileInput struct {
	Role     string
	FileName string
	MimeType string
	Data     []byte
}

// ProcessedDocument describes one file that was stored and finalized.
type ProcessedDocument struct {
	DocumentID string
	Role       string
	FileName   string
	FileType   FileType
	Extracted  map[string]any
}

// ProcessResult aggregates a submission's per-file outcomes. Extracted maps
// document role to extraction result and only contains non-nil results;
// Skipped lists the original names of files that never made it to storage.
type ProcessResult struct {
	Processed []ProcessedDocument
	Extracted map[string]any
	Skipped   []string
}

// Processor runs the per-file pipeline: classify, store, record, extract,
// finalize. One file's failure never affects the others.
type Processor struct {
	repo  DocumentsRepo
	store object.ObjectStore
	model llm.Client
}

// NewProcessor constructs a Processor.
func NewProcessor(repo DocumentsRepo, store object.ObjectStore, model llm.Client) *Processor {
	return &Processor{repo: repo, store: store, model: model}
}

// Process handles every file of a submission independently. It never returns
// an error: files that fail to store are skipped, and extraction failures
// leave the document completed with a low-confidence failure result.
func (p *Processor) Process(ctx context.Context, clientID, brokerID string, files []FileInput) ProcessResult {
	result := ProcessResult{Extracted: make(map[string]any)}
	for _, file := range files {
		processed, ok := p.processOne(ctx, clientID, brokerID, file)
		if !ok {
			metrics.IncDocumentSkipped()
			result.Skipped = append(result.Skipped, file.FileName)
			continue
		}
		metrics.IncDocumentProcessed()
		result.Processed = append(result.Processed, processed)
		if processed.Extracted != nil {
			result.Extracted[processed.Role] = processed.Extracted
		}
	}
	return result
}

func (p *Processor) processOne(ctx context.Context, clientID, brokerID string, file FileInput) (ProcessedDocument, bool) {
	fields := map[string]any{
		"client_id": clientID,
		"role":      file.Role,
		"file_name": file.FileName,
	}

	safeName, err := util.SanitizeFileName(file.FileName)
	if err != nil {
		telemetry.Warn("document.rejected_name", withErr(fields, err))
		return ProcessedDocument{}, false
	}

	fileType := ClassifyFileType(file.MimeType)
	storageKey := fmt.Sprintf("clients/%s/%s_%s", clientID, uuid.NewString(), safeName)
	if _, err := p.store.Upload(ctx, storageKey, file.MimeType, bytes.NewReader(file.Data)); err != nil {
		telemetry.Warn("document.upload_failed", withErr(fields, err))
		return ProcessedDocument{}, false
	}

	now := time.Now().UTC()
	doc := Document{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		BrokerID:     brokerID,
		FileName:     file.FileName,
		StoragePath:  storageKey,
		StorageURL:   p.store.PublicURL(storageKey),
		FileType:     fileType,
		DocumentType: file.Role,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.repo.Create(ctx, doc); err != nil {
		telemetry.Warn("document.create_failed", withErr(fields, err))
		return ProcessedDocument{}, false
	}

	extracted := p.extract(ctx, fileType, file)
	if err := p.repo.Finalize(ctx, doc.ID, extracted, time.Now().UTC()); err != nil {
		telemetry.Error("document.finalize_failed", withErr(fields, err))
	}

	return ProcessedDocument{
		DocumentID: doc.ID,
		Role:       file.Role,
		FileName:   file.FileName,
		FileType:   fileType,
		Extracted:  extracted,
	}, true
}

// extract dispatches on file type. Only doc-type files return nil, meaning
// extraction was never attempted; every attempted extraction yields a result,
// degrading to a low-confidence failure map when the model call errors.
// Panics from the PDF readers are contained here so one malformed file cannot
// take down a submission.
func (p *Processor) extract(ctx context.Context, fileType FileType, file FileInput) (result map[string]any) {
	fields := map[string]any{"role": file.Role, "file_name": file.FileName}
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("document.extract.panic", map[string]any{
				"role":  file.Role,
				"panic": fmt.Sprint(r),
			})
			metrics.IncExtractionDegraded()
			result = failedResult()
		}
	}()

	switch fileType {
	case FileTypeImage:
		raw, err := p.model.ExtractFromImage(ctx, file.MimeType, file.Data)
		if err != nil {
			telemetry.Warn("document.extract.image_failed", withErr(fields, err))
			metrics.IncExtractionDegraded()
			return failedResult()
		}
		return p.parse(raw, fields)

	case FileTypePDF:
		text, err := extract.PDFText(file.Data)
		if err != nil || !extract.Legible(text) {
			if err != nil {
				telemetry.Warn("document.extract.pdf_unreadable", withErr(fields, err))
			}
			metrics.IncExtractionDegraded()
			return scannedResult()
		}
		raw, err := p.model.ExtractFromText(ctx, text)
		if err != nil {
			telemetry.Warn("document.extract.text_failed", withErr(fields, err))
			metrics.IncExtractionDegraded()
			return failedResult()
		}
		return p.parse(raw, fields)

	default:
		return nil
	}
}

func (p *Processor) parse(raw string, fields map[string]any) map[string]any {
	parsed := llm.ParseExtraction(raw)
	if parsed[llm.KeyConfidence] == llm.ConfidenceLow && parsed[llm.KeyRawText] != nil {
		metrics.IncExtractionDegraded()
	} else if err := llm.ValidateResult(parsed); err != nil {
		telemetry.Warn("document.extract.schema_mismatch", withErr(fields, err))
	}
	return parsed
}

// scannedResult is the fixed low-confidence outcome for PDFs with no
// machine-readable text. No model call is made for these.
func scannedResult() map[string]any {
	return degradedResult("PDF appears to be scanned or image-based; no machine-readable text was found.")
}

// failedResult is stored when an attempted extraction errors out. It is a
// real extraction result, so the scan fee applies to it like any other.
func failedResult() map[string]any {
	return degradedResult("Document analysis failed; no fields could be extracted.")
}

func degradedResult(description string) map[string]any {
	notFound := make([]any, len(llm.StandardFields))
	for i, f := range llm.StandardFields {
		notFound[i] = f
	}
	return map[string]any{
		llm.KeyDescription:    description,
		llm.KeyFieldsFound:    []any{},
		llm.KeyFieldsNotFound: notFound,
		llm.KeyConfidence:     llm.ConfidenceLow,
	}
}

func withErr(fields map[string]any, err error) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
