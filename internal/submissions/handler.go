package submissions

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/documents"
	"onboard-backend/internal/links"
	"onboard-backend/internal/shared/server/respond"
	"onboard-backend/internal/tokens"
)

const (
	maxUploadBytes      = 10 << 20
	documentFieldPrefix = "document_"
)

// Handler serves the client-facing onboarding endpoints.
type Handler struct {
	svc   *Service
	links links.LinksRepo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, linksRepo links.LinksRepo) *Handler {
	return &Handler{svc: svc, links: linksRepo}
}

// RegisterRoutes mounts the onboarding endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/onboarding/:token", h.preview)
	rg.POST("/onboarding/:token/submit", h.submit)
}

type submitResponse struct {
	Success            bool     `json:"success"`
	DocumentsProcessed int      `json:"documentsProcessed"`
	SkippedFiles       []string `json:"skippedFiles,omitempty"`
}

func (h *Handler) submit(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "token is required", nil)
		return
	}
	c.Set("linkToken", token)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart body", nil)
		return
	}

	formData, err := parseFieldValues(form.Value["fieldValues"])
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fieldValues must be a JSON object", nil)
		return
	}

	files, err := readDocumentParts(form)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	out, err := h.svc.Submit(c.Request.Context(), SubmitInput{
		Token:    token,
		FormData: formData,
		Files:    files,
	})
	if err != nil {
		respondSubmitError(c, err)
		return
	}
	c.Set("clientId", out.ClientID)

	respond.OK(c, submitResponse{
		Success:            true,
		DocumentsProcessed: out.DocumentsProcessed,
		SkippedFiles:       out.SkippedFiles,
	})
}

type previewResponse struct {
	Token     string    `json:"token"`
	Valid     bool      `json:"valid"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
	// Remaining is nil for uncapped links.
	Remaining *int `json:"remainingSubmissions,omitempty"`
}

// preview lets the onboarding form check a link before rendering. Unknown
// tokens are a 404; known but unusable links return valid=false with a
// reason so the form can show a meaningful message.
func (h *Handler) preview(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	c.Set("linkToken", token)

	link, err := h.links.GetByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "onboarding link not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load link", nil)
		return
	}

	resp := previewResponse{
		Token:     link.Token,
		Valid:     true,
		Status:    string(link.Status),
		ExpiresAt: link.ExpiresAt,
	}
	if link.MaxSubmissions > 0 {
		remaining := link.MaxSubmissions - link.SubmissionsCount
		if remaining < 0 {
			remaining = 0
		}
		resp.Remaining = &remaining
	}
	if err := link.Validate(time.Now().UTC()); err != nil {
		resp.Valid = false
		resp.Reason = err.Error()
	}
	respond.OK(c, resp)
}

// parseFieldValues decodes the single JSON-encoded form answers field. A
// missing field means an empty form, which is allowed.
func parseFieldValues(values []string) (map[string]any, error) {
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return map[string]any{}, nil
	}
	var formData map[string]any
	if err := json.Unmarshal([]byte(values[0]), &formData); err != nil {
		return nil, err
	}
	if formData == nil {
		formData = map[string]any{}
	}
	return formData, nil
}

// readDocumentParts pulls every file part whose field name carries the
// document role prefix. Other file parts are ignored.
func readDocumentParts(form *multipart.Form) ([]documents.FileInput, error) {
	var files []documents.FileInput
	for field, headers := range form.File {
		if !strings.HasPrefix(field, documentFieldPrefix) {
			continue
		}
		role := strings.TrimPrefix(field, documentFieldPrefix)
		for _, fh := range headers {
			if fh.Size > maxUploadBytes {
				return nil, errors.New("file exceeds the upload size limit")
			}
			f, err := fh.Open()
			if err != nil {
				return nil, errors.New("failed to read uploaded file")
			}
			data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
			f.Close()
			if err != nil {
				return nil, errors.New("failed to read uploaded file")
			}
			if len(data) > maxUploadBytes {
				return nil, errors.New("file exceeds the upload size limit")
			}
			files = append(files, documents.FileInput{
				Role:     role,
				FileName: fh.Filename,
				MimeType: fh.Header.Get("Content-Type"),
				Data:     data,
			})
		}
	}
	return files, nil
}

func respondSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, links.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "onboarding link not found", nil)
	case errors.Is(err, links.ErrInactive), errors.Is(err, links.ErrExpired), errors.Is(err, links.ErrExhausted):
		respond.Error(c, http.StatusBadRequest, "link_unavailable", err.Error(), nil)
	case errors.Is(err, tokens.ErrInsufficientBalance):
		respond.Error(c, http.StatusPaymentRequired, "insufficient_tokens", "broker token balance is too low to accept submissions", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to process submission", nil)
	}
}
