package links

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onboard-backend/internal/shared/server/respond"
)

const defaultLinkTTL = 30 * 24 * time.Hour

// Handler serves broker-side link management.
type Handler struct {
	repo LinksRepo
}

// NewHandler constructs a Handler.
func NewHandler(repo LinksRepo) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the link endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/brokers/:brokerId/links", h.create)
}

type createRequest struct {
	ExpiresInDays  int `json:"expiresInDays"`
	MaxSubmissions int `json:"maxSubmissions"`
}

func (h *Handler) create(c *gin.Context) {
	brokerID := strings.TrimSpace(c.Param("brokerId"))
	if brokerID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "brokerId is required", nil)
		return
	}
	c.Set("brokerId", brokerID)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ttl := defaultLinkTTL
	if req.ExpiresInDays > 0 {
		ttl = time.Duration(req.ExpiresInDays) * 24 * time.Hour
	}

	now := time.Now().UTC()
	link := Link{
		Token:          uuid.NewString(),
		BrokerID:       brokerID,
		Status:         StatusActive,
		ExpiresAt:      now.Add(ttl),
		MaxSubmissions: req.MaxSubmissions,
		CreatedAt:      now,
	}
	if err := h.repo.Create(c.Request.Context(), link); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create link", nil)
		return
	}
	respond.Created(c, link)
}
