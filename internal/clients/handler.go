package clients

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/documents"
	"onboard-backend/internal/shared/server/respond"
)

type documentsLister interface {
	ListByClient(ctx context.Context, clientID string) ([]documents.Document, error)
}

// Handler serves the broker-side view of onboarded clients.
type Handler struct {
	repo ClientsRepo
	docs documentsLister
}

// NewHandler constructs a Handler.
func NewHandler(repo ClientsRepo, docs documentsLister) *Handler {
	return &Handler{repo: repo, docs: docs}
}

// RegisterRoutes mounts the client endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients/:clientId", h.get)
	rg.GET("/clients/:clientId/documents", h.listDocuments)
	rg.GET("/brokers/:brokerId/clients", h.listByBroker)
}

func (h *Handler) get(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("clientId"))
	c.Set("clientId", clientID)

	client, err := h.repo.GetByID(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "client not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load client", nil)
		return
	}
	respond.OK(c, client)
}

func (h *Handler) listDocuments(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("clientId"))
	c.Set("clientId", clientID)

	if _, err := h.repo.GetByID(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "client not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load client", nil)
		return
	}

	docs, err := h.docs.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load documents", nil)
		return
	}
	if docs == nil {
		docs = []documents.Document{}
	}
	respond.OK(c, gin.H{"clientId": clientID, "documents": docs})
}

func (h *Handler) listByBroker(c *gin.Context) {
	brokerID := strings.TrimSpace(c.Param("brokerId"))
	c.Set("brokerId", brokerID)

	list, err := h.repo.ListByBroker(c.Request.Context(), brokerID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load clients", nil)
		return
	}
	if list == nil {
		list = []Client{}
	}
	respond.OK(c, gin.H{"brokerId": brokerID, "clients": list})
}
