package tokens

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/shared/server/respond"
)

// Handler serves the broker-side token ledger view.
type Handler struct {
	svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the token endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/brokers/:brokerId/tokens", h.ledger)
	rg.POST("/brokers/:brokerId/tokens/purchase", h.purchase)
}

type ledgerResponse struct {
	BrokerID     string        `json:"brokerId"`
	Balance      int           `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

func (h *Handler) ledger(c *gin.Context) {
	brokerID := strings.TrimSpace(c.Param("brokerId"))
	c.Set("brokerId", brokerID)

	balance, err := h.svc.Balance(c.Request.Context(), brokerID)
	if err != nil {
		if errors.Is(err, ErrBrokerNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "broker not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load balance", nil)
		return
	}

	txns, err := h.svc.Transactions(c.Request.Context(), brokerID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load transactions", nil)
		return
	}
	if txns == nil {
		txns = []Transaction{}
	}
	respond.OK(c, ledgerResponse{BrokerID: brokerID, Balance: balance, Transactions: txns})
}

type purchaseRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

func (h *Handler) purchase(c *gin.Context) {
	brokerID := strings.TrimSpace(c.Param("brokerId"))
	c.Set("brokerId", brokerID)

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "amount must be a positive integer", nil)
		return
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		desc = "Token purchase"
	}

	txn, err := h.svc.Credit(c.Request.Context(), brokerID, req.Amount, ActionPurchase, desc)
	if err != nil {
		if errors.Is(err, ErrBrokerNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "broker not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to credit tokens", nil)
		return
	}
	respond.Created(c, txn)
}
