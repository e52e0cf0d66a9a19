package bootstrap_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/bootstrap"
	"onboard-backend/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		PublicBaseURL:   "http://localhost:8080/files",
		Env:             "dev",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func TestBuildMemoryModeServesHealthAndSeed(t *testing.T) {
	app := buildApp(t)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health status = %d", resp.Code)
	}

	// Dev mode seeds an open onboarding link.
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/onboarding/dev-onboarding-link", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("preview status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var preview struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if !preview.Valid {
		t.Error("seeded link should be valid")
	}
}

func TestTokenPurchaseAndLedgerEndpoints(t *testing.T) {
	app := buildApp(t)

	body := strings.NewReader(`{"amount": 25}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/brokers/broker-dev/tokens/purchase", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("purchase status = %d, body = %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/brokers/broker-dev/tokens", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("ledger status = %d", resp.Code)
	}
	var ledger struct {
		Balance      int `json:"balance"`
		Transactions []struct {
			Amount     int    `json:"amount"`
			ActionType string `json:"actionType"`
		} `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ledger); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if ledger.Balance != 125 {
		t.Errorf("balance = %d, want 125", ledger.Balance)
	}
	if len(ledger.Transactions) != 1 || ledger.Transactions[0].Amount != 25 {
		t.Errorf("transactions = %+v", ledger.Transactions)
	}
}
