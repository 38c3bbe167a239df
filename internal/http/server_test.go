package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"remitconnect/internal/core"
	"remitconnect/internal/draft"
	"remitconnect/internal/services"
)

type fakeCatalog struct {
	wallets    []core.MobileWallet
	recipients []core.Recipient
	err        error
	calls      int
}

func (f *fakeCatalog) MobileWallets(ctx context.Context) ([]core.MobileWallet, error) {
	f.calls++
	return f.wallets, f.err
}

func (f *fakeCatalog) PreviousRecipients(ctx context.Context) ([]core.Recipient, error) {
	f.calls++
	return f.recipients, f.err
}

type fakeLedger struct {
	entries []core.Transaction
	nextID  int64
}

func (f *fakeLedger) InsertTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	f.nextID++
	tx.ID = f.nextID
	f.entries = append(f.entries, tx)
	return tx.ID, nil
}

func (f *fakeLedger) RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeLedger) SumTotalSpent(ctx context.Context) (float64, bool, error) {
	if len(f.entries) == 0 {
		return 0, false, nil
	}
	var sum float64
	for _, tx := range f.entries {
		sum += tx.TotalSpent
	}
	return sum, true, nil
}

func newTestServer(t *testing.T, catalog *fakeCatalog, ledger *fakeLedger) *Server {
	t.Helper()
	coordinator := services.NewCoordinator(catalog, ledger, nil, draft.NewStore(), services.DefaultAllowance)
	srv := NewServer(":0", coordinator, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	srv.Handler.ServeHTTP(rr, req)

	var decoded map[string]any
	if rr.Body.Len() > 0 && strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s response: %v (body %q)", method, path, err, rr.Body.String())
		}
	}
	return rr, decoded
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestWalletsEndpoint(t *testing.T) {
	catalog := &fakeCatalog{wallets: []core.MobileWallet{
		{ID: "1", Name: "Wave"},
		{ID: "2", Name: "Orange money"},
	}}
	srv := newTestServer(t, catalog, &fakeLedger{})

	rr, resp := doJSON(t, srv, http.MethodGet, "/api/wallets", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if resp["state"] != "done" {
		t.Fatalf("state=%v, want done", resp["state"])
	}
	wallets, ok := resp["wallets"].([]any)
	if !ok || len(wallets) != 2 {
		t.Fatalf("wallets=%v, want 2 entries", resp["wallets"])
	}

	// Second call must come from the cache, not the catalog.
	before := catalog.calls
	rr, _ = doJSON(t, srv, http.MethodGet, "/api/wallets", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cached status=%d", rr.Code)
	}
	if catalog.calls != before {
		t.Fatalf("catalog calls=%d, want %d (cached)", catalog.calls, before)
	}
}

func TestWalletsEndpointUpstreamFailure(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("connection refused")}
	srv := newTestServer(t, catalog, &fakeLedger{})

	rr, resp := doJSON(t, srv, http.MethodGet, "/api/wallets", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status=%d, want 502", rr.Code)
	}
	if resp["state"] != "error" {
		t.Fatalf("state=%v, want error", resp["state"])
	}
}

func TestRecipientsEndpoint(t *testing.T) {
	catalog := &fakeCatalog{recipients: []core.Recipient{
		{ID: "r1", Name: "Aminata Diallo", Country: "Senegal"},
	}}
	srv := newTestServer(t, catalog, &fakeLedger{})

	rr, resp := doJSON(t, srv, http.MethodGet, "/api/recipients", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	recipients, ok := resp["recipients"].([]any)
	if !ok || len(recipients) != 1 {
		t.Fatalf("recipients=%v, want 1 entry", resp["recipients"])
	}
}

func TestTransactionsEndpointEmptyLedger(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	rr, resp := doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if resp["state"] != "error" {
		t.Fatalf("state=%v, want error for empty ledger", resp["state"])
	}
	if resp["message"] != "No transactions yet" {
		t.Fatalf("message=%q", resp["message"])
	}
}

func TestBalanceEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	rr, resp := doJSON(t, srv, http.MethodGet, "/api/balance", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if resp["balance"] != 5000.0 {
		t.Fatalf("balance=%v, want 5000", resp["balance"])
	}
	if resp["currencyCode"] != core.DefaultCurrencyCode {
		t.Fatalf("currencyCode=%v", resp["currencyCode"])
	}
}

func TestQuoteAndConfirmFlow(t *testing.T) {
	ledger := &fakeLedger{}
	srv := newTestServer(t, &fakeCatalog{}, ledger)

	// Quote starts a draft and computes the breakdown.
	rr, quoted := doJSON(t, srv, http.MethodPost, "/api/quote", `{"amount":100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("quote status=%d body=%s", rr.Code, rr.Body.String())
	}
	if quoted["totalSpent"] != 106.5 {
		t.Fatalf("totalSpent=%v, want 106.5", quoted["totalSpent"])
	}

	// Confirming before recipient and wallet are chosen must be rejected.
	rr, _ = doJSON(t, srv, http.MethodPost, "/api/transfers", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("incomplete confirm status=%d, want 422", rr.Code)
	}

	// Fill in the missing pieces through the draft endpoint.
	draftBody := `{"recipient":{"id":"r1","name":"Aminata Diallo","country":"Senegal"},"selectedWallet":"Wave","currencyCode":"EUR","amount":"100","monecoFees":1.5,"transferFees":0.05,"conversionRate":655.94,"totalSpent":106.5,"amountReceived":62314.3}`
	rr, _ = doJSON(t, srv, http.MethodPut, "/api/draft", draftBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("draft put status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr, recorded := doJSON(t, srv, http.MethodPost, "/api/transfers", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("confirm status=%d body=%s", rr.Code, rr.Body.String())
	}
	if recorded["id"] != 1.0 {
		t.Fatalf("recorded id=%v, want 1", recorded["id"])
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("ledger entries=%d, want 1", len(ledger.entries))
	}

	// The draft is gone once recorded.
	rr, _ = doJSON(t, srv, http.MethodGet, "/api/draft", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("draft after confirm status=%d, want 404", rr.Code)
	}

	// And the balance reflects the spend.
	rr, resp := doJSON(t, srv, http.MethodGet, "/api/balance", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("balance status=%d", rr.Code)
	}
	if resp["balance"] != 4893.5 {
		t.Fatalf("balance=%v, want 4893.5", resp["balance"])
	}
}

func TestQuoteRejectsNegativeAmount(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	rr, _ := doJSON(t, srv, http.MethodPost, "/api/quote", `{"amount":-1}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rr.Code)
	}
}

func TestQuoteRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	rr, _ := doJSON(t, srv, http.MethodPost, "/api/quote", `{"amount":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rr.Code)
	}
}

func TestConfirmWithoutDraft(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	rr, _ := doJSON(t, srv, http.MethodPost, "/api/transfers", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", rr.Code)
	}
}

func TestDraftLifecycle(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	rr, _ := doJSON(t, srv, http.MethodGet, "/api/draft", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("empty draft status=%d, want 404", rr.Code)
	}

	rr, _ = doJSON(t, srv, http.MethodPut, "/api/draft", `{"option":"Send to Africa","currencyCode":"EUR"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put status=%d", rr.Code)
	}

	rr, got := doJSON(t, srv, http.MethodGet, "/api/draft", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status=%d", rr.Code)
	}
	if got["option"] != "Send to Africa" {
		t.Fatalf("option=%v", got["option"])
	}

	rr, _ = doJSON(t, srv, http.MethodDelete, "/api/draft", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d, want 204", rr.Code)
	}

	rr, _ = doJSON(t, srv, http.MethodGet, "/api/draft", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("draft after delete status=%d, want 404", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/wallets"},
		{http.MethodDelete, "/api/recipients"},
		{http.MethodPost, "/api/balance"},
		{http.MethodGet, "/api/quote"},
		{http.MethodGet, "/api/transfers"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s status=%d, want 405", tc.method, tc.path, rr.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	srv.Handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options=%q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options=%q", got)
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeLedger{})

	var limited bool
	for i := 0; i < 70; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(`{"amount":1}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:1234"
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("expected rate limiter to trip on repeated mutations")
	}
}
