package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"remitconnect/internal/core"
)

const (
	walletsCacheKey    = "wallets"
	recipientsCacheKey = "recipients"
)

// catalogResponse is the envelope for every fetch-backed endpoint: the
// process state plus the data when the state is done.
type catalogResponse struct {
	Phase        string              `json:"state"`
	Message      string              `json:"message,omitempty"`
	Wallets      []core.MobileWallet `json:"wallets,omitempty"`
	Recipients   []core.Recipient    `json:"recipients,omitempty"`
	Transactions []core.Transaction  `json:"transactions,omitempty"`
}

func newCatalogResponse(state core.ProcessState) catalogResponse {
	return catalogResponse{Phase: state.Phase.String(), Message: state.Message}
}

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	if wallets, found := s.walletsCache.Get(walletsCacheKey); found {
		slog.DebugContext(r.Context(), "Wallets cache hit", "wallet_count", len(wallets))
		resp := newCatalogResponse(core.Done())
		resp.Wallets = wallets
		writeJSON(w, http.StatusOK, resp)
		return
	}

	wallets, state := s.coordinator.FetchMobileWallets(r.Context())
	if state.IsError() {
		writeJSON(w, http.StatusBadGateway, newCatalogResponse(state))
		return
	}

	s.walletsCache.Set(walletsCacheKey, wallets)
	resp := newCatalogResponse(state)
	resp.Wallets = wallets
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecipients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	if recipients, found := s.recipientsCache.Get(recipientsCacheKey); found {
		resp := newCatalogResponse(core.Done())
		resp.Recipients = recipients
		writeJSON(w, http.StatusOK, resp)
		return
	}

	recipients, state := s.coordinator.FetchRecipients(r.Context())
	if state.IsError() {
		writeJSON(w, http.StatusBadGateway, newCatalogResponse(state))
		return
	}

	s.recipientsCache.Set(recipientsCacheKey, recipients)
	resp := newCatalogResponse(state)
	resp.Recipients = recipients
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	// The ledger is local; no caching, the list changes on every confirm.
	txs, state := s.coordinator.FetchRecentTransactions(r.Context())
	if state.IsError() {
		// An empty ledger and a broken one render the same way.
		writeJSON(w, http.StatusOK, newCatalogResponse(state))
		return
	}

	resp := newCatalogResponse(state)
	resp.Transactions = txs
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	balance := s.coordinator.RemainingBalance(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":      balance,
		"currencyCode": core.DefaultCurrencyCode,
	})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tx, ok := s.coordinator.Drafts().Get()
		if !ok {
			writeError(w, http.StatusNotFound, "no transaction in progress")
			return
		}
		writeJSON(w, http.StatusOK, tx)

	case http.MethodPut:
		var tx core.Transaction
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			writeError(w, http.StatusBadRequest, "invalid draft payload")
			return
		}
		s.coordinator.Drafts().Replace(&tx)
		writeJSON(w, http.StatusOK, tx)

	case http.MethodDelete:
		s.coordinator.Drafts().Clear()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid quote payload")
		return
	}

	quoted, err := s.coordinator.QuoteAmount(req.Amount)
	if err != nil {
		if errors.Is(err, core.ErrNegativeAmount) {
			writeError(w, http.StatusUnprocessableEntity, "amount must not be negative")
			return
		}
		slog.ErrorContext(r.Context(), "Quote failed", "error", err)
		writeError(w, http.StatusInternalServerError, "quote failed")
		return
	}

	writeJSON(w, http.StatusOK, quoted)
}

func (s *Server) handleConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	recorded, err := s.coordinator.ConfirmTransfer(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoTransactionDraft):
			writeError(w, http.StatusConflict, "no transaction in progress")
		case errors.Is(err, core.ErrNoRecipient),
			errors.Is(err, core.ErrNoWallet),
			errors.Is(err, core.ErrAmountNotComputed):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Transfer confirmation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to record transfer")
		}
		return
	}

	writeJSON(w, http.StatusCreated, recorded)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
