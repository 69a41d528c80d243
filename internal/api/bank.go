package api

import (
	"net/http"
)

func (s *Server) bankConfigured(w http.ResponseWriter) bool {
	if s.bank == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Bank linking is not configured")
		return false
	}
	return true
}

func (s *Server) listBankAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.repo.GetBankAccounts(r.Context())
	if err != nil {
		s.writeFailure(w, err, "Bank accounts not found", "Failed to fetch bank accounts")
		return
	}
	s.writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) createLinkToken(w http.ResponseWriter, r *http.Request) {
	if !s.bankConfigured(w) {
		return
	}
	token, err := s.bank.LinkToken(r.Context(), s.userID)
	if err != nil {
		s.logger.Error("link token creation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to create link token")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"linkToken": token})
}

type exchangeTokenRequest struct {
	PublicToken string `json:"publicToken"`
}

func (s *Server) exchangePublicToken(w http.ResponseWriter, r *http.Request) {
	if !s.bankConfigured(w) {
		return
	}
	var in exchangeTokenRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.PublicToken == "" {
		s.writeError(w, http.StatusBadRequest, "publicToken is required")
		return
	}
	if err := s.bank.ExchangeAndStore(r.Context(), s.userID, in.PublicToken); err != nil {
		s.logger.Error("public token exchange failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to link bank account")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"linked": true})
}

type syncAccountRequest struct {
	AccountID string `json:"accountId"`
}

func (s *Server) syncBankAccount(w http.ResponseWriter, r *http.Request) {
	if !s.bankConfigured(w) {
		return
	}
	var in syncAccountRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.AccountID == "" {
		s.writeError(w, http.StatusBadRequest, "accountId is required")
		return
	}
	synced, err := s.bank.SyncAccount(r.Context(), s.userID, in.AccountID)
	if err != nil {
		s.writeFailure(w, err, "Bank account not found", "Failed to sync bank account")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"syncedTransactions": synced})
}
