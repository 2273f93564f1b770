package handler

import (
	"net/http"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/service"
	"github.com/shopspring/decimal"
)

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var account models.Account
	if err := decodeBody(r, &account); err != nil {
		h.writeError(w, err)
		return
	}
	account.UserID = userID(r)

	if err := h.svc.CreateAccount(r.Context(), &account); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// ListAccounts returns the user's accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AccountFilter{
		Type:     q.Get("account_type"),
		Currency: q.Get("currency"),
	}
	if raw := q.Get("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}
	if raw := q.Get("min_balance"); raw != "" {
		if min, err := decimal.NewFromString(raw); err == nil {
			filter.MinBalance = &min
		}
	}

	accounts, err := h.svc.ListAccounts(r.Context(), userID(r), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: len(accounts), Results: accounts})
}

// GetAccount returns one account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	account, err := h.svc.GetAccount(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// UpdateAccount applies a partial account update.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in service.AccountUpdate
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	account, err := h.svc.UpdateAccount(r.Context(), userID(r), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// DeactivateAccount retires an account. Refused while the account
// still carries a balance.
func (h *Handler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	inactive := false
	account, err := h.svc.UpdateAccount(r.Context(), userID(r), id, service.AccountUpdate{IsActive: &inactive})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// DeleteAccount removes an account without transactions.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), userID(r), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// AccountSummary returns the portfolio rollup.
func (h *Handler) AccountSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.AccountSummary(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// AccountStatement returns a statement over the trailing window. With
// format=xml the statement is rendered as an XML document instead.
func (h *Handler) AccountStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	days := queryInt(r, "days", 30)

	statement, err := h.svc.AccountStatement(r.Context(), userID(r), id, days)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xml" {
		h.writeStatementXML(w, statement)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}

// Transfer moves money between two of the user's accounts.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in service.TransferInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.svc.Transfer(r.Context(), userID(r), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
