package handler

import (
	"net/http"
	"time"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/service"
)

// CreateTransaction handles transaction creation
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := decodeBody(r, &tx); err != nil {
		h.writeError(w, err)
		return
	}
	tx.UserID = userID(r)

	if err := h.svc.CreateTransaction(r.Context(), &tx); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// ListTransactions returns a filtered page of transactions.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, total, err := h.svc.ListTransactions(r.Context(), userID(r), transactionFilter(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: total, Results: transactions})
}

// GetTransaction returns one transaction.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	tx, err := h.svc.GetTransaction(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// UpdateTransaction applies a partial update and reconciles balances.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in service.TransactionUpdate
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	tx, err := h.svc.UpdateTransaction(r.Context(), userID(r), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// DeleteTransaction removes a transaction and reverses its amount.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), userID(r), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// DuplicateTransaction clones a transaction onto a new date.
func (h *Handler) DuplicateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in service.DuplicateInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	clone, err := h.svc.DuplicateTransaction(r.Context(), userID(r), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

// BulkCategorize moves a set of transactions into one category.
func (h *Handler) BulkCategorize(w http.ResponseWriter, r *http.Request) {
	var in service.BulkCategorizeInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	moved, err := h.svc.BulkCategorize(r.Context(), userID(r), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions_updated": moved})
}

// Statistics returns the cached transaction statistics.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	var from, to *models.Date
	if raw := r.URL.Query().Get("date_from"); raw != "" {
		if date, err := models.ParseDate(raw); err == nil {
			from = &date
		}
	}
	if raw := r.URL.Query().Get("date_to"); raw != "" {
		if date, err := models.ParseDate(raw); err == nil {
			to = &date
		}
	}

	stats, err := h.svc.Statistics(r.Context(), userID(r), from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MonthlySummary returns a calendar month's aggregates. Year and month
// default to the current ones.
func (h *Handler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))

	summary, err := h.svc.MonthlySummary(r.Context(), userID(r), year, month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
