package handler

import (
	"net/http"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/service"
	"github.com/google/uuid"
)

// CreateBudget handles budget creation
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var budget models.Budget
	if err := decodeBody(r, &budget); err != nil {
		h.writeError(w, err)
		return
	}
	budget.UserID = userID(r)

	if err := h.svc.CreateBudget(r.Context(), &budget); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, budget)
}

// ListBudgets returns the user's budgets with derived spend fields.
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.BudgetFilter{PeriodType: q.Get("period_type")}
	if raw := q.Get("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}
	if raw := q.Get("category"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = id
		}
	}
	if q.Get("current") == "true" {
		today := models.Today()
		filter.CurrentOn = &today
	}

	budgets, err := h.svc.ListBudgets(r.Context(), userID(r), filter, q.Get("exceeded") == "true")
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: len(budgets), Results: budgets})
}

// GetBudget returns one budget with derived spend fields.
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	budget, err := h.svc.GetBudget(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// UpdateBudget applies a partial budget update.
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in service.BudgetUpdate
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	budget, err := h.svc.UpdateBudget(r.Context(), userID(r), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// DeleteBudget removes a budget.
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.DeleteBudget(r.Context(), userID(r), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// BudgetProgress returns the detailed progress report.
func (h *Handler) BudgetProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	progress, err := h.svc.BudgetProgress(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// BudgetOverview returns the cross-budget rollup.
func (h *Handler) BudgetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.BudgetOverview(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// BudgetRecommendations returns spending-derived budget suggestions.
func (h *Handler) BudgetRecommendations(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", 3)

	recs, err := h.svc.BudgetRecommendations(r.Context(), userID(r), months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// CloneBudget copies a budget onto the next period.
func (h *Handler) CloneBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in service.CloneInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	clone, err := h.svc.CloneBudget(r.Context(), userID(r), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

// DeactivateBudget marks a budget inactive.
func (h *Handler) DeactivateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	budget, err := h.svc.DeactivateBudget(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// ReactivateBudget marks a budget active again.
func (h *Handler) ReactivateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	budget, err := h.svc.ReactivateBudget(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// BulkCreateBudgets applies a named budget template.
func (h *Handler) BulkCreateBudgets(w http.ResponseWriter, r *http.Request) {
	var in service.BulkCreateInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.svc.BulkCreateBudgets(r.Context(), userID(r), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
