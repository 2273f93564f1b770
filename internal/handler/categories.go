package handler

import (
	"net/http"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/service"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/google/uuid"
)

// CreateCategory handles category creation
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := decodeBody(r, &category); err != nil {
		h.writeError(w, err)
		return
	}
	category.UserID = userID(r)

	if err := h.svc.CreateCategory(r.Context(), &category); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// ListCategories returns the user's categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.CategoryFilter{Type: q.Get("category_type")}
	if raw := q.Get("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	categories, err := h.svc.ListCategories(r.Context(), userID(r), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: len(categories), Results: categories})
}

// GetCategory returns one category.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	category, err := h.svc.GetCategory(r.Context(), userID(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// UpdateCategory applies a partial category update.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in service.CategoryUpdate
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), userID(r), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory removes an unused, non-default category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), userID(r), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// CategoryUsage reports usage over a trailing window.
func (h *Handler) CategoryUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	days := queryInt(r, "days", 90)

	usage, err := h.svc.CategoryUsage(r.Context(), userID(r), id, days)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

// SetDefaultCategories provisions the starter category set.
func (h *Handler) SetDefaultCategories(w http.ResponseWriter, r *http.Request) {
	created, err := h.svc.SetDefaultCategories(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories_created": created})
}

// ReassignCategory moves a category's transactions to another one.
func (h *Handler) ReassignCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var in struct {
		TargetCategory string `json:"target_category"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	target, err := uuid.Parse(in.TargetCategory)
	if err != nil {
		errs := validation.Errors{}
		errs.Add("target_category", "Target category must be a valid id.")
		h.writeError(w, errs)
		return
	}

	moved, err := h.svc.ReassignCategory(r.Context(), userID(r), id, target)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions_moved": moved})
}
