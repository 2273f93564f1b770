package handler

import (
	"net/http"
	"strings"

	"github.com/budgetbox/backend/internal/service"
	"github.com/budgetbox/backend/internal/validation"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in validation.RegisterInput
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.svc.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":               result.User,
		"token":              result.Token,
		"categories_created": result.CategoriesCreated,
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    result.User,
		"token":   result.Token,
		"summary": result.Summary,
	})
}

// Logout revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.svc.Logout(r.Context(), token); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"detail": "Logged out."})
}

// Profile returns the authenticated user with a financial rollup.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, summary, err := h.svc.Profile(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":              user,
		"financial_summary": summary,
	})
}

// UpdateProfile applies a partial profile update.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileUpdate
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), userID(r), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword rotates the user's password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID(r), in.OldPassword, in.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"detail": "Password changed."})
}
