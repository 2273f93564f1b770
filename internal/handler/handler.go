// Package handler exposes the REST API over gorilla/mux.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/budgetbox/backend/internal/middleware"
	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/service"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps service errors onto the API's error taxonomy.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
		return
	}
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": conflict.Message})
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid credentials."})
		return
	}
	h.log.Errorf("Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "Internal server error."})
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errs := validation.Errors{}
		errs.Add("body", "Request body must be valid JSON.")
		return errs
	}
	return nil
}

// userID pulls the authenticated user from the request context. The
// auth middleware guarantees it on protected routes.
func userID(r *http.Request) int64 {
	id, _ := middleware.UserID(r.Context())
	return id
}

// pathUUID parses a UUID path variable, mapping malformed ids onto the
// same response as missing records so ids stay unguessable.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, service.ErrNotFound
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// pagination derives the limit/offset window from page and page_size
// query parameters.
func pagination(r *http.Request) (limit, offset int) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	size := queryInt(r, "page_size", defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size, (page - 1) * size
}

// paginated is the list response envelope.
type paginated struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

// transactionFilter builds the filter for the transaction list
// endpoints from query parameters.
func transactionFilter(r *http.Request) repository.TransactionFilter {
	q := r.URL.Query()
	filter := repository.TransactionFilter{
		Type:   q.Get("transaction_type"),
		Search: q.Get("search"),
	}
	if raw := q.Get("bank_account"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.AccountID = id
		}
	}
	if raw := q.Get("category"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = id
		}
	}
	if raw := q.Get("date_from"); raw != "" {
		if date, err := models.ParseDate(raw); err == nil {
			filter.DateFrom = &date
		}
	}
	if raw := q.Get("date_to"); raw != "" {
		if date, err := models.ParseDate(raw); err == nil {
			filter.DateTo = &date
		}
	}
	if raw := q.Get("min_amount"); raw != "" {
		if amount, err := decimal.NewFromString(raw); err == nil {
			filter.MinAmount = &amount
		}
	}
	if raw := q.Get("is_recurring"); raw != "" {
		recurring := raw == "true"
		filter.IsRecurring = &recurring
	}
	filter.Limit, filter.Offset = pagination(r)
	return filter
}
