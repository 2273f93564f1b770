// Package middleware carries the HTTP middleware chain.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/budgetbox/backend/internal/service"
	"github.com/gorilla/mux"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID extracts the authenticated user's id from a request context.
// The second result is false on requests that skipped AuthMiddleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// AuthMiddleware authenticates requests by their Bearer token. Valid
// requests proceed with the user id on the context; everything else is
// rejected with 401.
func AuthMiddleware(svc *service.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			user, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"Invalid or missing authentication token."}`))
}
