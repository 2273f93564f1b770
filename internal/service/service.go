// Package service implements the business rules behind the API:
// balance maintenance, validation, budget analytics and auth. Every
// multi-entity mutation runs inside one Store unit of work so partial
// state never persists.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/budgetbox/backend/internal/cache"
	"github.com/budgetbox/backend/internal/config"
	"github.com/budgetbox/backend/internal/email"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/sirupsen/logrus"
)

// ErrNotFound mirrors repository.ErrNotFound: the record is missing or
// owned by another user, and callers cannot tell which.
var ErrNotFound = repository.ErrNotFound

// ErrInvalidCredentials is returned on failed login or password change.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ConflictError reports a business-rule conflict that is not scoped to
// a single field, such as an overlapping budget period.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func conflictf(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// How long cached statistics may be served before recomputation.
const statisticsTTL = 5 * time.Minute

// Service handles business logic
type Service struct {
	store  repository.Store
	cache  cache.Cache
	log    *logrus.Logger
	config *config.Config
	mail   *email.Sender
}

// NewService initializes a new service. mail may be nil when SMTP is
// not configured.
func NewService(store repository.Store, c cache.Cache, log *logrus.Logger, cfg *config.Config, mail *email.Sender) *Service {
	return &Service{store: store, cache: c, log: log, config: cfg, mail: mail}
}

// invalidateUserCache drops every cached aggregate for the user. It is
// called after any write touching the user's transactions; readers
// rebuild on next access.
func (s *Service) invalidateUserCache(userID int64) {
	s.cache.DeleteMany(
		fmt.Sprintf("user_statistics_%d", userID),
		fmt.Sprintf("user_transactions_%d", userID),
		fmt.Sprintf("user_balance_%d", userID),
	)
}

func statisticsCacheKey(userID int64) string {
	return fmt.Sprintf("user_statistics_%d", userID)
}
