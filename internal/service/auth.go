package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Categories provisioned for every new user.
var defaultRegistrationCategories = []struct {
	Name string
	Type string
}{
	{"Salary", models.CategoryTypeIncome},
	{"Freelance", models.CategoryTypeIncome},
	{"Other Income", models.CategoryTypeIncome},
	{"Rent/Mortgage", models.CategoryTypeExpense},
	{"Groceries", models.CategoryTypeExpense},
	{"Transport", models.CategoryTypeExpense},
	{"Utilities", models.CategoryTypeExpense},
	{"Entertainment", models.CategoryTypeExpense},
	{"Other Expense", models.CategoryTypeExpense},
}

// RegisterResult is returned on successful registration.
type RegisterResult struct {
	User              *models.User
	Token             string
	CategoriesCreated int
}

// Register creates a new user with hashed password, provisions the
// default category set and issues an auth token.
func (s *Service) Register(ctx context.Context, in validation.RegisterInput) (*RegisterResult, error) {
	errs := validation.ValidateRegister(&in)

	if !errs.Any() {
		if _, err := s.store.FindUserByUsername(ctx, in.Username); err == nil {
			errs.Add("username", "A user with this username already exists.")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		inUse, err := s.store.EmailInUse(ctx, in.Email, 0)
		if err != nil {
			return nil, err
		}
		if inUse {
			errs.Add("email", "A user with this email already exists.")
		}
	}
	if errs.Any() {
		return nil, errs
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hashedPassword),
	}

	err = s.store.WithinTx(ctx, func(store repository.Store) error {
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}
		for _, c := range defaultRegistrationCategories {
			category := &models.Category{
				UserID:    user.ID,
				Name:      c.Name,
				Type:      c.Type,
				IsDefault: true,
				IsActive:  true,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if s.mail != nil {
		// Delivery failures must not fail registration.
		if err := s.mail.SendWelcome(user.Email, user.FirstName); err != nil {
			s.log.Warnf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	s.log.Infof("User registered: %s", user.Email)
	return &RegisterResult{
		User:              user,
		Token:             token,
		CategoriesCreated: len(defaultRegistrationCategories),
	}, nil
}

// LoginResult is returned on successful login.
type LoginResult struct {
	User    *models.User
	Token   string
	Summary *models.UserCounts
}

// Login authenticates a user and returns a fresh token plus a summary
// of what the user owns.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.store.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	summary, err := s.store.CountUserRecords(ctx, user.ID, models.Today())
	if err != nil {
		return nil, err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return &LoginResult{User: user, Token: token, Summary: summary}, nil
}

// issueToken signs a JWT whose id is persisted for revocation.
func (s *Service) issueToken(ctx context.Context, userID int64) (string, error) {
	record := &models.AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.TokenTTLHours) * time.Hour),
	}
	if err := s.store.CreateAuthToken(ctx, record); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        record.ID.String(),
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
	})
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a bearer token: valid signature, unexpired,
// and still present server-side (not revoked by logout). It returns
// the authenticated user.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	record, err := s.store.FindAuthToken(ctx, tokenID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByID(ctx, record.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	}); err != nil {
		return ErrInvalidCredentials
	}
	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return ErrInvalidCredentials
	}
	return s.store.DeleteAuthToken(ctx, tokenID)
}

// Profile returns the user plus a financial rollup: net worth across
// active accounts and the current calendar month's flows.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, *models.FinancialSummary, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	active := true
	accounts, err := s.store.ListAccounts(ctx, userID, repository.AccountFilter{IsActive: &active})
	if err != nil {
		return nil, nil, err
	}
	summary := &models.FinancialSummary{}
	for _, account := range accounts {
		summary.NetWorth = summary.NetWorth.Add(account.CurrentBalance)
	}

	today := models.Today()
	monthStart := models.NewDate(today.Year(), today.Month(), 1)
	transactions, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{DateFrom: &monthStart})
	if err != nil {
		return nil, nil, err
	}
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.MonthlyIncome = summary.MonthlyIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			summary.MonthlyExpenses = summary.MonthlyExpenses.Add(tx.Amount.Abs())
		}
	}
	summary.MonthlySavings = summary.MonthlyIncome.Sub(summary.MonthlyExpenses)

	return user, summary, nil
}

// ProfileUpdate is the partial-update payload for a profile.
type ProfileUpdate struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

// UpdateProfile applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	if in.Email != nil {
		email := *in.Email
		validation.ValidateEmail(&email, errs)
		if !errs.Any() {
			inUse, err := s.store.EmailInUse(ctx, email, userID)
			if err != nil {
				return nil, err
			}
			if inUse {
				errs.Add("email", "A user with this email already exists.")
			}
			user.Email = email
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Password != nil {
		validation.ValidatePassword(*in.Password, errs)
		if !errs.Any() {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			user.PasswordHash = string(hashed)
		}
	}
	if errs.Any() {
		return nil, errs
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Infof("Profile updated: %s", user.Username)
	return user, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	errs := validation.Errors{}
	validation.ValidatePassword(newPassword, errs)
	if errs.Any() {
		return errs
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	s.log.Infof("Password changed for user %d", userID)
	return nil
}
