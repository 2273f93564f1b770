package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"database/sql"

	"github.com/budgetbox/backend/internal/cache"
	"github.com/budgetbox/backend/internal/config"
	"github.com/budgetbox/backend/internal/email"
	"github.com/budgetbox/backend/internal/handler"
	"github.com/budgetbox/backend/internal/middleware"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/service"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	var mailer *email.Sender
	if cfg.MailEnabled() {
		mailer = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, cache.NewMemory(), logger, cfg, mailer)
	h := handler.NewHandler(svc, logger)

	// Nightly cleanup of expired auth tokens
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 3 * * *", func() {
		deleted, err := repo.DeleteExpiredAuthTokens(context.Background())
		if err != nil {
			logger.Errorf("Token cleanup failed: %v", err)
			return
		}
		logger.Infof("Token cleanup: %d expired tokens removed", deleted)
	}); err != nil {
		logger.Fatalf("Failed to schedule token cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := api.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(svc))

	authRouter.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	authRouter.HandleFunc("/auth/profile", h.Profile).Methods("GET")
	authRouter.HandleFunc("/auth/profile/update", h.UpdateProfile).Methods("PATCH")
	authRouter.HandleFunc("/auth/change-password", h.ChangePassword).Methods("POST")

	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	authRouter.HandleFunc("/accounts/summary", h.AccountSummary).Methods("GET")
	authRouter.HandleFunc("/accounts/{id}", h.GetAccount).Methods("GET")
	authRouter.HandleFunc("/accounts/{id}", h.UpdateAccount).Methods("PATCH")
	authRouter.HandleFunc("/accounts/{id}", h.DeleteAccount).Methods("DELETE")
	authRouter.HandleFunc("/accounts/{id}/statement", h.AccountStatement).Methods("GET")
	authRouter.HandleFunc("/accounts/{id}/transfer", h.Transfer).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}/deactivate", h.DeactivateAccount).Methods("POST")

	authRouter.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	authRouter.HandleFunc("/categories", h.ListCategories).Methods("GET")
	authRouter.HandleFunc("/categories/set_defaults", h.SetDefaultCategories).Methods("POST")
	authRouter.HandleFunc("/categories/{id}", h.GetCategory).Methods("GET")
	authRouter.HandleFunc("/categories/{id}", h.UpdateCategory).Methods("PATCH")
	authRouter.HandleFunc("/categories/{id}", h.DeleteCategory).Methods("DELETE")
	authRouter.HandleFunc("/categories/{id}/usage", h.CategoryUsage).Methods("GET")
	authRouter.HandleFunc("/categories/{id}/reassign_transactions", h.ReassignCategory).Methods("POST")

	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions/statistics", h.Statistics).Methods("GET")
	authRouter.HandleFunc("/transactions/monthly_summary", h.MonthlySummary).Methods("GET")
	authRouter.HandleFunc("/transactions/bulk_categorize", h.BulkCategorize).Methods("POST")
	authRouter.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	authRouter.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PATCH")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	authRouter.HandleFunc("/transactions/{id}/duplicate", h.DuplicateTransaction).Methods("POST")

	authRouter.HandleFunc("/budgets", h.CreateBudget).Methods("POST")
	authRouter.HandleFunc("/budgets", h.ListBudgets).Methods("GET")
	authRouter.HandleFunc("/budgets/overview", h.BudgetOverview).Methods("GET")
	authRouter.HandleFunc("/budgets/recommendations", h.BudgetRecommendations).Methods("GET")
	authRouter.HandleFunc("/budgets/bulk_create", h.BulkCreateBudgets).Methods("POST")
	authRouter.HandleFunc("/budgets/{id}", h.GetBudget).Methods("GET")
	authRouter.HandleFunc("/budgets/{id}", h.UpdateBudget).Methods("PATCH")
	authRouter.HandleFunc("/budgets/{id}", h.DeleteBudget).Methods("DELETE")
	authRouter.HandleFunc("/budgets/{id}/progress", h.BudgetProgress).Methods("GET")
	authRouter.HandleFunc("/budgets/{id}/clone", h.CloneBudget).Methods("POST")
	authRouter.HandleFunc("/budgets/{id}/deactivate", h.DeactivateBudget).Methods("POST")
	authRouter.HandleFunc("/budgets/{id}/reactivate", h.ReactivateBudget).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
