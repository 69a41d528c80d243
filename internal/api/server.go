// Package api exposes the REST surface over the service layer.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v78"

	"github.com/fintrackhq/fintrack/internal/charts"
	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
	"github.com/fintrackhq/fintrack/internal/service"
)

// PaymentProvider is the billing surface the handlers need.
// billing.Service is the real implementation.
type PaymentProvider interface {
	CreateSubscriptionIntent(ctx context.Context, planType string, amountCents int64) (string, error)
	VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

// BankService is the bank-linking surface. bank.Service is the real
// implementation; nil disables the Plaid routes.
type BankService interface {
	LinkToken(ctx context.Context, userID int64) (string, error)
	ExchangeAndStore(ctx context.Context, userID int64, publicToken string) error
	SyncAccount(ctx context.Context, userID int64, accountID string) (int, error)
}

// Options collects the server's collaborators.
type Options struct {
	Tracker  *service.FinanceTracker
	Repo     repository.Repository
	Payments PaymentProvider
	Bank     BankService
	Charts   *charts.Generator
	Logger   *slog.Logger

	// UserID is the single-tenant account billing and bank linking
	// operate on. Defaults to 1.
	UserID int64
}

// Server is the HTTP API. It implements http.Handler.
type Server struct {
	tracker  *service.FinanceTracker
	repo     repository.Repository
	payments PaymentProvider
	bank     BankService
	charts   *charts.Generator
	logger   *slog.Logger
	userID   int64
	router   *mux.Router
}

// NewServer builds the router over the given collaborators.
func NewServer(opts Options) *Server {
	s := &Server{
		tracker:  opts.Tracker,
		repo:     opts.Repo,
		payments: opts.Payments,
		bank:     opts.Bank,
		charts:   opts.Charts,
		logger:   opts.Logger,
		userID:   opts.UserID,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.charts == nil {
		s.charts = charts.NewGenerator(model.DefaultCurrency)
	}
	if s.userID == 0 {
		s.userID = 1
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/transactions", s.listTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.createTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", s.updateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id}", s.deleteTransaction).Methods(http.MethodDelete)

	api.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.createCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", s.updateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", s.deleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/loans", s.listLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans", s.createLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}", s.getLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", s.updateLoan).Methods(http.MethodPut)
	api.HandleFunc("/loans/{id}", s.deleteLoan).Methods(http.MethodDelete)

	api.HandleFunc("/budgets", s.listBudgets).Methods(http.MethodGet)
	api.HandleFunc("/budgets", s.createBudget).Methods(http.MethodPost)
	api.HandleFunc("/budgets/{id}", s.updateBudget).Methods(http.MethodPut)
	api.HandleFunc("/budgets/{id}", s.deleteBudget).Methods(http.MethodDelete)

	api.HandleFunc("/goals", s.listGoals).Methods(http.MethodGet)
	api.HandleFunc("/goals", s.createGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}", s.updateGoal).Methods(http.MethodPut)
	api.HandleFunc("/goals/{id}", s.deleteGoal).Methods(http.MethodDelete)

	api.HandleFunc("/analytics/overview", s.analyticsOverview).Methods(http.MethodGet)
	api.HandleFunc("/analytics/category-breakdown", s.categoryBreakdown).Methods(http.MethodGet)
	api.HandleFunc("/analytics/category-chart", s.categoryChart).Methods(http.MethodGet)

	api.HandleFunc("/export/transactions", s.exportTransactions).Methods(http.MethodGet)

	api.HandleFunc("/create-subscription-intent", s.createSubscriptionIntent).Methods(http.MethodPost)
	api.HandleFunc("/stripe-webhook", s.stripeWebhook).Methods(http.MethodPost)
	api.HandleFunc("/subscription/plan", s.subscriptionPlan).Methods(http.MethodGet)

	api.HandleFunc("/bank-accounts", s.listBankAccounts).Methods(http.MethodGet)
	api.HandleFunc("/bank-accounts/sync", s.syncBankAccount).Methods(http.MethodPost)
	api.HandleFunc("/plaid/create-link-token", s.createLinkToken).Methods(http.MethodGet)
	api.HandleFunc("/plaid/exchange-public-token", s.exchangePublicToken).Methods(http.MethodPost)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
