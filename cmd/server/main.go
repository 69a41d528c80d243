package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fintrackhq/fintrack/internal/api"
	"github.com/fintrackhq/fintrack/internal/bank"
	"github.com/fintrackhq/fintrack/internal/billing"
	"github.com/fintrackhq/fintrack/internal/config"
	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/notify"
	"github.com/fintrackhq/fintrack/internal/repository"
	"github.com/fintrackhq/fintrack/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine in deployed environments.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := repo.SeedDefaultCategories(ctx); err != nil {
		logger.Error("failed to seed categories", "error", err)
		os.Exit(1)
	}
	owner, err := ensureOwner(ctx, repo)
	if err != nil {
		logger.Error("failed to ensure account user", "error", err)
		os.Exit(1)
	}

	var notifier service.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, model.DefaultCurrency)
		if err != nil {
			logger.Error("failed to start telegram notifier", "error", err)
			os.Exit(1)
		}
		notifier = tg
		logger.Info("budget alerts enabled", "chatId", cfg.TelegramChatID)
	}

	tracker := service.NewFinanceTracker(repo, notifier, logger)
	payments := billing.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var bankSvc api.BankService
	if cfg.PlaidClientID != "" && cfg.PlaidSecret != "" {
		plaid := bank.NewPlaidClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnvironment)
		bankSvc = bank.NewService(repo, plaid, logger)
		logger.Info("bank linking enabled", "environment", cfg.PlaidEnvironment)
	}

	server := api.NewServer(api.Options{
		Tracker:  tracker,
		Repo:     repo,
		Payments: payments,
		Bank:     bankSvc,
		Logger:   logger,
		UserID:   owner.ID,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

func openRepository(cfg *config.Config, logger *slog.Logger) (repository.Repository, error) {
	if cfg.DatabasePath == "" {
		logger.Warn("DATABASE_PATH not set, using in-memory storage")
		return repository.NewMemoryRepository(), nil
	}
	logger.Info("using sqlite storage", "path", cfg.DatabasePath)
	return repository.NewGormRepository(cfg.DatabasePath)
}

// ensureOwner gets or creates the single account user every request
// operates on.
func ensureOwner(ctx context.Context, repo repository.Repository) (*model.User, error) {
	owner, err := repo.GetUserByUsername(ctx, "owner")
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	owner = &model.User{
		Username:           "owner",
		Password:           "unused-single-tenant",
		SubscriptionStatus: model.SubscriptionFree,
	}
	if err := repo.CreateUser(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}
