// Package bank links external bank accounts through an aggregator
// and mirrors their accounts and transactions into local storage.
package bank

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
)

// Aggregator is the slice of the external provider this app needs.
// PlaidClient is the real implementation; tests substitute fakes.
type Aggregator interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	Accounts(ctx context.Context, accessToken string) ([]model.BankAccount, error)
	Transactions(ctx context.Context, accessToken, accountID string, since time.Time) ([]model.BankTransaction, error)
}

// syncWindow is how far back a manual sync reaches.
const syncWindow = 30 * 24 * time.Hour

// Service owns the link/exchange/sync flows.
type Service struct {
	repo   repository.Repository
	agg    Aggregator
	logger *slog.Logger
}

func NewService(repo repository.Repository, agg Aggregator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, agg: agg, logger: logger}
}

// LinkToken starts the linking flow for the given user.
func (s *Service) LinkToken(ctx context.Context, userID int64) (string, error) {
	return s.agg.CreateLinkToken(ctx, strconv.FormatInt(userID, 10))
}

// ExchangeAndStore trades the public token for an access token,
// stores it on the user, and runs an initial account sync.
func (s *Service) ExchangeAndStore(ctx context.Context, userID int64, publicToken string) error {
	accessToken, itemID, err := s.agg.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return err
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	user.PlaidAccessToken = accessToken
	user.PlaidItemID = itemID
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}

	_, err = s.syncAccounts(ctx, accessToken)
	return err
}

// Accounts returns the mirrored account records.
func (s *Service) Accounts(ctx context.Context) ([]model.BankAccount, error) {
	return s.repo.GetBankAccounts(ctx)
}

// SyncAccount refreshes the account record and imports its recent
// transactions. Returns the number of transactions imported.
func (s *Service) SyncAccount(ctx context.Context, userID int64, accountID string) (int, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load user: %w", err)
	}
	if user.PlaidAccessToken == "" {
		return 0, fmt.Errorf("no bank account linked")
	}

	syncID := uuid.NewString()
	s.logger.Info("bank sync started", "sync_id", syncID, "account_id", accountID)

	if _, err := s.syncAccounts(ctx, user.PlaidAccessToken); err != nil {
		return 0, err
	}

	since := time.Now().UTC().Add(-syncWindow)
	txs, err := s.agg.Transactions(ctx, user.PlaidAccessToken, accountID, since)
	if err != nil {
		return 0, err
	}
	if err := s.repo.UpsertBankTransactions(ctx, txs); err != nil {
		return 0, err
	}

	s.logger.Info("bank sync finished", "sync_id", syncID, "imported", len(txs))
	return len(txs), nil
}

func (s *Service) syncAccounts(ctx context.Context, accessToken string) ([]model.BankAccount, error) {
	accounts, err := s.agg.Accounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if err := s.repo.UpsertBankAccount(ctx, &accounts[i]); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}
