package bank

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
)

type fakeAggregator struct {
	accounts     []model.BankAccount
	transactions []model.BankTransaction

	linkRequests []string
	sinceSeen    time.Time
}

func (f *fakeAggregator) CreateLinkToken(ctx context.Context, clientUserID string) (string, error) {
	f.linkRequests = append(f.linkRequests, clientUserID)
	return "link-sandbox-token", nil
}

func (f *fakeAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	return "access-" + publicToken, "item-1", nil
}

func (f *fakeAggregator) Accounts(ctx context.Context, accessToken string) ([]model.BankAccount, error) {
	return f.accounts, nil
}

func (f *fakeAggregator) Transactions(ctx context.Context, accessToken, accountID string, since time.Time) ([]model.BankTransaction, error) {
	f.sinceSeen = since
	return f.transactions, nil
}

func newBankService(t *testing.T) (*Service, *fakeAggregator, repository.Repository, int64) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	owner := &model.User{Username: "owner", Password: "x"}
	if err := repo.CreateUser(context.Background(), owner); err != nil {
		t.Fatalf("create user: %v", err)
	}
	agg := &fakeAggregator{
		accounts: []model.BankAccount{
			{AccountID: "acc-1", Name: "Checking", Type: "depository", CurrentBalance: decimal.NewFromInt(1200)},
		},
		transactions: []model.BankTransaction{
			{TransactionID: "tx-1", AccountID: "acc-1", Amount: decimal.NewFromFloat(12.30), Date: time.Now().UTC(), Name: "Coffee"},
			{TransactionID: "tx-2", AccountID: "acc-1", Amount: decimal.NewFromInt(55), Date: time.Now().UTC(), Name: "Groceries"},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, agg, logger), agg, repo, owner.ID
}

func TestLinkToken(t *testing.T) {
	svc, agg, _, userID := newBankService(t)

	token, err := svc.LinkToken(context.Background(), userID)
	if err != nil {
		t.Fatalf("LinkToken: %v", err)
	}
	if token != "link-sandbox-token" {
		t.Errorf("token = %q", token)
	}
	if len(agg.linkRequests) != 1 || agg.linkRequests[0] != "1" {
		t.Errorf("aggregator saw client user ids %v", agg.linkRequests)
	}
}

func TestExchangeAndStore(t *testing.T) {
	svc, _, repo, userID := newBankService(t)
	ctx := context.Background()

	if err := svc.ExchangeAndStore(ctx, userID, "public-abc"); err != nil {
		t.Fatalf("ExchangeAndStore: %v", err)
	}

	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.PlaidAccessToken != "access-public-abc" || user.PlaidItemID != "item-1" {
		t.Errorf("stored tokens = %q, %q", user.PlaidAccessToken, user.PlaidItemID)
	}

	// The initial sync mirrors the accounts.
	accounts, err := svc.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountID != "acc-1" {
		t.Errorf("accounts = %+v", accounts)
	}
}

func TestSyncAccount(t *testing.T) {
	svc, agg, repo, userID := newBankService(t)
	ctx := context.Background()

	if err := svc.ExchangeAndStore(ctx, userID, "public-abc"); err != nil {
		t.Fatalf("ExchangeAndStore: %v", err)
	}

	imported, err := svc.SyncAccount(ctx, userID, "acc-1")
	if err != nil {
		t.Fatalf("SyncAccount: %v", err)
	}
	if imported != 2 {
		t.Errorf("imported = %d, want 2", imported)
	}

	window := time.Since(agg.sinceSeen)
	if window < 29*24*time.Hour || window > 31*24*time.Hour {
		t.Errorf("sync window = %s", window)
	}

	txs, err := repo.GetBankTransactions(ctx, "acc-1")
	if err != nil {
		t.Fatalf("GetBankTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("stored %d transactions", len(txs))
	}

	// Re-sync does not duplicate.
	if _, err := svc.SyncAccount(ctx, userID, "acc-1"); err != nil {
		t.Fatalf("second SyncAccount: %v", err)
	}
	txs, _ = repo.GetBankTransactions(ctx, "acc-1")
	if len(txs) != 2 {
		t.Errorf("re-sync duplicated rows: %d", len(txs))
	}
}

func TestSyncAccountRequiresLink(t *testing.T) {
	svc, _, _, userID := newBankService(t)

	if _, err := svc.SyncAccount(context.Background(), userID, "acc-1"); err == nil {
		t.Error("sync without a linked account should fail")
	}
}
