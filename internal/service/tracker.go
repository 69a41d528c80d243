// Package service holds the application logic between the HTTP
// surface and the storage layer: validation, analytics, budget alert
// evaluation, and export.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
)

// Notifier delivers budget alerts out of band. Implementations must
// tolerate being called from request handling; failures are logged,
// not surfaced to the client.
type Notifier interface {
	BudgetAlert(ctx context.Context, budget model.Budget, progress float64) error
}

// FinanceTracker orchestrates finance records over a Repository.
type FinanceTracker struct {
	repo     repository.Repository
	notifier Notifier
	logger   *slog.Logger
}

// NewFinanceTracker wires the tracker. notifier may be nil, in which
// case budget alerts are silently skipped.
func NewFinanceTracker(repo repository.Repository, notifier Notifier, logger *slog.Logger) *FinanceTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinanceTracker{repo: repo, notifier: notifier, logger: logger}
}

// Transactions

func (s *FinanceTracker) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.repo.GetTransactions(ctx, filter)
}

func (s *FinanceTracker) AddTransaction(ctx context.Context, t *model.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Amount = t.Amount.Round(2)
	return s.repo.CreateTransaction(ctx, t)
}

func (s *FinanceTracker) UpdateTransaction(ctx context.Context, id int64, patch model.TransactionPatch) (*model.Transaction, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Amount != nil {
		rounded := patch.Amount.Round(2)
		patch.Amount = &rounded
	}
	return s.repo.UpdateTransaction(ctx, id, patch)
}

func (s *FinanceTracker) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteTransaction(ctx, id)
}

// Categories

func (s *FinanceTracker) ListCategories(ctx context.Context, typeFilter model.TransactionType) ([]model.Category, error) {
	return s.repo.GetCategories(ctx, typeFilter)
}

func (s *FinanceTracker) AddCategory(ctx context.Context, c *model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *FinanceTracker) UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) (*model.Category, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateCategory(ctx, id, patch)
}

func (s *FinanceTracker) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteCategory(ctx, id)
}

// Loans

// LoanView is a loan plus its payoff progress percentage, computed
// server-side so the divide-by-zero guard lives in one place.
type LoanView struct {
	model.Loan
	Progress float64 `json:"progress"`
}

func (s *FinanceTracker) ListLoans(ctx context.Context) ([]LoanView, error) {
	loans, err := s.repo.GetLoans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LoanView, len(loans))
	for i, l := range loans {
		out[i] = LoanView{Loan: l, Progress: l.Progress()}
	}
	return out, nil
}

func (s *FinanceTracker) GetLoan(ctx context.Context, id int64) (*LoanView, error) {
	l, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LoanView{Loan: *l, Progress: l.Progress()}, nil
}

func (s *FinanceTracker) AddLoan(ctx context.Context, l *model.Loan) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return s.repo.CreateLoan(ctx, l)
}

func (s *FinanceTracker) UpdateLoan(ctx context.Context, id int64, patch model.LoanPatch) (*LoanView, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	l, err := s.repo.UpdateLoan(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return &LoanView{Loan: *l, Progress: l.Progress()}, nil
}

func (s *FinanceTracker) DeleteLoan(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteLoan(ctx, id)
}

// Goals

func (s *FinanceTracker) ListGoals(ctx context.Context) ([]model.Goal, error) {
	return s.repo.GetGoals(ctx)
}

func (s *FinanceTracker) AddGoal(ctx context.Context, g *model.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.repo.CreateGoal(ctx, g)
}

func (s *FinanceTracker) UpdateGoal(ctx context.Context, id int64, patch model.GoalPatch) (*model.Goal, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateGoal(ctx, id, patch)
}

func (s *FinanceTracker) DeleteGoal(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteGoal(ctx, id)
}

// Analytics

// Overview is the dashboard headline: totals over an optional date
// range. The loan balance ignores the range; it is a point-in-time
// figure over active loans.
type Overview struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetBalance       decimal.Decimal `json:"netBalance"`
	TotalLoanBalance decimal.Decimal `json:"totalLoanBalance"`
}

func (s *FinanceTracker) Overview(ctx context.Context, rng *repository.DateRange) (*Overview, error) {
	income, err := s.repo.TotalIncome(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to compute total income: %w", err)
	}
	expenses, err := s.repo.TotalExpenses(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to compute total expenses: %w", err)
	}
	balance, err := s.repo.NetBalance(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to compute net balance: %w", err)
	}
	loanBalance, err := s.repo.TotalLoanBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute loan balance: %w", err)
	}
	return &Overview{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		NetBalance:       balance,
		TotalLoanBalance: loanBalance,
	}, nil
}

func (s *FinanceTracker) CategoryBreakdown(ctx context.Context, t model.TransactionType, rng *repository.DateRange) ([]repository.CategoryAmount, error) {
	if t == "" {
		t = model.TypeExpense
	}
	return s.repo.CategoryBreakdown(ctx, t, rng)
}
