package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

// ErrNotFound is returned when an id does not exist. Handlers map it
// to a 404; it is not an internal failure.
var ErrNotFound = errors.New("record not found")

// TransactionFilter narrows GetTransactions. Zero values mean "no
// filter"; date bounds are inclusive.
type TransactionFilter struct {
	Type      model.TransactionType
	StartDate *time.Time
	EndDate   *time.Time
}

// DateRange bounds an aggregate query, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Repository is the storage contract. Two implementations exist: an
// in-memory store for single-process use and a gorm-backed SQLite
// store. Both must return identical results for identical inputs;
// conformance_test.go runs the same suite over each.
type Repository interface {
	// Transactions
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, t *model.Transaction) error
	UpdateTransaction(ctx context.Context, id int64, patch model.TransactionPatch) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) (bool, error)

	// Categories
	GetCategories(ctx context.Context, typeFilter model.TransactionType) ([]model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
	// SeedDefaultCategories inserts the stock category set. Safe to
	// call on a populated store: it is a no-op once any row exists.
	SeedDefaultCategories(ctx context.Context) error

	// Loans
	GetLoans(ctx context.Context) ([]model.Loan, error)
	GetLoan(ctx context.Context, id int64) (*model.Loan, error)
	CreateLoan(ctx context.Context, l *model.Loan) error
	UpdateLoan(ctx context.Context, id int64, patch model.LoanPatch) (*model.Loan, error)
	DeleteLoan(ctx context.Context, id int64) (bool, error)

	// Budgets
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	CreateBudget(ctx context.Context, b *model.Budget) error
	UpdateBudget(ctx context.Context, id int64, patch model.BudgetPatch) (*model.Budget, error)
	DeleteBudget(ctx context.Context, id int64) (bool, error)

	// Goals
	GetGoals(ctx context.Context) ([]model.Goal, error)
	CreateGoal(ctx context.Context, g *model.Goal) error
	UpdateGoal(ctx context.Context, id int64, patch model.GoalPatch) (*model.Goal, error)
	DeleteGoal(ctx context.Context, id int64) (bool, error)

	// Users
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, u *model.User) error

	// Bank mirrors, keyed by the aggregator's external ids.
	GetBankAccounts(ctx context.Context) ([]model.BankAccount, error)
	GetBankTransactions(ctx context.Context, accountID string) ([]model.BankTransaction, error)
	UpsertBankAccount(ctx context.Context, a *model.BankAccount) error
	UpsertBankTransactions(ctx context.Context, txs []model.BankTransaction) error

	// Aggregates. Results are rounded to 2 decimal places so the two
	// backends agree exactly.
	TotalIncome(ctx context.Context, rng *DateRange) (decimal.Decimal, error)
	TotalExpenses(ctx context.Context, rng *DateRange) (decimal.Decimal, error)
	NetBalance(ctx context.Context, rng *DateRange) (decimal.Decimal, error)
	TotalLoanBalance(ctx context.Context) (decimal.Decimal, error)
	CategoryBreakdown(ctx context.Context, t model.TransactionType, rng *DateRange) ([]CategoryAmount, error)
}
