package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

// backends returns a factory per implementation so every subtest gets
// a fresh store. The same suite runs over both; any divergence in
// results is a bug in one of them.
func backends(t *testing.T) map[string]func(t *testing.T) Repository {
	return map[string]func(t *testing.T) Repository{
		"memory": func(t *testing.T) Repository {
			return NewMemoryRepository()
		},
		"gorm": func(t *testing.T) Repository {
			repo, err := NewGormRepository(filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			return repo
		},
	}
}

func runOverBackends(t *testing.T, fn func(t *testing.T, repo Repository)) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustCreateTransaction(t *testing.T, repo Repository, typ model.TransactionType, amount, category string, when time.Time) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{
		Type:        typ,
		Amount:      dec(amount),
		Category:    category,
		Description: "test " + category,
		Date:        when,
	}
	if err := repo.CreateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return tx
}

func TestTransactionLifecycle(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		created := mustCreateTransaction(t, repo, model.TypeExpense, "42.50", "Food & Dining", date(2024, time.March, 10))
		if created.ID == 0 {
			t.Fatal("expected a server-assigned id")
		}

		got, err := repo.GetTransactions(ctx, TransactionFilter{})
		if err != nil {
			t.Fatalf("GetTransactions: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(got))
		}
		if got[0].ID != created.ID || !got[0].Amount.Equal(dec("42.50")) || got[0].Category != "Food & Dining" {
			t.Errorf("round-trip mismatch: %+v", got[0])
		}

		newAmount := dec("50.00")
		updated, err := repo.UpdateTransaction(ctx, created.ID, model.TransactionPatch{Amount: &newAmount})
		if err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}
		if !updated.Amount.Equal(newAmount) {
			t.Errorf("amount not updated, got %s", updated.Amount)
		}
		if updated.Category != "Food & Dining" {
			t.Errorf("unpatched field changed: %q", updated.Category)
		}

		deleted, err := repo.DeleteTransaction(ctx, created.ID)
		if err != nil || !deleted {
			t.Fatalf("DeleteTransaction = %v, %v; want true, nil", deleted, err)
		}
		deleted, err = repo.DeleteTransaction(ctx, created.ID)
		if err != nil || deleted {
			t.Fatalf("second delete = %v, %v; want false, nil", deleted, err)
		}
	})
}

func TestTransactionFilterAndOrder(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		mustCreateTransaction(t, repo, model.TypeIncome, "1000", "Salary", date(2024, time.January, 1))
		mustCreateTransaction(t, repo, model.TypeExpense, "200", "Food & Dining", date(2024, time.January, 2))
		mustCreateTransaction(t, repo, model.TypeExpense, "75", "Transportation", date(2024, time.January, 5))

		expenses, err := repo.GetTransactions(ctx, TransactionFilter{Type: model.TypeExpense})
		if err != nil {
			t.Fatalf("GetTransactions: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(expenses))
		}
		// Newest first.
		if expenses[0].Category != "Transportation" || expenses[1].Category != "Food & Dining" {
			t.Errorf("wrong order: %q then %q", expenses[0].Category, expenses[1].Category)
		}

		// Bounds are inclusive.
		start := date(2024, time.January, 2)
		end := date(2024, time.January, 2)
		inRange, err := repo.GetTransactions(ctx, TransactionFilter{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("GetTransactions: %v", err)
		}
		if len(inRange) != 1 || inRange[0].Category != "Food & Dining" {
			t.Errorf("inclusive date filter returned %d rows", len(inRange))
		}
	})
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		if _, err := repo.UpdateTransaction(ctx, 999, model.TransactionPatch{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateTransaction on missing id: %v", err)
		}
		if _, err := repo.UpdateCategory(ctx, 999, model.CategoryPatch{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateCategory on missing id: %v", err)
		}
		if _, err := repo.UpdateLoan(ctx, 999, model.LoanPatch{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateLoan on missing id: %v", err)
		}
		if _, err := repo.UpdateBudget(ctx, 999, model.BudgetPatch{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateBudget on missing id: %v", err)
		}
		if _, err := repo.UpdateGoal(ctx, 999, model.GoalPatch{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateGoal on missing id: %v", err)
		}
		if _, err := repo.GetLoan(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetLoan on missing id: %v", err)
		}
	})
}

func TestSeedDefaultCategories(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		if err := repo.SeedDefaultCategories(ctx); err != nil {
			t.Fatalf("SeedDefaultCategories: %v", err)
		}
		cats, err := repo.GetCategories(ctx, "")
		if err != nil {
			t.Fatalf("GetCategories: %v", err)
		}
		if len(cats) != len(model.DefaultCategories) {
			t.Fatalf("expected %d categories, got %d", len(model.DefaultCategories), len(cats))
		}

		// Second seed is a no-op.
		if err := repo.SeedDefaultCategories(ctx); err != nil {
			t.Fatalf("second seed: %v", err)
		}
		cats, err = repo.GetCategories(ctx, "")
		if err != nil {
			t.Fatalf("GetCategories: %v", err)
		}
		if len(cats) != len(model.DefaultCategories) {
			t.Errorf("second seed duplicated rows: %d", len(cats))
		}
	})
}

func TestSeedSkipsPopulatedStore(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		custom := &model.Category{Name: "Groceries", Type: model.TypeExpense, Color: "#22c55e", Icon: "cart"}
		if err := repo.CreateCategory(ctx, custom); err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		if err := repo.SeedDefaultCategories(ctx); err != nil {
			t.Fatalf("SeedDefaultCategories: %v", err)
		}
		cats, err := repo.GetCategories(ctx, "")
		if err != nil {
			t.Fatalf("GetCategories: %v", err)
		}
		if len(cats) != 1 {
			t.Errorf("seed ran over a populated store: %d categories", len(cats))
		}
	})
}

func TestAggregates(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		mustCreateTransaction(t, repo, model.TypeIncome, "1000", "Salary", date(2024, time.June, 1))
		mustCreateTransaction(t, repo, model.TypeExpense, "200", "Food & Dining", date(2024, time.June, 2))
		mustCreateTransaction(t, repo, model.TypeBusiness, "50", "Travel", date(2024, time.June, 3))

		income, err := repo.TotalIncome(ctx, nil)
		if err != nil {
			t.Fatalf("TotalIncome: %v", err)
		}
		if !income.Equal(dec("1000")) {
			t.Errorf("TotalIncome = %s, want 1000", income)
		}

		// Business spend counts as an expense.
		expenses, err := repo.TotalExpenses(ctx, nil)
		if err != nil {
			t.Fatalf("TotalExpenses: %v", err)
		}
		if !expenses.Equal(dec("250")) {
			t.Errorf("TotalExpenses = %s, want 250", expenses)
		}

		balance, err := repo.NetBalance(ctx, nil)
		if err != nil {
			t.Fatalf("NetBalance: %v", err)
		}
		if !balance.Equal(income.Sub(expenses)) {
			t.Errorf("NetBalance = %s, want income-expenses = %s", balance, income.Sub(expenses))
		}
	})
}

func TestAggregatesRespectDateRange(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		mustCreateTransaction(t, repo, model.TypeIncome, "1000", "Salary", date(2024, time.June, 1))
		mustCreateTransaction(t, repo, model.TypeIncome, "500", "Freelance", date(2024, time.July, 1))

		rng := &DateRange{Start: date(2024, time.June, 1), End: date(2024, time.June, 30)}
		income, err := repo.TotalIncome(ctx, rng)
		if err != nil {
			t.Fatalf("TotalIncome: %v", err)
		}
		if !income.Equal(dec("1000")) {
			t.Errorf("ranged TotalIncome = %s, want 1000", income)
		}
	})
}

func TestAggregatesEmptyStore(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		income, err := repo.TotalIncome(ctx, nil)
		if err != nil {
			t.Fatalf("TotalIncome: %v", err)
		}
		if !income.Equal(decimal.Zero) {
			t.Errorf("empty TotalIncome = %s, want 0", income)
		}

		breakdown, err := repo.CategoryBreakdown(ctx, model.TypeExpense, nil)
		if err != nil {
			t.Fatalf("CategoryBreakdown: %v", err)
		}
		if len(breakdown) != 0 {
			t.Errorf("empty breakdown has %d rows", len(breakdown))
		}
	})
}

func TestCategoryBreakdownOrdering(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		mustCreateTransaction(t, repo, model.TypeExpense, "100", "Shopping", date(2024, time.June, 1))
		mustCreateTransaction(t, repo, model.TypeExpense, "150.25", "Food & Dining", date(2024, time.June, 2))
		mustCreateTransaction(t, repo, model.TypeExpense, "49.75", "Food & Dining", date(2024, time.June, 3))
		mustCreateTransaction(t, repo, model.TypeExpense, "100", "Entertainment", date(2024, time.June, 4))
		mustCreateTransaction(t, repo, model.TypeIncome, "5000", "Salary", date(2024, time.June, 5))

		rows, err := repo.CategoryBreakdown(ctx, model.TypeExpense, nil)
		if err != nil {
			t.Fatalf("CategoryBreakdown: %v", err)
		}
		want := []CategoryAmount{
			{Category: "Food & Dining", Amount: dec("200")},
			{Category: "Entertainment", Amount: dec("100")},
			{Category: "Shopping", Amount: dec("100")},
		}
		if len(rows) != len(want) {
			t.Fatalf("expected %d rows, got %d: %+v", len(want), len(rows), rows)
		}
		for i := range want {
			if rows[i].Category != want[i].Category || !rows[i].Amount.Equal(want[i].Amount) {
				t.Errorf("row %d = {%s %s}, want {%s %s}",
					i, rows[i].Category, rows[i].Amount, want[i].Category, want[i].Amount)
			}
		}
	})
}

func TestLoanBalanceCountsActiveOnly(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		active := &model.Loan{Name: "Car", TotalAmount: dec("10000"), RemainingAmount: dec("4000")}
		paid := &model.Loan{Name: "Phone", TotalAmount: dec("800"), RemainingAmount: dec("0"), Status: model.LoanPaid}
		if err := repo.CreateLoan(ctx, active); err != nil {
			t.Fatalf("CreateLoan: %v", err)
		}
		if err := repo.CreateLoan(ctx, paid); err != nil {
			t.Fatalf("CreateLoan: %v", err)
		}
		if active.Status != model.LoanActive {
			t.Errorf("loan status not defaulted: %q", active.Status)
		}

		balance, err := repo.TotalLoanBalance(ctx)
		if err != nil {
			t.Fatalf("TotalLoanBalance: %v", err)
		}
		if !balance.Equal(dec("4000")) {
			t.Errorf("TotalLoanBalance = %s, want 4000", balance)
		}
	})
}

func TestBudgetDefaultsAndPatch(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		b := &model.Budget{
			UserID:       1,
			Name:         "Monthly food",
			TargetAmount: dec("500"),
			Period:       model.PeriodMonthly,
			StartDate:    date(2024, time.June, 1),
			EndDate:      date(2024, time.June, 30),
			IsActive:     true,
		}
		if err := repo.CreateBudget(ctx, b); err != nil {
			t.Fatalf("CreateBudget: %v", err)
		}
		if !b.AlertThreshold.Equal(model.DefaultAlertThreshold) {
			t.Errorf("threshold not defaulted: %s", b.AlertThreshold)
		}

		spent := dec("420")
		updated, err := repo.UpdateBudget(ctx, b.ID, model.BudgetPatch{CurrentAmount: &spent})
		if err != nil {
			t.Fatalf("UpdateBudget: %v", err)
		}
		if !updated.CurrentAmount.Equal(spent) {
			t.Errorf("CurrentAmount = %s, want 420", updated.CurrentAmount)
		}
		if updated.Name != "Monthly food" {
			t.Errorf("unpatched field changed: %q", updated.Name)
		}
	})
}

func TestUserRoundTrip(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		u := &model.User{Username: "owner", Password: "secret"}
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if u.SubscriptionStatus != model.SubscriptionFree {
			t.Errorf("subscription status not defaulted: %q", u.SubscriptionStatus)
		}

		byName, err := repo.GetUserByUsername(ctx, "owner")
		if err != nil {
			t.Fatalf("GetUserByUsername: %v", err)
		}
		if byName.ID != u.ID {
			t.Errorf("lookup id = %d, want %d", byName.ID, u.ID)
		}

		byName.SubscriptionStatus = model.SubscriptionActive
		if err := repo.UpdateUser(ctx, byName); err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		got, err := repo.GetUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetUser: %v", err)
		}
		if got.SubscriptionStatus != model.SubscriptionActive {
			t.Errorf("status after update = %q", got.SubscriptionStatus)
		}

		if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("missing user lookup: %v", err)
		}
	})
}

func TestBankUpsertsAreIdempotent(t *testing.T) {
	runOverBackends(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		first := &model.BankAccount{
			AccountID:      "acc-1",
			Name:           "Checking",
			Type:           "depository",
			CurrentBalance: dec("1200.50"),
			LastSyncedAt:   date(2024, time.June, 1),
		}
		if err := repo.UpsertBankAccount(ctx, first); err != nil {
			t.Fatalf("UpsertBankAccount: %v", err)
		}

		second := &model.BankAccount{
			AccountID:      "acc-1",
			Name:           "Checking",
			Type:           "depository",
			CurrentBalance: dec("900.00"),
			LastSyncedAt:   date(2024, time.June, 2),
		}
		if err := repo.UpsertBankAccount(ctx, second); err != nil {
			t.Fatalf("second UpsertBankAccount: %v", err)
		}

		accounts, err := repo.GetBankAccounts(ctx)
		if err != nil {
			t.Fatalf("GetBankAccounts: %v", err)
		}
		if len(accounts) != 1 {
			t.Fatalf("expected 1 account after upsert, got %d", len(accounts))
		}
		if !accounts[0].CurrentBalance.Equal(dec("900.00")) {
			t.Errorf("balance not updated: %s", accounts[0].CurrentBalance)
		}

		txs := []model.BankTransaction{
			{TransactionID: "tx-1", AccountID: "acc-1", Amount: dec("12.30"), Date: date(2024, time.June, 1), Name: "Coffee"},
			{TransactionID: "tx-2", AccountID: "acc-1", Amount: dec("55.00"), Date: date(2024, time.June, 2), Name: "Groceries"},
		}
		if err := repo.UpsertBankTransactions(ctx, txs); err != nil {
			t.Fatalf("UpsertBankTransactions: %v", err)
		}
		if err := repo.UpsertBankTransactions(ctx, txs); err != nil {
			t.Fatalf("repeat UpsertBankTransactions: %v", err)
		}

		stored, err := repo.GetBankTransactions(ctx, "acc-1")
		if err != nil {
			t.Fatalf("GetBankTransactions: %v", err)
		}
		if len(stored) != 2 {
			t.Errorf("expected 2 transactions after repeated upsert, got %d", len(stored))
		}
	})
}
