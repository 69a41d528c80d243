package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
)

func newTracker(t *testing.T) (*FinanceTracker, repository.Repository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return NewFinanceTracker(repo, nil, nil), repo
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

func addTransaction(t *testing.T, tracker *FinanceTracker, typ model.TransactionType, amount, category, description string, when time.Time) {
	t.Helper()
	err := tracker.AddTransaction(context.Background(), &model.Transaction{
		Type:        typ,
		Amount:      dec(amount),
		Category:    category,
		Description: description,
		Date:        when,
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	tracker, _ := newTracker(t)

	err := tracker.AddTransaction(context.Background(), &model.Transaction{
		Type:   "transfer",
		Amount: dec("-5"),
	})
	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := make(map[string]bool)
	for _, f := range vErr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"type", "amount", "category", "description", "date"} {
		if !fields[want] {
			t.Errorf("missing field error for %q", want)
		}
	}
}

func TestAddTransactionRoundsAmount(t *testing.T) {
	tracker, repo := newTracker(t)

	addTransaction(t, tracker, model.TypeExpense, "19.999", "Food & Dining", "rounding", date(2024, time.June, 1))

	txs, err := repo.GetTransactions(context.Background(), repository.TransactionFilter{})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if !txs[0].Amount.Equal(dec("20.00")) {
		t.Errorf("stored amount = %s, want 20.00", txs[0].Amount)
	}
}

func TestOverview(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	addTransaction(t, tracker, model.TypeIncome, "1000", "Salary", "june pay", date(2024, time.June, 1))
	addTransaction(t, tracker, model.TypeExpense, "200", "Food & Dining", "groceries", date(2024, time.June, 2))
	addTransaction(t, tracker, model.TypeBusiness, "50", "Travel", "client visit", date(2024, time.June, 3))

	overview, err := tracker.Overview(ctx, nil)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if !overview.TotalIncome.Equal(dec("1000")) {
		t.Errorf("TotalIncome = %s, want 1000", overview.TotalIncome)
	}
	if !overview.TotalExpenses.Equal(dec("250")) {
		t.Errorf("TotalExpenses = %s, want 250", overview.TotalExpenses)
	}
	if !overview.NetBalance.Equal(dec("750")) {
		t.Errorf("NetBalance = %s, want 750", overview.NetBalance)
	}

	breakdown, err := tracker.CategoryBreakdown(ctx, "", nil)
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	// Empty type defaults to expense; the business row is excluded.
	if len(breakdown) != 1 || breakdown[0].Category != "Food & Dining" || !breakdown[0].Amount.Equal(dec("200")) {
		t.Errorf("breakdown = %+v", breakdown)
	}
}

func TestLoanProgress(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		total     string
		remaining string
		want      float64
	}{
		{"partially paid", "10000", "4000", 60},
		{"fully paid", "800", "0", 100},
		{"zero total", "0", "0", 0},
	}
	for _, tc := range cases {
		loan := &model.Loan{Name: tc.name, TotalAmount: dec(tc.total), RemainingAmount: dec(tc.remaining)}
		if err := tracker.AddLoan(ctx, loan); err != nil {
			t.Fatalf("AddLoan %s: %v", tc.name, err)
		}
		view, err := tracker.GetLoan(ctx, loan.ID)
		if err != nil {
			t.Fatalf("GetLoan %s: %v", tc.name, err)
		}
		if view.Progress != tc.want {
			t.Errorf("%s: progress = %v, want %v", tc.name, view.Progress, tc.want)
		}
	}
}

func TestExportTransactionsCSV(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	addTransaction(t, tracker, model.TypeExpense, "4.50", "Food & Dining", `Coffee, "nice" one`, date(2024, time.June, 10))

	out, err := tracker.ExportTransactionsCSV(ctx)
	if err != nil {
		t.Fatalf("ExportTransactionsCSV: %v", err)
	}

	// The output must survive a strict CSV parse even with commas and
	// quotes in the description.
	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(records))
	}
	header := strings.Join(records[0], "|")
	if header != "Date|Type|Category|Description|Amount" {
		t.Errorf("header = %q", header)
	}
	row := records[1]
	if row[0] != "2024-06-10" || row[1] != "expense" || row[3] != `Coffee, "nice" one` || row[4] != "4.50" {
		t.Errorf("row = %q", row)
	}
}

func TestBudgetStatus(t *testing.T) {
	cases := []struct {
		name    string
		current string
		want    BudgetStatus
	}{
		{"under threshold", "300", BudgetOK},
		{"at threshold", "400", BudgetWarning},
		{"over threshold", "450", BudgetWarning},
		{"at target", "500", BudgetExceeded},
		{"over target", "600", BudgetExceeded},
	}
	for _, tc := range cases {
		b := &model.Budget{
			TargetAmount:   dec("500"),
			CurrentAmount:  dec(tc.current),
			AlertThreshold: model.DefaultAlertThreshold,
		}
		if got := StatusOf(b); got != tc.want {
			t.Errorf("%s: StatusOf = %q, want %q", tc.name, got, tc.want)
		}
	}
}

type recordingNotifier struct {
	alerts []float64
	err    error
}

func (n *recordingNotifier) BudgetAlert(ctx context.Context, b model.Budget, progress float64) error {
	n.alerts = append(n.alerts, progress)
	return n.err
}

func newBudget(t *testing.T, tracker *FinanceTracker, active bool) *model.Budget {
	t.Helper()
	b := &model.Budget{
		UserID:       1,
		Name:         "Food",
		TargetAmount: dec("500"),
		Period:       model.PeriodMonthly,
		StartDate:    date(2024, time.June, 1),
		EndDate:      date(2024, time.June, 30),
		IsActive:     active,
	}
	if err := tracker.AddBudget(context.Background(), b); err != nil {
		t.Fatalf("AddBudget: %v", err)
	}
	return b
}

func TestUpdateBudgetNotifies(t *testing.T) {
	repo := repository.NewMemoryRepository()
	notifier := &recordingNotifier{}
	tracker := NewFinanceTracker(repo, notifier, nil)
	ctx := context.Background()

	b := newBudget(t, tracker, true)

	// Below the threshold: no alert.
	spent := dec("100")
	if _, err := tracker.UpdateBudget(ctx, b.ID, model.BudgetPatch{CurrentAmount: &spent}); err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if len(notifier.alerts) != 0 {
		t.Fatalf("unexpected alert at %d%% progress", 20)
	}

	// Past the threshold: alert fires with the progress fraction.
	spent = dec("450")
	view, err := tracker.UpdateBudget(ctx, b.ID, model.BudgetPatch{CurrentAmount: &spent})
	if err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if view.Status != BudgetWarning {
		t.Errorf("status = %q, want warning", view.Status)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0] != 0.9 {
		t.Errorf("alerts = %v, want [0.9]", notifier.alerts)
	}
}

func TestUpdateBudgetSkipsInactive(t *testing.T) {
	repo := repository.NewMemoryRepository()
	notifier := &recordingNotifier{}
	tracker := NewFinanceTracker(repo, notifier, nil)
	ctx := context.Background()

	b := newBudget(t, tracker, false)

	spent := dec("600")
	view, err := tracker.UpdateBudget(ctx, b.ID, model.BudgetPatch{CurrentAmount: &spent})
	if err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if view.Status != BudgetExceeded {
		t.Errorf("status = %q, want exceeded", view.Status)
	}
	if len(notifier.alerts) != 0 {
		t.Errorf("inactive budget still alerted: %v", notifier.alerts)
	}
}

func TestUpdateBudgetAlertFailureDoesNotFailUpdate(t *testing.T) {
	repo := repository.NewMemoryRepository()
	notifier := &recordingNotifier{err: errors.New("telegram down")}
	tracker := NewFinanceTracker(repo, notifier, nil)
	ctx := context.Background()

	b := newBudget(t, tracker, true)

	spent := dec("600")
	if _, err := tracker.UpdateBudget(ctx, b.ID, model.BudgetPatch{CurrentAmount: &spent}); err != nil {
		t.Fatalf("UpdateBudget failed on alert error: %v", err)
	}
}
