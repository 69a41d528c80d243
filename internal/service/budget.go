package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

// BudgetStatus classifies how far along a budget is relative to its
// alert threshold.
type BudgetStatus string

const (
	BudgetOK       BudgetStatus = "ok"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

// BudgetView is a budget plus its derived progress and status.
type BudgetView struct {
	model.Budget
	Progress float64      `json:"progress"`
	Status   BudgetStatus `json:"status"`
}

// StatusOf evaluates a budget against its own alert threshold.
func StatusOf(b *model.Budget) BudgetStatus {
	progress := decimal.NewFromFloat(b.Progress())
	switch {
	case progress.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return BudgetExceeded
	case progress.GreaterThanOrEqual(b.AlertThreshold):
		return BudgetWarning
	default:
		return BudgetOK
	}
}

func budgetView(b *model.Budget) BudgetView {
	return BudgetView{Budget: *b, Progress: b.Progress(), Status: StatusOf(b)}
}

func (s *FinanceTracker) ListBudgets(ctx context.Context) ([]BudgetView, error) {
	budgets, err := s.repo.GetBudgets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BudgetView, len(budgets))
	for i := range budgets {
		out[i] = budgetView(&budgets[i])
	}
	return out, nil
}

func (s *FinanceTracker) AddBudget(ctx context.Context, b *model.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.repo.CreateBudget(ctx, b)
}

// UpdateBudget applies the patch and, when the update moves an active
// budget past its alert threshold, pushes a notification. Alert
// failures never fail the update.
func (s *FinanceTracker) UpdateBudget(ctx context.Context, id int64, patch model.BudgetPatch) (*BudgetView, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	b, err := s.repo.UpdateBudget(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	view := budgetView(b)
	if view.Status != BudgetOK && b.IsActive {
		s.notifyBudget(ctx, *b, view.Progress)
	}
	return &view, nil
}

func (s *FinanceTracker) DeleteBudget(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteBudget(ctx, id)
}

func (s *FinanceTracker) notifyBudget(ctx context.Context, b model.Budget, progress float64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BudgetAlert(ctx, b, progress); err != nil {
		s.logger.Error("budget alert delivery failed",
			"budget", b.Name, "error", err)
	}
}
