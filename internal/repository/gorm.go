package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fintrackhq/fintrack/internal/model"
)

// GormRepository persists to SQLite through gorm. Ids are assigned by
// the database and aggregates run as SQL SUM/GROUP BY queries, so an
// instance survives restarts where MemoryRepository does not.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository opens (or creates) the database at path and
// migrates the schema.
func NewGormRepository(path string) (*GormRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Transaction{},
		&model.Category{},
		&model.Loan{},
		&model.Budget{},
		&model.Goal{},
		&model.User{},
		&model.BankAccount{},
		&model.BankTransaction{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &GormRepository{db: db}, nil
}

// Transactions

func (r *GormRepository) GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}
	var out []model.Transaction
	if err := q.Order("date DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return out, nil
}

func (r *GormRepository) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *GormRepository) UpdateTransaction(ctx context.Context, id int64, patch model.TransactionPatch) (*model.Transaction, error) {
	var t model.Transaction
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	patch.Apply(&t)
	if err := r.db.WithContext(ctx).Save(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return &t, nil
}

func (r *GormRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Categories

func (r *GormRepository) GetCategories(ctx context.Context, typeFilter model.TransactionType) ([]model.Category, error) {
	q := r.db.WithContext(ctx).Model(&model.Category{})
	if typeFilter != "" {
		q = q.Where("type = ?", typeFilter)
	}
	var out []model.Category
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return out, nil
}

func (r *GormRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *GormRepository) UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	patch.Apply(&c)
	if err := r.db.WithContext(ctx).Save(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &c, nil
}

func (r *GormRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepository) SeedDefaultCategories(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	seed := make([]model.Category, len(model.DefaultCategories))
	copy(seed, model.DefaultCategories)
	if err := r.db.WithContext(ctx).Create(&seed).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}

// Loans

func (r *GormRepository) GetLoans(ctx context.Context) ([]model.Loan, error) {
	var out []model.Loan
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	return out, nil
}

func (r *GormRepository) GetLoan(ctx context.Context, id int64) (*model.Loan, error) {
	var l model.Loan
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	return &l, nil
}

func (r *GormRepository) CreateLoan(ctx context.Context, l *model.Loan) error {
	if l.Status == "" {
		l.Status = model.LoanActive
	}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func (r *GormRepository) UpdateLoan(ctx context.Context, id int64, patch model.LoanPatch) (*model.Loan, error) {
	var l model.Loan
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	patch.Apply(&l)
	if err := r.db.WithContext(ctx).Save(&l).Error; err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	return &l, nil
}

func (r *GormRepository) DeleteLoan(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Loan{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete loan: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Budgets

func (r *GormRepository) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	var out []model.Budget
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	return out, nil
}

func (r *GormRepository) CreateBudget(ctx context.Context, b *model.Budget) error {
	if b.AlertThreshold.IsZero() {
		b.AlertThreshold = model.DefaultAlertThreshold
	}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r *GormRepository) UpdateBudget(ctx context.Context, id int64, patch model.BudgetPatch) (*model.Budget, error) {
	var b model.Budget
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	patch.Apply(&b)
	if err := r.db.WithContext(ctx).Save(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return &b, nil
}

func (r *GormRepository) DeleteBudget(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Budget{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete budget: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Goals

func (r *GormRepository) GetGoals(ctx context.Context) ([]model.Goal, error) {
	var out []model.Goal
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	return out, nil
}

func (r *GormRepository) CreateGoal(ctx context.Context, g *model.Goal) error {
	if g.Status == "" {
		g.Status = "active"
	}
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (r *GormRepository) UpdateGoal(ctx context.Context, id int64, patch model.GoalPatch) (*model.Goal, error) {
	var g model.Goal
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	patch.Apply(&g)
	if err := r.db.WithContext(ctx).Save(&g).Error; err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return &g, nil
}

func (r *GormRepository) DeleteGoal(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Goal{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete goal: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Users

func (r *GormRepository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

func (r *GormRepository) CreateUser(ctx context.Context, u *model.User) error {
	if u.SubscriptionStatus == "" {
		u.SubscriptionStatus = model.SubscriptionFree
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *GormRepository) UpdateUser(ctx context.Context, u *model.User) error {
	res := r.db.WithContext(ctx).Save(u)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	return nil
}

// Bank mirrors

func (r *GormRepository) GetBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	var out []model.BankAccount
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	return out, nil
}

func (r *GormRepository) GetBankTransactions(ctx context.Context, accountID string) ([]model.BankTransaction, error) {
	var out []model.BankTransaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions: %w", err)
	}
	return out, nil
}

func (r *GormRepository) UpsertBankAccount(ctx context.Context, a *model.BankAccount) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		UpdateAll: true,
	}).Create(a).Error
	if err != nil {
		return fmt.Errorf("failed to upsert bank account: %w", err)
	}
	return nil
}

func (r *GormRepository) UpsertBankTransactions(ctx context.Context, txs []model.BankTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		UpdateAll: true,
	}).Create(&txs).Error
	if err != nil {
		return fmt.Errorf("failed to upsert bank transactions: %w", err)
	}
	return nil
}

// Aggregates

func (r *GormRepository) TotalIncome(ctx context.Context, rng *DateRange) (decimal.Decimal, error) {
	return r.sumTransactions(ctx, []model.TransactionType{model.TypeIncome}, rng)
}

func (r *GormRepository) TotalExpenses(ctx context.Context, rng *DateRange) (decimal.Decimal, error) {
	return r.sumTransactions(ctx, []model.TransactionType{
		model.TypeExpense, model.TypeBusiness, model.TypeLoan,
	}, rng)
}

func (r *GormRepository) NetBalance(ctx context.Context, rng *DateRange) (decimal.Decimal, error) {
	income, err := r.TotalIncome(ctx, rng)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := r.TotalExpenses(ctx, rng)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}

func (r *GormRepository) TotalLoanBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("status = ?", model.LoanActive).
		Select("SUM(remaining_amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum loan balances: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

func (r *GormRepository) CategoryBreakdown(ctx context.Context, t model.TransactionType, rng *DateRange) ([]CategoryAmount, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("type = ?", t)
	if rng != nil {
		q = q.Where("date >= ? AND date <= ?", rng.Start, rng.End)
	}
	var rows []CategoryAmount
	err := q.Select("category, SUM(amount) AS amount").
		Group("category").
		Order("amount DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute category breakdown: %w", err)
	}
	for i := range rows {
		rows[i].Amount = rows[i].Amount.Round(2)
	}
	if rows == nil {
		rows = []CategoryAmount{}
	}
	return rows, nil
}

func (r *GormRepository) sumTransactions(ctx context.Context, types []model.TransactionType, rng *DateRange) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("type IN ?", types)
	if rng != nil {
		q = q.Where("date >= ? AND date <= ?", rng.Start, rng.End)
	}
	var total decimal.NullDecimal
	if err := q.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}
