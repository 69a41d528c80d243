package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

// MemoryRepository holds everything in process memory. Ids are locally
// incremented integers; contents vanish on restart. A single RWMutex
// guards all tables, which serializes writers instead of the
// last-write-wins races plain maps would allow.
type MemoryRepository struct {
	mu sync.RWMutex

	transactions map[int64]model.Transaction
	categories   map[int64]model.Category
	loans        map[int64]model.Loan
	budgets      map[int64]model.Budget
	goals        map[int64]model.Goal
	users        map[int64]model.User

	bankAccounts     map[string]model.BankAccount
	bankTransactions map[string]model.BankTransaction

	nextTransactionID     int64
	nextCategoryID        int64
	nextLoanID            int64
	nextBudgetID          int64
	nextGoalID            int64
	nextUserID            int64
	nextBankAccountID     int64
	nextBankTransactionID int64
}

// NewMemoryRepository returns an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		transactions:          make(map[int64]model.Transaction),
		categories:            make(map[int64]model.Category),
		loans:                 make(map[int64]model.Loan),
		budgets:               make(map[int64]model.Budget),
		goals:                 make(map[int64]model.Goal),
		users:                 make(map[int64]model.User),
		bankAccounts:          make(map[string]model.BankAccount),
		bankTransactions:      make(map[string]model.BankTransaction),
		nextTransactionID:     1,
		nextCategoryID:        1,
		nextLoanID:            1,
		nextBudgetID:          1,
		nextGoalID:            1,
		nextUserID:            1,
		nextBankAccountID:     1,
		nextBankTransactionID: 1,
	}
}

// Transactions

func (m *MemoryRepository) GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Transaction, 0, len(m.transactions))
	for _, t := range m.transactions {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, t)
	}
	sortTransactionsDesc(out)
	return out, nil
}

func (m *MemoryRepository) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.nextTransactionID
	m.nextTransactionID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	m.transactions[t.ID] = *t
	return nil
}

func (m *MemoryRepository) UpdateTransaction(ctx context.Context, id int64, patch model.TransactionPatch) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&t)
	m.transactions[id] = t
	return &t, nil
}

func (m *MemoryRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.transactions[id]
	delete(m.transactions, id)
	return ok, nil
}

// Categories

func (m *MemoryRepository) GetCategories(ctx context.Context, typeFilter model.TransactionType) ([]model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		if typeFilter != "" && c.Type != typeFilter {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.nextCategoryID
	m.nextCategoryID++
	m.categories[c.ID] = *c
	return nil
}

func (m *MemoryRepository) UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&c)
	m.categories[id] = c
	return &c, nil
}

func (m *MemoryRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.categories[id]
	delete(m.categories, id)
	return ok, nil
}

func (m *MemoryRepository) SeedDefaultCategories(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.categories) > 0 {
		return nil
	}
	for _, c := range model.DefaultCategories {
		c.ID = m.nextCategoryID
		m.nextCategoryID++
		m.categories[c.ID] = c
	}
	return nil
}

// Loans

func (m *MemoryRepository) GetLoans(ctx context.Context) ([]model.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Loan, 0, len(m.loans))
	for _, l := range m.loans {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) GetLoan(ctx context.Context, id int64) (*model.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.loans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *MemoryRepository) CreateLoan(ctx context.Context, l *model.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.ID = m.nextLoanID
	m.nextLoanID++
	if l.Status == "" {
		l.Status = model.LoanActive
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	m.loans[l.ID] = *l
	return nil
}

func (m *MemoryRepository) UpdateLoan(ctx context.Context, id int64, patch model.LoanPatch) (*model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.loans[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&l)
	m.loans[id] = l
	return &l, nil
}

func (m *MemoryRepository) DeleteLoan(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.loans[id]
	delete(m.loans, id)
	return ok, nil
}

// Budgets

func (m *MemoryRepository) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Budget, 0, len(m.budgets))
	for _, b := range m.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) CreateBudget(ctx context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b.ID = m.nextBudgetID
	m.nextBudgetID++
	if b.AlertThreshold.IsZero() {
		b.AlertThreshold = model.DefaultAlertThreshold
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	m.budgets[b.ID] = *b
	return nil
}

func (m *MemoryRepository) UpdateBudget(ctx context.Context, id int64, patch model.BudgetPatch) (*model.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.budgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&b)
	m.budgets[id] = b
	return &b, nil
}

func (m *MemoryRepository) DeleteBudget(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.budgets[id]
	delete(m.budgets, id)
	return ok, nil
}

// Goals

func (m *MemoryRepository) GetGoals(ctx context.Context) ([]model.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Goal, 0, len(m.goals))
	for _, g := range m.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) CreateGoal(ctx context.Context, g *model.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g.ID = m.nextGoalID
	m.nextGoalID++
	if g.Status == "" {
		g.Status = "active"
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	m.goals[g.ID] = *g
	return nil
}

func (m *MemoryRepository) UpdateGoal(ctx context.Context, id int64, patch model.GoalPatch) (*model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.goals[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&g)
	m.goals[id] = g
	return &g, nil
}

func (m *MemoryRepository) DeleteGoal(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.goals[id]
	delete(m.goals, id)
	return ok, nil
}

// Users

func (m *MemoryRepository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) CreateUser(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = m.nextUserID
	m.nextUserID++
	if u.SubscriptionStatus == "" {
		u.SubscriptionStatus = model.SubscriptionFree
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryRepository) UpdateUser(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = *u
	return nil
}

// Bank mirrors

func (m *MemoryRepository) GetBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.BankAccount, 0, len(m.bankAccounts))
	for _, a := range m.bankAccounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) GetBankTransactions(ctx context.Context, accountID string) ([]model.BankTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.BankTransaction, 0)
	for _, t := range m.bankTransactions {
		if t.AccountID != accountID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) UpsertBankAccount(ctx context.Context, a *model.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.bankAccounts[a.AccountID]; ok {
		a.ID = existing.ID
	} else {
		a.ID = m.nextBankAccountID
		m.nextBankAccountID++
	}
	m.bankAccounts[a.AccountID] = *a
	return nil
}

func (m *MemoryRepository) UpsertBankTransactions(ctx context.Context, txs []model.BankTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range txs {
		if existing, ok := m.bankTransactions[t.TransactionID]; ok {
			t.ID = existing.ID
		} else {
			t.ID = m.nextBankTransactionID
			m.nextBankTransactionID++
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		m.bankTransactions[t.TransactionID] = t
	}
	return nil
}

// Aggregates

func (m *MemoryRepository) TotalIncome(ctx context.Context, rng *DateRange) (decimal.Decimal, error) {
	return m.sumByType(rng, func(t model.TransactionType) bool { return t == model.TypeIncome }), nil
}

func (m *MemoryRepository) TotalExpenses(ctx context.Context, rng *DateRange) (decimal.Decimal, error) {
	return m.sumByType(rng, model.TransactionType.IsExpense), nil
}

func (m *MemoryRepository) NetBalance(ctx context.Context, rng *DateRange) (decimal.Decimal, error) {
	income, err := m.TotalIncome(ctx, rng)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := m.TotalExpenses(ctx, rng)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}

func (m *MemoryRepository) TotalLoanBalance(ctx context.Context) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, l := range m.loans {
		if l.Status == model.LoanActive {
			total = total.Add(l.RemainingAmount)
		}
	}
	return total.Round(2), nil
}

func (m *MemoryRepository) CategoryBreakdown(ctx context.Context, t model.TransactionType, rng *DateRange) ([]CategoryAmount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sums := make(map[string]decimal.Decimal)
	for _, tx := range m.transactions {
		if tx.Type != t {
			continue
		}
		if rng != nil && !rng.Contains(tx.Date) {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	out := make([]CategoryAmount, 0, len(sums))
	for category, amount := range sums {
		out = append(out, CategoryAmount{Category: category, Amount: amount.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (m *MemoryRepository) sumByType(rng *DateRange, match func(model.TransactionType) bool) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, t := range m.transactions {
		if !match(t.Type) {
			continue
		}
		if rng != nil && !rng.Contains(t.Date) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total.Round(2)
}

func sortTransactionsDesc(txs []model.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID > txs[j].ID
	})
}
