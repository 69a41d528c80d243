package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeBusiness TransactionType = "business"
	TypeLoan     TransactionType = "loan"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeBusiness, TypeLoan:
		return true
	}
	return false
}

// IsExpense reports whether the type counts toward total expenses.
// Business spend and loan payments are expenses for balance purposes.
func (t TransactionType) IsExpense() bool {
	return t == TypeExpense || t == TypeBusiness || t == TypeLoan
}

// Transaction is a single money movement. Category references a
// Category by name only; no foreign key is enforced.
type Transaction struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Type        TransactionType `json:"type" gorm:"index;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Category    string          `json:"category" gorm:"not null"`
	Description string          `json:"description" gorm:"not null"`
	Date        time.Time       `json:"date" gorm:"index;not null"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate checks a transaction submitted for creation.
func (t *Transaction) Validate() error {
	var v ValidationError
	if !t.Type.Valid() {
		v.add("type", "must be one of income, expense, business, loan")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		v.add("amount", "must be greater than zero")
	}
	if t.Category == "" {
		v.add("category", "is required")
	}
	if t.Description == "" {
		v.add("description", "is required")
	}
	if t.Date.IsZero() {
		v.add("date", "is required")
	}
	return v.orNil()
}

// TransactionPatch is a partial update; nil fields are left untouched.
type TransactionPatch struct {
	Type        *TransactionType `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date"`
}

// Validate checks only the fields present in the patch.
func (p *TransactionPatch) Validate() error {
	var v ValidationError
	if p.Type != nil && !p.Type.Valid() {
		v.add("type", "must be one of income, expense, business, loan")
	}
	if p.Amount != nil && p.Amount.LessThanOrEqual(decimal.Zero) {
		v.add("amount", "must be greater than zero")
	}
	if p.Category != nil && *p.Category == "" {
		v.add("category", "must not be empty")
	}
	if p.Description != nil && *p.Description == "" {
		v.add("description", "must not be empty")
	}
	if p.Date != nil && p.Date.IsZero() {
		v.add("date", "must be a valid timestamp")
	}
	return v.orNil()
}

// Apply copies the set fields of the patch onto t.
func (p *TransactionPatch) Apply(t *Transaction) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
}
