package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanActive  LoanStatus = "active"
	LoanPaid    LoanStatus = "paid"
	LoanOverdue LoanStatus = "overdue"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanActive, LoanPaid, LoanOverdue:
		return true
	}
	return false
}

// Loan tracks payoff progress on a borrowed amount.
type Loan struct {
	ID              int64            `json:"id" gorm:"primaryKey"`
	Name            string           `json:"name" gorm:"not null"`
	TotalAmount     decimal.Decimal  `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount" gorm:"type:decimal(10,2);not null"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty" gorm:"type:decimal(5,2)"`
	MonthlyPayment  *decimal.Decimal `json:"monthlyPayment,omitempty" gorm:"type:decimal(10,2)"`
	DueDate         *time.Time       `json:"dueDate,omitempty"`
	Status          LoanStatus       `json:"status" gorm:"not null;default:active"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Progress returns the paid-off share as a percentage in [0, 100].
// A zero total is defined as 0% rather than a division error.
func (l *Loan) Progress() float64 {
	if l.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	paid := l.TotalAmount.Sub(l.RemainingAmount)
	p, _ := paid.Div(l.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return p
}

func (l *Loan) Validate() error {
	var v ValidationError
	if l.Name == "" {
		v.add("name", "is required")
	}
	if l.TotalAmount.IsNegative() {
		v.add("totalAmount", "must not be negative")
	}
	if l.RemainingAmount.IsNegative() {
		v.add("remainingAmount", "must not be negative")
	}
	if l.Status != "" && !l.Status.Valid() {
		v.add("status", "must be one of active, paid, overdue")
	}
	return v.orNil()
}

// LoanPatch is a partial loan update.
type LoanPatch struct {
	Name            *string          `json:"name"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount"`
	InterestRate    *decimal.Decimal `json:"interestRate"`
	MonthlyPayment  *decimal.Decimal `json:"monthlyPayment"`
	DueDate         *time.Time       `json:"dueDate"`
	Status          *LoanStatus      `json:"status"`
}

func (p *LoanPatch) Validate() error {
	var v ValidationError
	if p.Name != nil && *p.Name == "" {
		v.add("name", "must not be empty")
	}
	if p.TotalAmount != nil && p.TotalAmount.IsNegative() {
		v.add("totalAmount", "must not be negative")
	}
	if p.RemainingAmount != nil && p.RemainingAmount.IsNegative() {
		v.add("remainingAmount", "must not be negative")
	}
	if p.Status != nil && !p.Status.Valid() {
		v.add("status", "must be one of active, paid, overdue")
	}
	return v.orNil()
}

func (p *LoanPatch) Apply(l *Loan) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.TotalAmount != nil {
		l.TotalAmount = *p.TotalAmount
	}
	if p.RemainingAmount != nil {
		l.RemainingAmount = *p.RemainingAmount
	}
	if p.InterestRate != nil {
		l.InterestRate = p.InterestRate
	}
	if p.MonthlyPayment != nil {
		l.MonthlyPayment = p.MonthlyPayment
	}
	if p.DueDate != nil {
		l.DueDate = p.DueDate
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}
