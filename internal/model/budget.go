package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the recurrence window a budget covers.
type BudgetPeriod string

const (
	PeriodWeekly    BudgetPeriod = "weekly"
	PeriodMonthly   BudgetPeriod = "monthly"
	PeriodQuarterly BudgetPeriod = "quarterly"
	PeriodYearly    BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}

// Budget is a spending target over a period. CurrentAmount is stored
// and updated by the caller, not derived from transactions here.
type Budget struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	UserID         int64           `json:"userId" gorm:"index"`
	Name           string          `json:"name" gorm:"not null"`
	CategoryID     *int64          `json:"categoryId,omitempty"`
	BudgetType     string          `json:"budgetType"`
	TargetAmount   decimal.Decimal `json:"targetAmount" gorm:"type:decimal(10,2);not null"`
	CurrentAmount  decimal.Decimal `json:"currentAmount" gorm:"type:decimal(10,2)"`
	Period         BudgetPeriod    `json:"period" gorm:"not null"`
	StartDate      time.Time       `json:"startDate" gorm:"not null"`
	EndDate        time.Time       `json:"endDate" gorm:"not null"`
	AlertThreshold decimal.Decimal `json:"alertThreshold" gorm:"type:decimal(3,2)"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// DefaultAlertThreshold is applied when a budget is created without one.
var DefaultAlertThreshold = decimal.NewFromFloat(0.80)

// Progress returns spent/target as a fraction, 0 when target is zero.
func (b *Budget) Progress() float64 {
	if b.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	p, _ := b.CurrentAmount.Div(b.TargetAmount).Round(4).Float64()
	return p
}

func (b *Budget) Validate() error {
	var v ValidationError
	if b.Name == "" {
		v.add("name", "is required")
	}
	if b.TargetAmount.LessThanOrEqual(decimal.Zero) {
		v.add("targetAmount", "must be greater than zero")
	}
	if !b.Period.Valid() {
		v.add("period", "must be one of weekly, monthly, quarterly, yearly")
	}
	if b.StartDate.IsZero() {
		v.add("startDate", "is required")
	}
	if b.EndDate.IsZero() {
		v.add("endDate", "is required")
	} else if !b.StartDate.IsZero() && b.EndDate.Before(b.StartDate) {
		v.add("endDate", "must not be before startDate")
	}
	if b.AlertThreshold.IsNegative() || b.AlertThreshold.GreaterThan(decimal.NewFromInt(1)) {
		v.add("alertThreshold", "must be between 0 and 1")
	}
	return v.orNil()
}

// BudgetPatch is a partial budget update.
type BudgetPatch struct {
	Name           *string          `json:"name"`
	CategoryID     *int64           `json:"categoryId"`
	BudgetType     *string          `json:"budgetType"`
	TargetAmount   *decimal.Decimal `json:"targetAmount"`
	CurrentAmount  *decimal.Decimal `json:"currentAmount"`
	Period         *BudgetPeriod    `json:"period"`
	StartDate      *time.Time       `json:"startDate"`
	EndDate        *time.Time       `json:"endDate"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold"`
	IsActive       *bool            `json:"isActive"`
}

func (p *BudgetPatch) Validate() error {
	var v ValidationError
	if p.Name != nil && *p.Name == "" {
		v.add("name", "must not be empty")
	}
	if p.TargetAmount != nil && p.TargetAmount.LessThanOrEqual(decimal.Zero) {
		v.add("targetAmount", "must be greater than zero")
	}
	if p.CurrentAmount != nil && p.CurrentAmount.IsNegative() {
		v.add("currentAmount", "must not be negative")
	}
	if p.Period != nil && !p.Period.Valid() {
		v.add("period", "must be one of weekly, monthly, quarterly, yearly")
	}
	if p.AlertThreshold != nil && (p.AlertThreshold.IsNegative() || p.AlertThreshold.GreaterThan(decimal.NewFromInt(1))) {
		v.add("alertThreshold", "must be between 0 and 1")
	}
	return v.orNil()
}

func (p *BudgetPatch) Apply(b *Budget) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.CategoryID != nil {
		b.CategoryID = p.CategoryID
	}
	if p.BudgetType != nil {
		b.BudgetType = *p.BudgetType
	}
	if p.TargetAmount != nil {
		b.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		b.CurrentAmount = *p.CurrentAmount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.AlertThreshold != nil {
		b.AlertThreshold = *p.AlertThreshold
	}
	if p.IsActive != nil {
		b.IsActive = *p.IsActive
	}
}
