package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target the user contributes toward.
type Goal struct {
	ID                  int64            `json:"id" gorm:"primaryKey"`
	UserID              int64            `json:"userId" gorm:"index"`
	Title               string           `json:"title" gorm:"not null"`
	GoalType            string           `json:"goalType"`
	TargetAmount        decimal.Decimal  `json:"targetAmount" gorm:"type:decimal(10,2);not null"`
	CurrentAmount       decimal.Decimal  `json:"currentAmount" gorm:"type:decimal(10,2)"`
	TargetDate          *time.Time       `json:"targetDate,omitempty"`
	Priority            string           `json:"priority"`
	Status              string           `json:"status"`
	AutoContribute      bool             `json:"autoContribute"`
	MonthlyContribution *decimal.Decimal `json:"monthlyContribution,omitempty" gorm:"type:decimal(10,2)"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// Progress returns saved/target as a percentage, 0 when target is zero.
func (g *Goal) Progress() float64 {
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	p, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return p
}

func (g *Goal) Validate() error {
	var v ValidationError
	if g.Title == "" {
		v.add("title", "is required")
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		v.add("targetAmount", "must be greater than zero")
	}
	if g.CurrentAmount.IsNegative() {
		v.add("currentAmount", "must not be negative")
	}
	return v.orNil()
}

// GoalPatch is a partial goal update.
type GoalPatch struct {
	Title               *string          `json:"title"`
	GoalType            *string          `json:"goalType"`
	TargetAmount        *decimal.Decimal `json:"targetAmount"`
	CurrentAmount       *decimal.Decimal `json:"currentAmount"`
	TargetDate          *time.Time       `json:"targetDate"`
	Priority            *string          `json:"priority"`
	Status              *string          `json:"status"`
	AutoContribute      *bool            `json:"autoContribute"`
	MonthlyContribution *decimal.Decimal `json:"monthlyContribution"`
}

func (p *GoalPatch) Validate() error {
	var v ValidationError
	if p.Title != nil && *p.Title == "" {
		v.add("title", "must not be empty")
	}
	if p.TargetAmount != nil && p.TargetAmount.LessThanOrEqual(decimal.Zero) {
		v.add("targetAmount", "must be greater than zero")
	}
	if p.CurrentAmount != nil && p.CurrentAmount.IsNegative() {
		v.add("currentAmount", "must not be negative")
	}
	return v.orNil()
}

func (p *GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.GoalType != nil {
		g.GoalType = *p.GoalType
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.TargetDate != nil {
		g.TargetDate = p.TargetDate
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.AutoContribute != nil {
		g.AutoContribute = *p.AutoContribute
	}
	if p.MonthlyContribution != nil {
		g.MonthlyContribution = p.MonthlyContribution
	}
}
