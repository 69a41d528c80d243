package model

import "regexp"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category groups transactions. Names are unique across all types;
// transactions reference categories by name.
type Category struct {
	ID    int64           `json:"id" gorm:"primaryKey"`
	Name  string          `json:"name" gorm:"uniqueIndex;not null"`
	Type  TransactionType `json:"type" gorm:"index;not null"`
	Color string          `json:"color" gorm:"not null"`
	Icon  string          `json:"icon" gorm:"not null"`
}

func (c *Category) Validate() error {
	var v ValidationError
	if c.Name == "" {
		v.add("name", "is required")
	}
	if !c.Type.Valid() {
		v.add("type", "must be one of income, expense, business, loan")
	}
	if !hexColor.MatchString(c.Color) {
		v.add("color", "must be a hex color like #dc2626")
	}
	if c.Icon == "" {
		v.add("icon", "is required")
	}
	return v.orNil()
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name  *string          `json:"name"`
	Type  *TransactionType `json:"type"`
	Color *string          `json:"color"`
	Icon  *string          `json:"icon"`
}

func (p *CategoryPatch) Validate() error {
	var v ValidationError
	if p.Name != nil && *p.Name == "" {
		v.add("name", "must not be empty")
	}
	if p.Type != nil && !p.Type.Valid() {
		v.add("type", "must be one of income, expense, business, loan")
	}
	if p.Color != nil && !hexColor.MatchString(*p.Color) {
		v.add("color", "must be a hex color like #dc2626")
	}
	if p.Icon != nil && *p.Icon == "" {
		v.add("icon", "must not be empty")
	}
	return v.orNil()
}

func (p *CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
}

// DefaultCategories is the fixed set seeded on first startup. Matches
// the stock palette shipped with the app.
var DefaultCategories = []Category{
	{Name: "Salary", Type: TypeIncome, Color: "#059669", Icon: "dollar-sign"},
	{Name: "Freelance", Type: TypeIncome, Color: "#0891b2", Icon: "briefcase"},
	{Name: "Investment", Type: TypeIncome, Color: "#7c3aed", Icon: "trending-up"},
	{Name: "Other Income", Type: TypeIncome, Color: "#059669", Icon: "plus-circle"},

	{Name: "Food & Dining", Type: TypeExpense, Color: "#dc2626", Icon: "utensils"},
	{Name: "Transportation", Type: TypeExpense, Color: "#ea580c", Icon: "car"},
	{Name: "Shopping", Type: TypeExpense, Color: "#d97706", Icon: "shopping-bag"},
	{Name: "Utilities", Type: TypeExpense, Color: "#dc2626", Icon: "zap"},
	{Name: "Entertainment", Type: TypeExpense, Color: "#7c2d12", Icon: "film"},
	{Name: "Healthcare", Type: TypeExpense, Color: "#be123c", Icon: "heart"},
	{Name: "Education", Type: TypeExpense, Color: "#9333ea", Icon: "book"},
	{Name: "Other Expenses", Type: TypeExpense, Color: "#dc2626", Icon: "minus-circle"},

	{Name: "Office Supplies", Type: TypeBusiness, Color: "#2563eb", Icon: "clipboard"},
	{Name: "Marketing", Type: TypeBusiness, Color: "#7c3aed", Icon: "megaphone"},
	{Name: "Travel", Type: TypeBusiness, Color: "#0891b2", Icon: "plane"},
	{Name: "Equipment", Type: TypeBusiness, Color: "#059669", Icon: "monitor"},

	{Name: "Loan Payment", Type: TypeLoan, Color: "#d97706", Icon: "handshake"},
	{Name: "Interest", Type: TypeLoan, Color: "#dc2626", Icon: "percent"},
}
