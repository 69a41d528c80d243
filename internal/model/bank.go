package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount mirrors an account record from the external aggregator.
// Keyed by the aggregator's account id; never created by the user.
type BankAccount struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	AccountID        string          `json:"accountId" gorm:"uniqueIndex;not null"`
	Name             string          `json:"name"`
	OfficialName     string          `json:"officialName,omitempty"`
	Type             string          `json:"type"`
	Subtype          string          `json:"subtype,omitempty"`
	Mask             string          `json:"mask,omitempty"`
	CurrentBalance   decimal.Decimal `json:"currentBalance" gorm:"type:decimal(12,2)"`
	AvailableBalance decimal.Decimal `json:"availableBalance" gorm:"type:decimal(12,2)"`
	CurrencyCode     string          `json:"currencyCode"`
	LastSyncedAt     time.Time       `json:"lastSyncedAt"`
}

// BankTransaction mirrors a transaction imported from the aggregator.
type BankTransaction struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	TransactionID string          `json:"transactionId" gorm:"uniqueIndex;not null"`
	AccountID     string          `json:"accountId" gorm:"index;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	Date          time.Time       `json:"date"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Pending       bool            `json:"pending"`
	CreatedAt     time.Time       `json:"createdAt"`
}
