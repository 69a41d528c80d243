package model

import "time"

// Subscription statuses stored on the user record. Updated by the
// billing webhook, never by the client directly.
const (
	SubscriptionFree   = "free"
	SubscriptionActive = "active"
)

// User is the account record. The shown surface is single-tenant, so
// most requests operate without one, but billing and bank linking
// attach their external identifiers here.
type User struct {
	ID                    int64      `json:"id" gorm:"primaryKey"`
	Username              string     `json:"username" gorm:"uniqueIndex;not null"`
	Password              string     `json:"-" gorm:"not null"`
	Email                 string     `json:"email,omitempty"`
	SubscriptionStatus    string     `json:"subscriptionStatus"`
	StripeCustomerID      string     `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID  string     `json:"stripeSubscriptionId,omitempty"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
	PlaidAccessToken      string     `json:"-"`
	PlaidItemID           string     `json:"-"`
	CreatedAt             time.Time  `json:"createdAt"`
}

func (u *User) Validate() error {
	var v ValidationError
	if u.Username == "" {
		v.add("username", "is required")
	}
	if u.Password == "" {
		v.add("password", "is required")
	}
	return v.orNil()
}
