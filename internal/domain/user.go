package domain

import (
	"database/sql"
	"time"
)

// SubscriptionStatus of a platform subscriber (a business owner, not a
// booking customer).
type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type User struct {
	ID    string `gorm:"column:id;primaryKey" json:"id"`
	Email string `gorm:"column:email" json:"email"`

	SubscriptionStatus SubscriptionStatus `gorm:"column:subscription_status" json:"subscription_status"`
	SubscriptionID     string             `gorm:"column:subscription_id;index" json:"subscription_id,omitempty"`
	TrialEndsAt        sql.NullTime       `gorm:"column:trial_ends_at" json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd   sql.NullTime       `gorm:"column:current_period_end" json:"current_period_end,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// CanCreateBusiness gates new booking pages on an active or trialing
// subscription.
func (u *User) CanCreateBusiness() bool {
	switch u.SubscriptionStatus {
	case SubscriptionActive:
		return true
	case SubscriptionTrial:
		return !u.TrialEndsAt.Valid || time.Now().Before(u.TrialEndsAt.Time)
	default:
		return false
	}
}
