package domain

import "time"

// DepositType selects how the minimum deposit is derived.
type DepositType string

const (
	DepositFixed      DepositType = "fixed"
	DepositPercentage DepositType = "percentage"
)

// AccountStatus tracks the connected payment account lifecycle:
// not_connected → pending → {active | restricted}, with active ⇄ restricted
// on later account-update events.
type AccountStatus string

const (
	AccountNotConnected AccountStatus = "not_connected"
	AccountPending      AccountStatus = "pending"
	AccountActive       AccountStatus = "active"
	AccountRestricted   AccountStatus = "restricted"
)

type Business struct {
	ID           string `gorm:"column:id;primaryKey" json:"id"`
	OwnerID      string `gorm:"column:owner_id;index" json:"owner_id"`
	BusinessName string `gorm:"column:business_name" json:"business_name"`
	Slug         string `gorm:"column:slug;uniqueIndex" json:"slug"`
	ContactEmail string `gorm:"column:contact_email" json:"contact_email"`
	Phone        string `gorm:"column:phone" json:"phone,omitempty"`

	ServiceName       string `gorm:"column:service_name" json:"service_name,omitempty"`
	ServicePriceCents int64  `gorm:"column:service_price_cents" json:"service_price_cents,omitempty"`

	DepositType       DepositType `gorm:"column:deposit_type" json:"deposit_type"`
	DepositPercentage int64       `gorm:"column:deposit_percentage" json:"deposit_percentage,omitempty"`
	DepositCents      int64       `gorm:"column:deposit_cents" json:"deposit_cents"`

	ConnectedAccountID     string        `gorm:"column:connected_account_id;index" json:"connected_account_id,omitempty"`
	ConnectedAccountStatus AccountStatus `gorm:"column:connected_account_status" json:"connected_account_status"`
	OnboardingComplete     bool          `gorm:"column:onboarding_complete" json:"onboarding_complete"`
	ChargesEnabled         bool          `gorm:"column:charges_enabled" json:"charges_enabled"`
	PayoutsEnabled         bool          `gorm:"column:payouts_enabled" json:"payouts_enabled"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Business) TableName() string { return "businesses" }

// PaymentCapable reports whether checkout sessions may be built against this
// business. Both the derived account status and the charges capability must
// hold.
func (b *Business) PaymentCapable() bool {
	return b.ConnectedAccountStatus == AccountActive && b.ChargesEnabled
}
