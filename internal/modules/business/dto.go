package business

import "holdmytime/internal/domain"

type CreateBusinessRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`

	ServiceName       string `json:"service_name"`
	ServicePriceCents int64  `json:"service_price_cents"`
	ServicePrice      string `json:"service_price"`

	DepositType       string `json:"deposit_type" binding:"required,oneof=fixed percentage"`
	DepositPercentage int64  `json:"deposit_percentage"`
	DepositCents      int64  `json:"deposit_cents"`
	DepositAmount     string `json:"deposit_amount"`
}

// PublicBusinessResponse is the booking-page view: enough to render the form
// and price the deposit, nothing about the owner.
type PublicBusinessResponse struct {
	ID                 string             `json:"id"`
	BusinessName       string             `json:"business_name"`
	Slug               string             `json:"slug"`
	ServiceName        string             `json:"service_name,omitempty"`
	ServicePriceCents  int64              `json:"service_price_cents,omitempty"`
	DepositType        domain.DepositType `json:"deposit_type"`
	DepositPercentage  int64              `json:"deposit_percentage,omitempty"`
	DepositCents       int64              `json:"deposit_cents"`
	DepositAmountCents int64              `json:"deposit_amount_cents"`
	AcceptingPayments  bool               `json:"accepting_payments"`
}
