package domain

import "time"

// BookingStatus is the booking state machine:
// pending → paid | expired | canceled (all terminal).
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingPaid     BookingStatus = "paid"
	BookingExpired  BookingStatus = "expired"
	BookingCanceled BookingStatus = "canceled"
)

// Terminal reports whether the status accepts no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingPaid || s == BookingExpired || s == BookingCanceled
}

type Booking struct {
	ID         string `gorm:"column:id;primaryKey" json:"id"`
	BusinessID string `gorm:"column:business_id;index" json:"business_id"`

	CustomerName    string `gorm:"column:customer_name" json:"customer_name"`
	CustomerEmail   string `gorm:"column:customer_email" json:"customer_email"`
	CustomerPhone   string `gorm:"column:customer_phone" json:"customer_phone,omitempty"`
	CustomerAddress string `gorm:"column:customer_address" json:"customer_address,omitempty"`
	Service         string `gorm:"column:service" json:"service,omitempty"`
	BookingDate     string `gorm:"column:booking_date" json:"booking_date,omitempty"`
	BookingTime     string `gorm:"column:booking_time" json:"booking_time,omitempty"`
	Notes           string `gorm:"column:notes" json:"notes,omitempty"`

	// Money fields are snapshots taken at creation time; only status and the
	// payment-correlation fields mutate afterwards.
	ServicePriceCents     int64 `gorm:"column:service_price_cents" json:"service_price_cents"`
	DepositAmountCents    int64 `gorm:"column:deposit_amount_cents" json:"deposit_amount_cents"`
	AmountPaidCents       int64 `gorm:"column:amount_paid_cents" json:"amount_paid_cents"`
	TipCents              int64 `gorm:"column:tip_cents" json:"tip_cents"`
	BalanceRemainingCents int64 `gorm:"column:balance_remaining_cents" json:"balance_remaining_cents"`
	PlatformFeeCents      int64 `gorm:"column:platform_fee_cents" json:"platform_fee_cents"`

	CheckoutSessionID string `gorm:"column:checkout_session_id;index" json:"checkout_session_id,omitempty"`
	PaymentIntentID   string `gorm:"column:payment_intent_id" json:"payment_intent_id,omitempty"`

	Status BookingStatus `gorm:"column:status;index" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
