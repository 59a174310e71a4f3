package booking

type CreateBookingRequest struct {
	BusinessID    string `json:"business_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`
	Address       string `json:"address"`
	Service       string `json:"service"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Notes         string `json:"notes"`

	// Amount accepts a dollar string ("$100", "100", "100.50");
	// AmountCents takes precedence when set. Zero means "pay the deposit".
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`

	TipPercent int64  `json:"tip_percent"`
	TipCents   int64  `json:"tip_cents"`
	Tip        string `json:"tip"`
}

type CreateBookingResponse struct {
	BookingID   string `json:"booking_id"`
	CheckoutURL string `json:"checkout_url"`
}
