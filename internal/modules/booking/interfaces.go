package booking

import (
	"context"

	"holdmytime/internal/domain"

	"github.com/stripe/stripe-go/v82"
)

// BookingRepository defines the persistence operations bookings need.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Booking, error)
	SetCheckoutSession(ctx context.Context, bookingID, sessionID string) error
	MarkCanceled(ctx context.Context, bookingID string) (bool, error)
}

// BusinessReader looks up the business a booking targets.
type BusinessReader interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
}

// SessionCreator is the slice of the payment gateway checkout needs.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
}
