package webhook

import (
	"context"
	"database/sql"

	"holdmytime/internal/domain"

	"github.com/stripe/stripe-go/v82"
)

// Verifier authenticates a raw webhook payload against its signature header.
type Verifier interface {
	Verify(payload []byte, sigHeader string) (stripe.Event, error)
}

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Booking, error)
	MarkPaid(ctx context.Context, bookingID, paymentIntentID string) (bool, error)
	MarkExpired(ctx context.Context, bookingID string) (bool, error)
}

type BusinessStore interface {
	GetByConnectedAccount(ctx context.Context, accountID string) (*domain.Business, error)
	UpdateAccountCapabilities(ctx context.Context, businessID string, status domain.AccountStatus, onboardingComplete, chargesEnabled, payoutsEnabled bool) error
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.User, error)
	UpdateSubscription(ctx context.Context, userID string, status domain.SubscriptionStatus, subscriptionID string, currentPeriodEnd, trialEndsAt sql.NullTime) error
}
