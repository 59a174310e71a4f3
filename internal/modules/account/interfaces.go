package account

import (
	"context"

	"holdmytime/internal/domain"

	"github.com/stripe/stripe-go/v82"
)

type UserStore interface {
	EnsureUser(ctx context.Context, id, email string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// BusinessPurger removes all of an owner's businesses and their bookings.
type BusinessPurger interface {
	DeleteByOwner(ctx context.Context, ownerID string) error
}

type SubscriptionGateway interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

// IdentityAdmin deletes the login identity at the external identity provider.
type IdentityAdmin interface {
	DeleteUser(ctx context.Context, userID string) error
}
