package connect

import (
	"context"

	"holdmytime/internal/domain"

	"github.com/stripe/stripe-go/v82"
)

type BusinessStore interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	SetConnectedAccount(ctx context.Context, businessID, accountID string) error
	UpdateAccountCapabilities(ctx context.Context, businessID string, status domain.AccountStatus, onboardingComplete, chargesEnabled, payoutsEnabled bool) error
}

// AccountGateway is the slice of the payment gateway onboarding needs.
type AccountGateway interface {
	CreateAccount(ctx context.Context, params *stripe.AccountCreateParams) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, params *stripe.AccountLinkCreateParams) (*stripe.AccountLink, error)
	RetrieveAccount(ctx context.Context, accountID string) (*stripe.Account, error)
}
