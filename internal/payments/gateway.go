// Package payments wraps the Stripe SDK behind a narrow interface so that
// services receive an injectable gateway instead of touching a module-level
// client.
package payments

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

// Gateway is the slice of the payment processor's API this system uses.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
	CreateAccount(ctx context.Context, params *stripe.AccountCreateParams) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, params *stripe.AccountLinkCreateParams) (*stripe.AccountLink, error)
	RetrieveAccount(ctx context.Context, accountID string) (*stripe.Account, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

// Client implements Gateway against the real Stripe API.
type Client struct {
	sc *stripe.Client
}

func NewClient(apiKey string) *Client {
	return &Client{sc: stripe.NewClient(apiKey)}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	return c.sc.V1CheckoutSessions.Create(ctx, params)
}

func (c *Client) CreateAccount(ctx context.Context, params *stripe.AccountCreateParams) (*stripe.Account, error) {
	return c.sc.V1Accounts.Create(ctx, params)
}

func (c *Client) CreateAccountLink(ctx context.Context, params *stripe.AccountLinkCreateParams) (*stripe.AccountLink, error) {
	return c.sc.V1AccountLinks.Create(ctx, params)
}

func (c *Client) RetrieveAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	return c.sc.V1Accounts.GetByID(ctx, accountID, nil)
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	return c.sc.V1Subscriptions.Cancel(ctx, subscriptionID, nil)
}
