// Package checkout builds payment-processor session requests from booking and
// business records. Builders are pure; the caller owns the processor call.
package checkout

import (
	"fmt"
	"strconv"

	"holdmytime/internal/domain"

	"github.com/stripe/stripe-go/v82"
)

const currency = "usd"

type Config struct {
	// SiteURL is the public base URL for redirect targets.
	SiteURL string
	// PlatformFeeCents is charged per booking against the service payment
	// only; tips pass through to the business untouched.
	PlatformFeeCents       int64
	SubscriptionPriceCents int64
	TrialPeriodDays        int64
}

type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// PlatformFee is the per-booking fee, for callers that snapshot it outside a
// session request.
func (b *Builder) PlatformFee() int64 {
	return b.cfg.PlatformFeeCents
}

// BookingSession produces the checkout request for a pending booking: a
// service line item, an optional tip line item, the platform-fee split
// directed at the business's connected account, and metadata carrying
// everything the webhook reconciler needs to recover context.
func (b *Builder) BookingSession(booking *domain.Booking, business *domain.Business) *stripe.CheckoutSessionCreateParams {
	metadata := map[string]string{
		"booking_id":            booking.ID,
		"business_id":           business.ID,
		"platform_fee_cents":    strconv.FormatInt(b.cfg.PlatformFeeCents, 10),
		"service_payment_cents": strconv.FormatInt(booking.AmountPaidCents, 10),
		"tip_cents":             strconv.FormatInt(booking.TipCents, 10),
	}

	serviceName := business.ServiceName
	if booking.Service != "" {
		serviceName = booking.Service
	}
	description := fmt.Sprintf("Deposit for %s", business.BusinessName)
	if serviceName != "" {
		description = fmt.Sprintf("%s: %s", description, serviceName)
	}

	lineItems := []*stripe.CheckoutSessionCreateLineItemParams{{
		PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
			Currency: stripe.String(currency),
			ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
				Name: stripe.String(description),
			},
			UnitAmount: stripe.Int64(booking.AmountPaidCents),
		},
		Quantity: stripe.Int64(1),
	}}

	if booking.TipCents > 0 {
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("Tip for %s", business.BusinessName)),
				},
				UnitAmount: stripe.Int64(booking.TipCents),
			},
			Quantity: stripe.Int64(1),
		})
	}

	return &stripe.CheckoutSessionCreateParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(booking.CustomerEmail),
		LineItems:          lineItems,
		Metadata:           metadata,
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(b.cfg.PlatformFeeCents),
			TransferData: &stripe.CheckoutSessionCreatePaymentIntentDataTransferDataParams{
				Destination: stripe.String(business.ConnectedAccountID),
			},
			Metadata: metadata,
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&booking_id=%s", b.cfg.SiteURL, booking.ID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/canceled?booking_id=%s", b.cfg.SiteURL, booking.ID)),
	}
}

// SubscriptionSession produces the checkout request for the platform
// subscription: a monthly recurring price with a trial period, tagged with
// the user id so the webhook reconciler can activate the right account.
func (b *Builder) SubscriptionSession(user *domain.User) *stripe.CheckoutSessionCreateParams {
	metadata := map[string]string{"user_id": user.ID}

	return &stripe.CheckoutSessionCreateParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(user.Email),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name:        stripe.String("HoldMyTime Pro"),
					Description: stripe.String("Unlimited booking pages with secure deposit collection"),
				},
				UnitAmount: stripe.Int64(b.cfg.SubscriptionPriceCents),
				Recurring: &stripe.CheckoutSessionCreateLineItemPriceDataRecurringParams{
					Interval: stripe.String("month"),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Metadata: metadata,
		SubscriptionData: &stripe.CheckoutSessionCreateSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(b.cfg.TrialPeriodDays),
			Metadata:        metadata,
		},
		SuccessURL: stripe.String(b.cfg.SiteURL + "/dashboard?subscription=success"),
		CancelURL:  stripe.String(b.cfg.SiteURL + "/dashboard?subscription=canceled"),
	}
}

// OnboardingLink produces the account-link request for Connect onboarding.
func (b *Builder) OnboardingLink(accountID string) *stripe.AccountLinkCreateParams {
	return &stripe.AccountLinkCreateParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(b.cfg.SiteURL + "/dashboard?connect_refresh=true"),
		ReturnURL:  stripe.String(b.cfg.SiteURL + "/dashboard?connect_complete=true"),
		Type:       stripe.String("account_onboarding"),
	}
}
