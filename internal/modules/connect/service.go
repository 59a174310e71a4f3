package connect

import (
	"context"
	"errors"
	"fmt"

	"holdmytime/internal/domain"
	"holdmytime/internal/modules/checkout"
	"holdmytime/internal/pkg/metrics"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	businesses BusinessStore
	gateway    AccountGateway
	builder    *checkout.Builder
	log        *zap.Logger
}

func NewService(businesses BusinessStore, gateway AccountGateway, builder *checkout.Builder, log *zap.Logger) *Service {
	return &Service{businesses: businesses, gateway: gateway, builder: builder, log: log}
}

// CreateAccount provisions a sub-merchant account for the business and
// returns a fresh onboarding link. Calling it again for an already connected
// business skips account creation and just mints a new link.
func (s *Service) CreateAccount(ctx context.Context, ownerID, businessID string) (*LinkResponse, error) {
	b, err := s.ownedBusiness(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}

	accountID := b.ConnectedAccountID
	if accountID == "" {
		acct, err := s.gateway.CreateAccount(ctx, &stripe.AccountCreateParams{
			Type:  stripe.String("express"),
			Email: stripe.String(b.ContactEmail),
			Capabilities: &stripe.AccountCreateCapabilitiesParams{
				CardPayments: &stripe.AccountCreateCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
				Transfers:    &stripe.AccountCreateCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
			},
			Metadata: map[string]string{
				"business_id": b.ID,
				"owner_id":    b.OwnerID,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create account: %v", ErrProcessor, err)
		}
		accountID = acct.ID

		if err := s.businesses.SetConnectedAccount(ctx, b.ID, accountID); err != nil {
			return nil, fmt.Errorf("store connected account: %w", err)
		}
		metrics.ConnectAccountsCreatedTotal.Inc()

		s.log.Info("connected account created",
			zap.String("business_id", b.ID),
			zap.String("account_id", accountID))
	}

	link, err := s.gateway.CreateAccountLink(ctx, s.builder.OnboardingLink(accountID))
	if err != nil {
		return nil, fmt.Errorf("%w: create account link: %v", ErrProcessor, err)
	}

	return &LinkResponse{AccountID: accountID, OnboardingURL: link.URL}, nil
}

// RefreshLink mints a new onboarding link for an existing connected account.
// Links are single-use and expire quickly.
func (s *Service) RefreshLink(ctx context.Context, ownerID, businessID string) (*LinkResponse, error) {
	b, err := s.ownedBusiness(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}
	if b.ConnectedAccountID == "" {
		return nil, ErrNotConnected
	}

	link, err := s.gateway.CreateAccountLink(ctx, s.builder.OnboardingLink(b.ConnectedAccountID))
	if err != nil {
		return nil, fmt.Errorf("%w: create account link: %v", ErrProcessor, err)
	}

	return &LinkResponse{AccountID: b.ConnectedAccountID, OnboardingURL: link.URL}, nil
}

// CheckStatus pulls the live account state from the processor, persists the
// derived capability flags, and returns them. Used by the dashboard after the
// owner returns from onboarding, ahead of the asynchronous account webhook.
func (s *Service) CheckStatus(ctx context.Context, ownerID, businessID string) (*StatusResponse, error) {
	b, err := s.ownedBusiness(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}
	if b.ConnectedAccountID == "" {
		return nil, ErrNotConnected
	}

	acct, err := s.gateway.RetrieveAccount(ctx, b.ConnectedAccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve account: %v", ErrProcessor, err)
	}

	status := DeriveStatus(acct)
	if err := s.businesses.UpdateAccountCapabilities(ctx, b.ID, status, acct.DetailsSubmitted, acct.ChargesEnabled, acct.PayoutsEnabled); err != nil {
		return nil, fmt.Errorf("store account status: %w", err)
	}

	return &StatusResponse{
		Status:             status,
		OnboardingComplete: acct.DetailsSubmitted,
		ChargesEnabled:     acct.ChargesEnabled,
		PayoutsEnabled:     acct.PayoutsEnabled,
	}, nil
}

func (s *Service) ownedBusiness(ctx context.Context, ownerID, businessID string) (*domain.Business, error) {
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("load business: %w", err)
	}
	if b.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return b, nil
}

// DeriveStatus collapses the processor's account flags into the lifecycle
// status stored on the business. Fully enabled accounts are active; a
// disabled reason marks the account restricted; anything else is still
// onboarding.
func DeriveStatus(acct *stripe.Account) domain.AccountStatus {
	if acct.ChargesEnabled && acct.PayoutsEnabled {
		return domain.AccountActive
	}
	if acct.Requirements != nil && acct.Requirements.DisabledReason != "" {
		return domain.AccountRestricted
	}
	return domain.AccountPending
}
