package account

import (
	"context"
	"fmt"

	"holdmytime/internal/domain"
	"holdmytime/internal/modules/checkout"

	"go.uber.org/zap"
)

type Service struct {
	users      UserStore
	businesses BusinessPurger
	gateway    SubscriptionGateway
	identity   IdentityAdmin
	builder    *checkout.Builder
	log        *zap.Logger
}

func NewService(users UserStore, businesses BusinessPurger, gateway SubscriptionGateway, identity IdentityAdmin, builder *checkout.Builder, log *zap.Logger) *Service {
	return &Service{
		users:      users,
		businesses: businesses,
		gateway:    gateway,
		identity:   identity,
		builder:    builder,
		log:        log,
	}
}

// CreateSubscription opens a checkout session for the platform plan and
// returns its URL. Owners with a live subscription are turned away; everyone
// else, including lapsed trials and canceled subscribers, may go through
// checkout again.
func (s *Service) CreateSubscription(ctx context.Context, userID, email string) (string, error) {
	user, err := s.users.EnsureUser(ctx, userID, email)
	if err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	if user.SubscriptionStatus == domain.SubscriptionActive || user.CanCreateBusiness() {
		return "", ErrAlreadySubscribed
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, s.builder.SubscriptionSession(user))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessor, err)
	}

	s.log.Info("subscription checkout opened", zap.String("user_id", userID))
	return sess.URL, nil
}

// DeleteAccount tears down everything the owner has: the processor
// subscription, every business with its bookings, the local user row, and
// the login identity. Subscription cancellation is best effort since the
// subscription may already be gone at the processor.
func (s *Service) DeleteAccount(ctx context.Context, userID, email string) error {
	user, err := s.users.EnsureUser(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	if user.SubscriptionID != "" {
		if _, err := s.gateway.CancelSubscription(ctx, user.SubscriptionID); err != nil {
			s.log.Warn("subscription cancellation failed during account deletion",
				zap.String("user_id", userID),
				zap.String("subscription_id", user.SubscriptionID),
				zap.Error(err))
		}
	}

	if err := s.businesses.DeleteByOwner(ctx, userID); err != nil {
		return fmt.Errorf("delete businesses: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.identity.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	s.log.Info("account deleted", zap.String("user_id", userID))
	return nil
}
