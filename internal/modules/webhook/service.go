package webhook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"holdmytime/internal/domain"
	"holdmytime/internal/modules/connect"
	"holdmytime/internal/pkg/metrics"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidSignature marks a payload that failed authentication; the handler
// answers 400 and the processor will not retry.
var ErrInvalidSignature = errors.New("invalid webhook signature")

const (
	outcomeProcessed = "processed"
	outcomeDuplicate = "duplicate"
	outcomeIgnored   = "ignored"
	outcomeMissing   = "missing"
	outcomeError     = "error"
)

// Service reconciles processor events into local state. Every handler is
// idempotent: replays and out-of-order deliveries settle on the same final
// state, so a retried event is always safe.
type Service struct {
	verifier   Verifier
	bookings   BookingStore
	businesses BusinessStore
	users      UserStore
	log        *zap.Logger
}

func NewService(verifier Verifier, bookings BookingStore, businesses BusinessStore, users UserStore, log *zap.Logger) *Service {
	return &Service{
		verifier:   verifier,
		bookings:   bookings,
		businesses: businesses,
		users:      users,
		log:        log,
	}
}

// Process authenticates and dispatches one raw webhook delivery. A nil return
// means the event is settled and must be acknowledged; ErrInvalidSignature
// means the payload is not trustworthy; any other error is transient and the
// caller should answer 500 so the processor redelivers.
func (s *Service) Process(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.verifier.Verify(payload, sigHeader)
	if err != nil {
		s.log.Warn("webhook signature verification failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	outcome, err := s.dispatch(ctx, event)
	if err != nil {
		outcome = outcomeError
	}
	metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), outcome).Inc()
	return err
}

func (s *Service) dispatch(ctx context.Context, event stripe.Event) (string, error) {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleSessionCompleted(ctx, event)
	case "checkout.session.expired":
		return s.handleSessionExpired(ctx, event)
	case "account.updated":
		return s.handleAccountUpdated(ctx, event)
	case "customer.subscription.updated":
		return s.handleSubscriptionChanged(ctx, event, false)
	case "customer.subscription.deleted":
		return s.handleSubscriptionChanged(ctx, event, true)
	default:
		s.log.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return outcomeIgnored, nil
	}
}

func (s *Service) handleSessionCompleted(ctx context.Context, event stripe.Event) (string, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return "", fmt.Errorf("unmarshal checkout session: %w", err)
	}

	if session.Mode == stripe.CheckoutSessionModeSubscription {
		return s.activateSubscription(ctx, &session)
	}
	return s.settlePayment(ctx, &session)
}

func (s *Service) settlePayment(ctx context.Context, session *stripe.CheckoutSession) (string, error) {
	bookingID, outcome, err := s.resolveBooking(ctx, session)
	if bookingID == "" {
		return outcome, err
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	transitioned, err := s.bookings.MarkPaid(ctx, bookingID, paymentIntentID)
	if err != nil {
		return "", fmt.Errorf("mark booking paid: %w", err)
	}
	if !transitioned {
		outcome, err := s.classifyNoop(ctx, bookingID)
		if outcome == outcomeDuplicate {
			s.log.Info("booking already settled, skipping",
				zap.String("booking_id", bookingID),
				zap.String("session_id", session.ID))
		}
		return outcome, err
	}

	s.log.Info("booking paid",
		zap.String("booking_id", bookingID),
		zap.String("session_id", session.ID),
		zap.String("payment_intent_id", paymentIntentID))
	return outcomeProcessed, nil
}

func (s *Service) handleSessionExpired(ctx context.Context, event stripe.Event) (string, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return "", fmt.Errorf("unmarshal checkout session: %w", err)
	}
	if session.Mode == stripe.CheckoutSessionModeSubscription {
		return outcomeIgnored, nil
	}

	bookingID, outcome, err := s.resolveBooking(ctx, &session)
	if bookingID == "" {
		return outcome, err
	}

	transitioned, err := s.bookings.MarkExpired(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("mark booking expired: %w", err)
	}
	if !transitioned {
		return s.classifyNoop(ctx, bookingID)
	}

	s.log.Info("booking expired via checkout session",
		zap.String("booking_id", bookingID),
		zap.String("session_id", session.ID))
	return outcomeProcessed, nil
}

// classifyNoop tells a genuine replay apart from a metadata booking id that
// matches no row, so the events-by-outcome counter stays truthful.
func (s *Service) classifyNoop(ctx context.Context, bookingID string) (string, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("webhook references unknown booking",
				zap.String("booking_id", bookingID))
			return outcomeMissing, nil
		}
		return "", fmt.Errorf("lookup booking: %w", err)
	}
	return outcomeDuplicate, nil
}

// resolveBooking finds the booking a session belongs to, preferring the id
// stamped into the session metadata and falling back to the stored session
// id. An unknown session is logged and acknowledged, never retried.
func (s *Service) resolveBooking(ctx context.Context, session *stripe.CheckoutSession) (string, string, error) {
	if id := session.Metadata["booking_id"]; id != "" {
		return id, "", nil
	}

	b, err := s.bookings.GetByCheckoutSession(ctx, session.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("webhook session references no known booking",
				zap.String("session_id", session.ID))
			return "", outcomeMissing, nil
		}
		return "", "", fmt.Errorf("lookup booking by session: %w", err)
	}
	return b.ID, "", nil
}

func (s *Service) activateSubscription(ctx context.Context, session *stripe.CheckoutSession) (string, error) {
	userID := session.Metadata["user_id"]
	if userID == "" {
		s.log.Warn("subscription checkout without user metadata",
			zap.String("session_id", session.ID))
		return outcomeMissing, nil
	}

	subscriptionID := ""
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("subscription checkout for unknown user",
				zap.String("user_id", userID),
				zap.String("session_id", session.ID))
			return outcomeMissing, nil
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	// Delivery order against the subscription lifecycle events is not
	// guaranteed. Once those events own this subscription's state, a late or
	// replayed completion must not downgrade it or wipe the timestamps. Only
	// a checkout for a different, known subscription id may write again.
	if user.SubscriptionStatus != domain.SubscriptionNone &&
		(subscriptionID == "" || user.SubscriptionID == subscriptionID) {
		s.log.Info("subscription already tracked, skipping",
			zap.String("user_id", userID),
			zap.String("subscription_id", subscriptionID))
		return outcomeDuplicate, nil
	}

	// The lifecycle events carry the authoritative trial and period
	// timestamps; this just unlocks the account immediately.
	err = s.users.UpdateSubscription(ctx, userID, domain.SubscriptionTrial, subscriptionID, sql.NullTime{}, sql.NullTime{})
	if err != nil {
		return "", fmt.Errorf("activate subscription: %w", err)
	}

	s.log.Info("subscription checkout completed",
		zap.String("user_id", userID),
		zap.String("subscription_id", subscriptionID))
	return outcomeProcessed, nil
}

func (s *Service) handleAccountUpdated(ctx context.Context, event stripe.Event) (string, error) {
	var acct stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
		return "", fmt.Errorf("unmarshal account: %w", err)
	}

	b, err := s.businesses.GetByConnectedAccount(ctx, acct.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("account update for unknown connected account",
				zap.String("account_id", acct.ID))
			return outcomeMissing, nil
		}
		return "", fmt.Errorf("lookup business by account: %w", err)
	}

	status := connect.DeriveStatus(&acct)
	if err := s.businesses.UpdateAccountCapabilities(ctx, b.ID, status, acct.DetailsSubmitted, acct.ChargesEnabled, acct.PayoutsEnabled); err != nil {
		return "", fmt.Errorf("store account status: %w", err)
	}

	s.log.Info("connected account updated",
		zap.String("business_id", b.ID),
		zap.String("account_id", acct.ID),
		zap.String("status", string(status)))
	return outcomeProcessed, nil
}

func (s *Service) handleSubscriptionChanged(ctx context.Context, event stripe.Event, deleted bool) (string, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return "", fmt.Errorf("unmarshal subscription: %w", err)
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		u, err := s.users.GetBySubscriptionID(ctx, sub.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Warn("subscription event for unknown user",
					zap.String("subscription_id", sub.ID))
				return outcomeMissing, nil
			}
			return "", fmt.Errorf("lookup user by subscription: %w", err)
		}
		userID = u.ID
	}

	status := mapSubscriptionStatus(sub.Status)
	if deleted {
		status = domain.SubscriptionCanceled
	}

	err := s.users.UpdateSubscription(ctx, userID, status, sub.ID, periodEnd(&sub), trialEnd(&sub))
	if err != nil {
		return "", fmt.Errorf("store subscription state: %w", err)
	}

	s.log.Info("subscription state updated",
		zap.String("user_id", userID),
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(status)))
	return outcomeProcessed, nil
}

func mapSubscriptionStatus(s stripe.SubscriptionStatus) domain.SubscriptionStatus {
	switch s {
	case stripe.SubscriptionStatusTrialing:
		return domain.SubscriptionTrial
	case stripe.SubscriptionStatusActive:
		return domain.SubscriptionActive
	case stripe.SubscriptionStatusPastDue:
		return domain.SubscriptionPastDue
	default:
		return domain.SubscriptionCanceled
	}
}

func trialEnd(sub *stripe.Subscription) sql.NullTime {
	if sub.TrialEnd == 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Unix(sub.TrialEnd, 0), Valid: true}
}

func periodEnd(sub *stripe.Subscription) sql.NullTime {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].CurrentPeriodEnd == 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Unix(sub.Items.Data[0].CurrentPeriodEnd, 0), Valid: true}
}
