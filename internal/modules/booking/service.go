package booking

import (
	"context"
	"errors"
	"fmt"

	"holdmytime/internal/domain"
	"holdmytime/internal/modules/checkout"
	"holdmytime/internal/pkg/metrics"
	"holdmytime/internal/pkg/money"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	bookings   BookingRepository
	businesses BusinessReader
	gateway    SessionCreator
	builder    *checkout.Builder
	log        *zap.Logger
}

func NewService(bookings BookingRepository, businesses BusinessReader, gateway SessionCreator, builder *checkout.Builder, log *zap.Logger) *Service {
	return &Service{
		bookings:   bookings,
		businesses: businesses,
		gateway:    gateway,
		builder:    builder,
		log:        log,
	}
}

// CreateBooking validates the request against the business's deposit
// configuration, persists a pending booking, and opens a checkout session for
// it. The business must already be able to accept payments; nothing is
// persisted otherwise. A processor failure after persistence leaves the
// pending row in place so the customer can retry.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, string, error) {
	business, err := s.businesses.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBusinessNotFound
		}
		return nil, "", fmt.Errorf("load business: %w", err)
	}
	if !business.PaymentCapable() {
		return nil, "", ErrBusinessNotPayable
	}

	deposit, price, err := money.ComputeDeposit(business)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	requested, err := resolveCents(req.AmountCents, req.Amount)
	if err != nil {
		return nil, "", fmt.Errorf("%w: amount: %v", ErrValidation, err)
	}
	amount, err := money.ResolvePaymentAmount(deposit, price, requested)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	customTip, err := resolveCents(req.TipCents, req.Tip)
	if err != nil {
		return nil, "", fmt.Errorf("%w: tip: %v", ErrValidation, err)
	}
	tip, err := money.ComputeTip(price, req.TipPercent, customTip)
	if err != nil {
		return nil, "", fmt.Errorf("%w: tip: %v", ErrValidation, err)
	}

	booking := &domain.Booking{
		BusinessID:            business.ID,
		CustomerName:          req.CustomerName,
		CustomerEmail:         req.CustomerEmail,
		CustomerPhone:         req.CustomerPhone,
		CustomerAddress:       req.Address,
		Service:               req.Service,
		BookingDate:           req.Date,
		BookingTime:           req.Time,
		Notes:                 req.Notes,
		ServicePriceCents:     price,
		DepositAmountCents:    deposit,
		AmountPaidCents:       amount,
		TipCents:              tip,
		BalanceRemainingCents: price - amount,
		PlatformFeeCents:      s.builder.PlatformFee(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, "", fmt.Errorf("create booking: %w", err)
	}
	metrics.BookingsCreatedTotal.Inc()

	params := s.builder.BookingSession(booking, business)
	sess, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.log.Error("checkout session creation failed",
			zap.String("booking_id", booking.ID),
			zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrProcessor, err)
	}
	metrics.CheckoutSessionsCreatedTotal.Inc()

	if err := s.bookings.SetCheckoutSession(ctx, booking.ID, sess.ID); err != nil {
		return nil, "", fmt.Errorf("store checkout session: %w", err)
	}
	booking.CheckoutSessionID = sess.ID

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("business_id", business.ID),
		zap.Int64("amount_cents", amount),
		zap.Int64("tip_cents", tip))

	return booking, sess.URL, nil
}

// CancelBooking lets the owner cancel a pending booking from the dashboard.
// Settled bookings cannot be canceled here; money already moved.
func (s *Service) CancelBooking(ctx context.Context, ownerID, bookingID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load booking: %w", err)
	}

	business, err := s.businesses.GetByID(ctx, b.BusinessID)
	if err != nil {
		return fmt.Errorf("load business: %w", err)
	}
	if business.OwnerID != ownerID {
		return ErrForbidden
	}

	transitioned, err := s.bookings.MarkCanceled(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if !transitioned {
		return ErrAlreadySettled
	}

	s.log.Info("booking canceled by owner",
		zap.String("booking_id", bookingID),
		zap.String("owner_id", ownerID))
	return nil
}

// ListByOwner returns the bookings across all of the owner's businesses.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByOwner(ctx, ownerID, limit, offset)
}

// resolveCents prefers an explicit cents value over a dollar string. Both
// empty means zero, which downstream reads as "pay the deposit".
func resolveCents(cents int64, amount string) (int64, error) {
	if cents < 0 {
		return 0, money.ErrInvalidAmount
	}
	if cents > 0 {
		return cents, nil
	}
	if amount == "" {
		return 0, nil
	}
	return money.ParseAmount(amount)
}
