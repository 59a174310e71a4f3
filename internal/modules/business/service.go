package business

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"holdmytime/internal/domain"
	"holdmytime/internal/pkg/money"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	businesses BusinessRepository
	users      UserStore
	log        *zap.Logger
}

func NewService(businesses BusinessRepository, users UserStore, log *zap.Logger) *Service {
	return &Service{businesses: businesses, users: users, log: log}
}

// CreateBusiness persists a new booking page for the owner. The owner needs
// an active or trialing subscription, and the deposit configuration must be
// one of the supported shapes before anything is written.
func (s *Service) CreateBusiness(ctx context.Context, ownerID, ownerEmail string, req CreateBusinessRequest) (*domain.Business, error) {
	owner, err := s.users.EnsureUser(ctx, ownerID, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	if !owner.CanCreateBusiness() {
		return nil, ErrSubscriptionRequired
	}

	b, err := s.buildBusiness(ownerID, req)
	if err != nil {
		return nil, err
	}

	if err := s.businesses.Create(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create business: %w", err)
	}

	s.log.Info("business created",
		zap.String("business_id", b.ID),
		zap.String("owner_id", ownerID),
		zap.String("slug", b.Slug))

	return b, nil
}

func (s *Service) buildBusiness(ownerID string, req CreateBusinessRequest) (*domain.Business, error) {
	priceCents, err := optionalCents(req.ServicePriceCents, req.ServicePrice)
	if err != nil {
		return nil, fmt.Errorf("%w: service price: %v", ErrValidation, err)
	}

	b := &domain.Business{
		OwnerID:           ownerID,
		BusinessName:      req.BusinessName,
		ContactEmail:      req.ContactEmail,
		Phone:             req.Phone,
		ServiceName:       req.ServiceName,
		ServicePriceCents: priceCents,
		DepositType:       domain.DepositType(req.DepositType),
	}

	switch b.DepositType {
	case domain.DepositFixed:
		depositCents, err := optionalCents(req.DepositCents, req.DepositAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: deposit: %v", ErrValidation, err)
		}
		if !money.ValidFixedTier(depositCents) {
			return nil, fmt.Errorf("%w: fixed deposit must be one of %v cents", ErrValidation, money.DepositTiersCents)
		}
		if priceCents > 0 && depositCents > priceCents {
			return nil, fmt.Errorf("%w: deposit exceeds service price", ErrValidation)
		}
		b.DepositCents = depositCents

	case domain.DepositPercentage:
		if !money.ValidPercentage(req.DepositPercentage) {
			return nil, fmt.Errorf("%w: deposit percentage must be one of %v", ErrValidation, money.DepositPercentages)
		}
		if priceCents <= 0 {
			return nil, fmt.Errorf("%w: percentage deposit requires a service price", ErrValidation)
		}
		b.DepositPercentage = req.DepositPercentage
	}

	slug := req.Slug
	if slug == "" {
		slug = req.BusinessName
	}
	b.Slug = Slugify(slug)
	if b.Slug == "" {
		return nil, fmt.Errorf("%w: slug cannot be derived from the business name", ErrValidation)
	}

	return b, nil
}

// ListByOwner returns the owner's booking pages, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error) {
	return s.businesses.ListByOwner(ctx, ownerID)
}

// GetBySlug returns the public booking-page view.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*PublicBusinessResponse, error) {
	b, err := s.businesses.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load business: %w", err)
	}

	deposit, price, err := money.ComputeDeposit(b)
	if err != nil {
		// misconfigured page still renders, it just cannot quote a deposit
		deposit, price = 0, b.ServicePriceCents
	}

	return &PublicBusinessResponse{
		ID:                 b.ID,
		BusinessName:       b.BusinessName,
		Slug:               b.Slug,
		ServiceName:        b.ServiceName,
		ServicePriceCents:  price,
		DepositType:        b.DepositType,
		DepositPercentage:  b.DepositPercentage,
		DepositCents:       b.DepositCents,
		DepositAmountCents: deposit,
		AcceptingPayments:  b.PaymentCapable(),
	}, nil
}

// DeleteBusiness removes the owner's business and every booking under it.
func (s *Service) DeleteBusiness(ctx context.Context, ownerID, businessID string) error {
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load business: %w", err)
	}
	if b.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.businesses.DeleteCascade(ctx, businessID); err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	s.log.Info("business deleted",
		zap.String("business_id", businessID),
		zap.String("owner_id", ownerID))
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases, collapses runs of non-alphanumerics into single
// hyphens, and trims the ends.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func optionalCents(cents int64, amount string) (int64, error) {
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
