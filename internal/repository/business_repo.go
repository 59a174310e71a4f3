package repository

import (
	"context"
	"time"

	"holdmytime/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.ConnectedAccountStatus == "" {
		b.ConnectedAccountStatus = domain.AccountNotConnected
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	var b domain.Business
	tx := r.db.WithContext(ctx).First(&b, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BusinessRepository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	var b domain.Business
	tx := r.db.WithContext(ctx).First(&b, "slug = ?", slug)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BusinessRepository) GetByConnectedAccount(ctx context.Context, accountID string) (*domain.Business, error) {
	var b domain.Business
	tx := r.db.WithContext(ctx).First(&b, "connected_account_id = ?", accountID)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BusinessRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error) {
	var out []domain.Business
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out)
	return out, tx.Error
}

// SetConnectedAccount records a freshly created sub-merchant account id and
// moves the business into the pending onboarding state.
func (r *BusinessRepository) SetConnectedAccount(ctx context.Context, businessID, accountID string) error {
	return r.db.WithContext(ctx).Model(&domain.Business{}).
		Where("id = ?", businessID).
		Updates(map[string]interface{}{
			"connected_account_id":     accountID,
			"connected_account_status": domain.AccountPending,
			"updated_at":               time.Now(),
		}).Error
}

// UpdateAccountCapabilities persists the latest capability flags reported by
// the payment processor.
func (r *BusinessRepository) UpdateAccountCapabilities(ctx context.Context, businessID string, status domain.AccountStatus, onboardingComplete, chargesEnabled, payoutsEnabled bool) error {
	return r.db.WithContext(ctx).Model(&domain.Business{}).
		Where("id = ?", businessID).
		Updates(map[string]interface{}{
			"connected_account_status": status,
			"onboarding_complete":      onboardingComplete,
			"charges_enabled":          chargesEnabled,
			"payouts_enabled":          payoutsEnabled,
			"updated_at":               time.Now(),
		}).Error
}

// DeleteCascade removes a business together with its bookings in one
// transaction.
func (r *BusinessRepository) DeleteCascade(ctx context.Context, businessID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessID).Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", businessID).Delete(&domain.Business{}).Error
	})
}

// DeleteByOwner removes every business owned by the user, bookings included.
// Used by account self-deletion.
func (r *BusinessRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&domain.Business{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("business_id IN ?", ids).Delete(&domain.Booking{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("owner_id = ?", ownerID).Delete(&domain.Business{}).Error
	})
}
