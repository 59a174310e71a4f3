package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"holdmytime/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.SubscriptionStatus == "" {
		u.SubscriptionStatus = domain.SubscriptionNone
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).First(&u, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// EnsureUser fetches the platform record for an authenticated identity,
// creating it on first contact.
func (r *UserRepository) EnsureUser(ctx context.Context, id, email string) (*domain.User, error) {
	u, err := r.GetByID(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u = &domain.User{ID: id, Email: email, SubscriptionStatus: domain.SubscriptionNone}
	if err := r.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).First(&u, "subscription_id = ?", subscriptionID)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// UpdateSubscription persists the processor-reported subscription state.
func (r *UserRepository) UpdateSubscription(ctx context.Context, userID string, status domain.SubscriptionStatus, subscriptionID string, currentPeriodEnd, trialEndsAt sql.NullTime) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_status": status,
			"subscription_id":     subscriptionID,
			"current_period_end":  currentPeriodEnd,
			"trial_ends_at":       trialEndsAt,
			"updated_at":          time.Now(),
		}).Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}
