package repository

import (
	"context"
	"time"

	"holdmytime/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = domain.BookingPending
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).First(&b, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).First(&b, "checkout_session_id = ?", sessionID)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

// ListByOwner returns bookings across all businesses owned by the user,
// newest first.
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	tx := r.db.WithContext(ctx).
		Joins("JOIN businesses ON businesses.id = bookings.business_id").
		Where("businesses.owner_id = ?", ownerID).
		Order("bookings.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out)
	return out, tx.Error
}

// SetCheckoutSession stores the correlation key once the payment session
// exists. Only a pending booking may gain one.
func (r *BookingRepository) SetCheckoutSession(ctx context.Context, bookingID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", bookingID, domain.BookingPending).
		Updates(map[string]interface{}{
			"checkout_session_id": sessionID,
			"updated_at":          time.Now(),
		}).Error
}

// MarkPaid transitions pending → paid and records the payment intent. The
// guarded WHERE clause makes duplicate webhook deliveries a no-op: the
// returned bool reports whether this call performed the transition.
func (r *BookingRepository) MarkPaid(ctx context.Context, bookingID, paymentIntentID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", bookingID, domain.BookingPending).
		Updates(map[string]interface{}{
			"status":            domain.BookingPaid,
			"payment_intent_id": paymentIntentID,
			"updated_at":        time.Now(),
		})
	return tx.RowsAffected > 0, tx.Error
}

// MarkExpired transitions pending → expired; terminal states are untouched.
func (r *BookingRepository) MarkExpired(ctx context.Context, bookingID string) (bool, error) {
	return r.transition(ctx, bookingID, domain.BookingExpired)
}

// MarkCanceled transitions pending → canceled; terminal states are untouched.
func (r *BookingRepository) MarkCanceled(ctx context.Context, bookingID string) (bool, error) {
	return r.transition(ctx, bookingID, domain.BookingCanceled)
}

func (r *BookingRepository) transition(ctx context.Context, bookingID string, to domain.BookingStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", bookingID, domain.BookingPending).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return tx.RowsAffected > 0, tx.Error
}

// ExpireStale sweeps pending bookings created before the cutoff into the
// expired state. Returns the number of rows transitioned.
func (r *BookingRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("status = ? AND created_at < ?", domain.BookingPending, cutoff).
		Updates(map[string]interface{}{
			"status":     domain.BookingExpired,
			"updated_at": time.Now(),
		})
	return tx.RowsAffected, tx.Error
}
