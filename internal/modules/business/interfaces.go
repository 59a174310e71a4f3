package business

import (
	"context"

	"holdmytime/internal/domain"
)

type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) error
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error)
	DeleteCascade(ctx context.Context, businessID string) error
}

// UserStore resolves the owner record so the subscription gate can run.
type UserStore interface {
	EnsureUser(ctx context.Context, id, email string) (*domain.User, error)
}
