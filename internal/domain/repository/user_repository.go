package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
)

// UserRepository defines the interface for dashboard account operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
}
