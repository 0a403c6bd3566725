package repository

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/user/model"
	"housiee-backend/internal/shared/authz"
)

// UserRepository defines data access for accounts.
// Lookups wrap apperror.ErrNotFound; Create wraps apperror.ErrDuplicate
// when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ResolveCaller reads the current role and provider profile id.
	ResolveCaller(ctx context.Context, id uuid.UUID) (*authz.Caller, error)
}
