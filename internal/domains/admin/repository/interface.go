package repository

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/admin/model"
	"housiee-backend/internal/shared/authz"
)

type AdminRepository interface {
	ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.UserRecord, int, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role authz.Role) error

	// DeleteUser removes the user and everything cascading from them. It
	// returns the image URLs of the services that went with them.
	DeleteUser(ctx context.Context, id uuid.UUID) ([]model.ServiceImages, error)

	ListProviders(ctx context.Context, filter model.ProviderFilter) ([]*model.ProviderRecord, int, error)
	SetProviderVerified(ctx context.Context, id uuid.UUID, verified bool) (*model.ProviderRecord, error)

	GetStatistics(ctx context.Context) (*model.Statistics, error)
	ListBookingsForExport(ctx context.Context, status string) ([]*model.ExportRow, error)
}
