package repository

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/provider/model"
)

type ProviderRepository interface {
	// Create inserts the profile and promotes the user to SERVICE_PROVIDER
	// in one transaction. Admins keep their role. A second profile for the
	// same user wraps apperror.ErrDuplicate.
	Create(ctx context.Context, provider *model.Provider) error

	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Provider, error)
	Update(ctx context.Context, provider *model.Provider) error

	GetDashboardStats(ctx context.Context, providerID uuid.UUID) (*model.DashboardStats, error)
}
