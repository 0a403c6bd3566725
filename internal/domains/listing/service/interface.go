package service

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/listing/model"
	"housiee-backend/internal/shared/authz"
)

// =====================================================
// LISTING SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// PUBLIC CATALOG
	// ========================================

	// ListServices returns active services matching the filters, newest first.
	ListServices(ctx context.Context, req model.ListServicesRequest) (*model.ListServicesResponse, error)

	// GetService returns one service. Inactive services are visible only to
	// their owning provider and to admins. caller may be nil.
	GetService(ctx context.Context, caller *authz.Caller, id uuid.UUID) (*model.ServiceDetailResponse, error)

	// ========================================
	// PROVIDER OPERATIONS
	// ========================================

	// ListProviderServices returns the caller's own services, inactive included.
	ListProviderServices(ctx context.Context, caller *authz.Caller) ([]model.ServiceResponse, error)

	CreateService(ctx context.Context, caller *authz.Caller, req model.CreateServiceRequest, uploads []model.ImageUpload) (*model.ServiceDetailResponse, error)

	UpdateService(ctx context.Context, caller *authz.Caller, id uuid.UUID, req model.UpdateServiceRequest) (*model.ServiceDetailResponse, error)

	DeleteService(ctx context.Context, caller *authz.Caller, id uuid.UUID) error
}
