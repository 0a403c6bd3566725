package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"housiee-backend/internal/domains/admin/model"
	"housiee-backend/internal/shared/authz"
)

// ServiceInterface is admin-only; the router enforces the role and every
// method checks it again against the caller.
type ServiceInterface interface {
	ListUsers(ctx context.Context, caller *authz.Caller, role, search string, page, limit int) (*model.UserListResponse, error)
	UpdateUserRole(ctx context.Context, caller *authz.Caller, id uuid.UUID, req model.UpdateRoleRequest) error
	DeleteUser(ctx context.Context, caller *authz.Caller, id uuid.UUID) error

	ListProviders(ctx context.Context, caller *authz.Caller, verified *bool, page, limit int) (*model.ProviderListResponse, error)
	VerifyProvider(ctx context.Context, caller *authz.Caller, id uuid.UUID, req model.VerifyProviderRequest) (*model.ProviderResponse, error)

	GetStatistics(ctx context.Context, caller *authz.Caller) (*model.StatisticsResponse, error)

	// ExportBookings builds an XLSX workbook; the caller must close it.
	ExportBookings(ctx context.Context, caller *authz.Caller, status string) (*excelize.File, error)
}
