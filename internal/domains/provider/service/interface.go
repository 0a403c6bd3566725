package service

import (
	"context"

	"housiee-backend/internal/domains/provider/model"
	"housiee-backend/internal/shared/authz"
)

type ServiceInterface interface {
	// Apply creates the caller's provider profile and promotes them.
	Apply(ctx context.Context, caller *authz.Caller, req model.ApplyRequest) (*model.ApplyResponse, error)

	GetProfile(ctx context.Context, caller *authz.Caller) (*model.ProviderResponse, error)
	UpdateProfile(ctx context.Context, caller *authz.Caller, req model.UpdateProfileRequest) (*model.ProviderResponse, error)

	GetDashboardStats(ctx context.Context, caller *authz.Caller) (*model.DashboardResponse, error)
}
