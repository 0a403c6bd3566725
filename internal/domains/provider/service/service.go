package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/domains/provider/model"
	"housiee-backend/internal/domains/provider/repository"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
)

type providerService struct {
	providerRepo repository.ProviderRepository
}

func NewProviderService(providerRepo repository.ProviderRepository) ServiceInterface {
	return &providerService{providerRepo: providerRepo}
}

// =====================================================
// APPLY
// =====================================================

func (s *providerService) Apply(
	ctx context.Context,
	caller *authz.Caller,
	req model.ApplyRequest,
) (*model.ApplyResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	// Step 1: Validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// Step 2: Fast path; the unique user_id decides concurrent applications
	if caller.HasProvider() {
		return nil, model.NewAlreadyAppliedError()
	}

	// Step 3: Profile and role flip in one transaction
	now := time.Now().UTC()
	p := &model.Provider{
		ID:           uuid.New(),
		UserID:       caller.UserID,
		BusinessName: req.BusinessName,
		Description:  req.Description,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.providerRepo.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, apperror.ErrDuplicate):
			return nil, model.NewAlreadyAppliedError()
		case errors.Is(err, apperror.ErrNotFound):
			return nil, apperror.Unauthorized("Authentication required")
		}
		return nil, apperror.Internalf(err, "create provider")
	}

	role := authz.RoleServiceProvider
	if caller.IsAdmin() {
		role = authz.RoleAdmin
	}

	log.Info().
		Str("user_id", caller.UserID.String()).
		Str("provider_id", p.ID.String()).
		Msg("Provider profile created")

	return &model.ApplyResponse{
		Provider: model.ToProviderResponse(p),
		Role:     role,
	}, nil
}

// =====================================================
// PROFILE
// =====================================================

func (s *providerService) GetProfile(ctx context.Context, caller *authz.Caller) (*model.ProviderResponse, error) {
	p, err := s.load(ctx, caller)
	if err != nil {
		return nil, err
	}
	return model.ToProviderResponse(p), nil
}

func (s *providerService) UpdateProfile(
	ctx context.Context,
	caller *authz.Caller,
	req model.UpdateProfileRequest,
) (*model.ProviderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	p, err := s.load(ctx, caller)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	p.UpdatedAt = time.Now().UTC()

	if err := s.providerRepo.Update(ctx, p); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewProfileNotFoundError()
		}
		return nil, apperror.Internalf(err, "update provider %s", p.ID)
	}
	return model.ToProviderResponse(p), nil
}

func (s *providerService) GetDashboardStats(ctx context.Context, caller *authz.Caller) (*model.DashboardResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}
	if !caller.HasProvider() {
		return nil, model.NewProfileNotFoundError()
	}

	stats, err := s.providerRepo.GetDashboardStats(ctx, *caller.ProviderID)
	if err != nil {
		return nil, apperror.Internalf(err, "dashboard stats")
	}
	return model.ToDashboardResponse(stats), nil
}

func (s *providerService) load(ctx context.Context, caller *authz.Caller) (*model.Provider, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	p, err := s.providerRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewProfileNotFoundError()
		}
		return nil, apperror.Internalf(err, "get provider")
	}
	return p, nil
}
