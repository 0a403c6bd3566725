package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"housiee-backend/internal/domains/admin/model"
	"housiee-backend/internal/domains/admin/repository"
	bookingmodel "housiee-backend/internal/domains/booking/model"
	"housiee-backend/internal/infrastructure/storage"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/cache"
)

type adminService struct {
	adminRepo repository.AdminRepository
	cache     cache.Cache
	images    storage.ImageStore
}

// NewAdminService builds the moderation service. c and images may be nil.
func NewAdminService(adminRepo repository.AdminRepository, c cache.Cache, images storage.ImageStore) ServiceInterface {
	return &adminService{
		adminRepo: adminRepo,
		cache:     c,
		images:    images,
	}
}

func requireAdmin(caller *authz.Caller) error {
	if caller == nil {
		return apperror.Unauthorized("Authentication required")
	}
	if !caller.IsAdmin() {
		return apperror.Forbidden("Access denied")
	}
	return nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > model.MaxPageLimit {
		limit = model.DefaultPageLimit
	}
	return page, limit
}

// =====================================================
// USERS
// =====================================================

func (s *adminService) ListUsers(
	ctx context.Context,
	caller *authz.Caller,
	role, search string,
	page, limit int,
) (*model.UserListResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := model.ValidateRoleFilter(role); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	page, limit = clampPage(page, limit)
	users, total, err := s.adminRepo.ListUsers(ctx, model.UserFilter{
		Role:   role,
		Search: search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, apperror.Internalf(err, "list users")
	}

	resp := &model.UserListResponse{
		Users:      make([]*model.UserResponse, 0, len(users)),
		Pagination: response.NewPagination(page, limit, total),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, model.ToUserResponse(u))
	}
	return resp, nil
}

// UpdateUserRole changes the role only. A demoted provider keeps their
// profile and listings.
func (s *adminService) UpdateUserRole(
	ctx context.Context,
	caller *authz.Caller,
	id uuid.UUID,
	req model.UpdateRoleRequest,
) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return apperror.Validation(err.Error())
	}
	if caller.Is(id) {
		return model.NewSelfRoleChangeError()
	}

	if err := s.adminRepo.UpdateUserRole(ctx, id, authz.Role(req.Role)); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.NewUserNotFoundError()
		}
		return apperror.Internalf(err, "update role of %s", id)
	}

	log.Info().
		Str("admin_id", caller.UserID.String()).
		Str("user_id", id.String()).
		Str("role", req.Role).
		Msg("User role changed")
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, caller *authz.Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if caller.Is(id) {
		return model.NewSelfDeleteError()
	}

	images, err := s.adminRepo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.NewUserNotFoundError()
		}
		return apperror.Internalf(err, "delete user %s", id)
	}

	// Their listings may be gone; only uploads of those listings are removed
	s.invalidateCatalog(ctx)
	removed := 0
	for _, si := range images {
		owned := storage.OwnedImages(s.images, si.ServiceID, si.Images)
		s.deleteImages(ctx, owned)
		removed += len(owned)
	}

	log.Info().
		Str("admin_id", caller.UserID.String()).
		Str("user_id", id.String()).
		Int("images", removed).
		Msg("User deleted")
	return nil
}

// =====================================================
// PROVIDERS
// =====================================================

func (s *adminService) ListProviders(
	ctx context.Context,
	caller *authz.Caller,
	verified *bool,
	page, limit int,
) (*model.ProviderListResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	page, limit = clampPage(page, limit)
	providers, total, err := s.adminRepo.ListProviders(ctx, model.ProviderFilter{
		Verified: verified,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, apperror.Internalf(err, "list providers")
	}

	resp := &model.ProviderListResponse{
		Providers:  make([]*model.ProviderResponse, 0, len(providers)),
		Pagination: response.NewPagination(page, limit, total),
	}
	for _, p := range providers {
		resp.Providers = append(resp.Providers, model.ToProviderResponse(p))
	}
	return resp, nil
}

func (s *adminService) VerifyProvider(
	ctx context.Context,
	caller *authz.Caller,
	id uuid.UUID,
	req model.VerifyProviderRequest,
) (*model.ProviderResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	p, err := s.adminRepo.SetProviderVerified(ctx, id, *req.IsVerified)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewProviderNotFoundError()
		}
		return nil, apperror.Internalf(err, "verify provider %s", id)
	}
	return model.ToProviderResponse(p), nil
}

// =====================================================
// STATISTICS & EXPORT
// =====================================================

func (s *adminService) GetStatistics(ctx context.Context, caller *authz.Caller) (*model.StatisticsResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	stats, err := s.adminRepo.GetStatistics(ctx)
	if err != nil {
		return nil, apperror.Internalf(err, "statistics")
	}
	return model.ToStatisticsResponse(stats), nil
}

func (s *adminService) ExportBookings(ctx context.Context, caller *authz.Caller, status string) (*excelize.File, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	// Step 1: Validate filter
	filter, err := bookingmodel.ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	statusFilter := ""
	if filter != nil {
		statusFilter = string(*filter)
	}

	// Step 2: Load rows
	rows, err := s.adminRepo.ListBookingsForExport(ctx, statusFilter)
	if err != nil {
		return nil, apperror.Internalf(err, "load bookings for export")
	}

	// Step 3: Build workbook
	f, err := buildBookingsWorkbook(rows)
	if err != nil {
		return nil, apperror.Internalf(err, "build bookings workbook")
	}
	return f, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *adminService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, pattern := range []string{cache.ServiceListPattern, cache.ServiceDetailPattern} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			log.Warn().Err(err).Str("pattern", pattern).Msg("Failed to invalidate catalog cache")
		}
	}
}

func (s *adminService) deleteImages(ctx context.Context, urls []string) {
	if s.images == nil {
		return
	}
	for _, url := range urls {
		if err := s.images.Delete(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to delete image")
		}
	}
}
