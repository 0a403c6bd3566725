package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/domains/listing/model"
	"housiee-backend/internal/domains/listing/repository"
	"housiee-backend/internal/infrastructure/storage"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/metrics"
	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/cache"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type listingService struct {
	repo      repository.ServiceRepository
	cache     cache.Cache
	images    storage.ImageStore
	processor *storage.ImageProcessor
	metrics   *metrics.Metrics
	cacheTTL  time.Duration
}

// NewListingService wires the catalog. cache and m may be nil, in which
// case the catalog is always read from the database.
func NewListingService(
	repo repository.ServiceRepository,
	c cache.Cache,
	images storage.ImageStore,
	processor *storage.ImageProcessor,
	m *metrics.Metrics,
	cacheTTL time.Duration,
) ServiceInterface {
	if cacheTTL <= 0 {
		cacheTTL = model.CatalogCacheTTL
	}
	return &listingService{
		repo:      repo,
		cache:     c,
		images:    images,
		processor: processor,
		metrics:   m,
		cacheTTL:  cacheTTL,
	}
}

// =====================================================
// LIST SERVICES
// =====================================================

func (s *listingService) ListServices(ctx context.Context, req model.ListServicesRequest) (*model.ListServicesResponse, error) {
	// Step 1: Normalise and validate filters
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = model.DefaultPageLimit
	}
	req.Search = model.NormalizeSearch(req.Search)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// Step 2: Cache lookup
	key := cache.ServiceListKey(req.Category, req.Search, req.Page, req.Limit)
	var cached model.ListServicesResponse
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	// Step 3: Query
	services, total, err := s.repo.List(ctx, repository.ListFilter{
		Category:   model.Category(req.Category),
		Search:     req.Search,
		ActiveOnly: true,
		Limit:      req.Limit,
		Offset:     (req.Page - 1) * req.Limit,
	})
	if err != nil {
		return nil, apperror.Internalf(err, "list services")
	}

	resp := &model.ListServicesResponse{
		Services:   make([]model.ServiceResponse, 0, len(services)),
		Pagination: response.NewPagination(req.Page, req.Limit, total),
	}
	for _, svc := range services {
		resp.Services = append(resp.Services, model.ToServiceResponse(svc))
	}

	// Step 4: Populate cache
	s.writeCache(ctx, key, resp)

	return resp, nil
}

// =====================================================
// GET SERVICE
// =====================================================

func (s *listingService) GetService(ctx context.Context, caller *authz.Caller, id uuid.UUID) (*model.ServiceDetailResponse, error) {
	key := cache.ServiceDetailKey(id.String())

	resp := &model.ServiceDetailResponse{}
	if !s.readCache(ctx, key, resp) {
		detail, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, model.NewServiceNotFoundError()
			}
			return nil, apperror.Internalf(err, "get service %s", id)
		}
		resp = model.ToServiceDetailResponse(detail)
		s.writeCache(ctx, key, resp)
	}

	// Visibility is decided per caller, after the cache.
	if !resp.IsActive && !caller.IsAdmin() && !caller.OwnsProvider(resp.ProviderID) {
		return nil, model.NewServiceNotFoundError()
	}

	return resp, nil
}

// =====================================================
// PROVIDER SERVICES
// =====================================================

func (s *listingService) ListProviderServices(ctx context.Context, caller *authz.Caller) ([]model.ServiceResponse, error) {
	if !caller.HasProvider() {
		return nil, model.NewProviderNotFoundError()
	}

	services, _, err := s.repo.List(ctx, repository.ListFilter{ProviderID: caller.ProviderID})
	if err != nil {
		return nil, apperror.Internalf(err, "list provider services")
	}

	result := make([]model.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, model.ToServiceResponse(svc))
	}
	return result, nil
}

// =====================================================
// CREATE SERVICE
// =====================================================

func (s *listingService) CreateService(
	ctx context.Context,
	caller *authz.Caller,
	req model.CreateServiceRequest,
	uploads []model.ImageUpload,
) (*model.ServiceDetailResponse, error) {
	// Step 1: Authorize
	if !caller.CanManageListings() {
		return nil, model.NewProviderRoleError()
	}
	if !caller.HasProvider() {
		return nil, model.NewProviderNotFoundError()
	}

	// Step 2: Validate
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if len(req.Images)+len(uploads) > model.MaxImages {
		return nil, apperror.Validation(fmt.Sprintf("images: at most %d images", model.MaxImages))
	}

	category := model.Category(req.Category)
	acc, food, err := model.ParseDetails(category, req.Details)
	if err != nil {
		return nil, err
	}

	// Step 3: Store images before the DB write
	id := uuid.New()
	stored, err := s.storeUploads(ctx, id, uploads)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svc := &model.Service{
		ID:          id,
		ProviderID:  *caller.ProviderID,
		Category:    category,
		Title:       req.Title,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Images:      append(append([]string{}, req.Images...), stored...),
		Capacity:    req.Capacity,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Step 4: Insert service + details; undo the uploads on failure
	if err := s.repo.Create(ctx, svc, acc, food); err != nil {
		s.deleteImages(ctx, stored)
		return nil, apperror.Internalf(err, "create service")
	}

	s.invalidate(ctx, svc.ID)

	log.Info().
		Str("service_id", svc.ID.String()).
		Str("provider_id", svc.ProviderID.String()).
		Str("category", string(svc.Category)).
		Msg("Service created")

	return s.fresh(ctx, svc.ID)
}

// storeUploads keys every upload under the listing's own prefix, which is
// what later cleanup uses to tell its images from referenced ones.
func (s *listingService) storeUploads(ctx context.Context, id uuid.UUID, uploads []model.ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		if err := s.processor.ValidateImage(up.Data); err != nil {
			s.deleteImages(ctx, urls)
			return nil, apperror.Validation(fmt.Sprintf("%s: %v", up.Filename, err))
		}

		data, err := s.processor.Normalize(up.Data)
		if err != nil {
			s.deleteImages(ctx, urls)
			if errors.Is(err, storage.ErrInvalidImage) {
				return nil, apperror.Validation(fmt.Sprintf("%s: %v", up.Filename, err))
			}
			return nil, apperror.Internalf(err, "normalize image")
		}

		url, err := s.images.Save(ctx, storage.ServiceImageKey(id), data, "image/jpeg")
		if err != nil {
			s.deleteImages(ctx, urls)
			return nil, apperror.Internalf(err, "store image")
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// =====================================================
// UPDATE SERVICE
// =====================================================

func (s *listingService) UpdateService(
	ctx context.Context,
	caller *authz.Caller,
	id uuid.UUID,
	req model.UpdateServiceRequest,
) (*model.ServiceDetailResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// Step 2: Load and authorize
	current, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Category != nil && model.Category(*req.Category) != current.Category {
		return nil, model.NewCategoryImmutableError()
	}

	// Step 3: Apply the partial update
	svc := current.Service
	if req.Title != nil {
		svc.Title = *req.Title
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.BasePrice != nil {
		svc.BasePrice = *req.BasePrice
	}
	if req.Capacity != nil {
		if *req.Capacity == 0 {
			svc.Capacity = nil
		} else {
			capacity := *req.Capacity
			svc.Capacity = &capacity
		}
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	var removed []string
	if req.Images != nil {
		removed = missingFrom(svc.Images, *req.Images)
		svc.Images = append([]string{}, (*req.Images)...)
	}
	svc.UpdatedAt = time.Now().UTC()

	acc, food, err := mergeDetails(current, req)
	if err != nil {
		return nil, err
	}

	// Step 4: Persist
	if err := s.repo.Update(ctx, &svc, acc, food); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewServiceNotFoundError()
		}
		return nil, apperror.Internalf(err, "update service %s", id)
	}

	s.invalidate(ctx, id)
	s.deleteImages(ctx, storage.OwnedImages(s.images, id, removed))

	return s.fresh(ctx, id)
}

// mergeDetails overlays the request's detail fields on the stored details.
// Categories without details return nil, nil.
func mergeDetails(current *model.ServiceDetail, req model.UpdateServiceRequest) (*model.AccommodationDetails, *model.FoodDetails, error) {
	if len(req.Details) == 0 {
		return current.Accommodation, current.Food, nil
	}

	switch current.Category {
	case model.CategoryAccommodation:
		d := &model.AccommodationDetails{MaxGuests: 1, Amenities: []string{}}
		if current.Accommodation != nil {
			copied := *current.Accommodation
			d = &copied
		}
		if err := model.MergeDetails(req.Details, d); err != nil {
			return nil, nil, err
		}
		return d, nil, nil
	case model.CategoryFood:
		d := &model.FoodDetails{MealTypes: []string{}}
		if current.Food != nil {
			copied := *current.Food
			d = &copied
		}
		if err := model.MergeDetails(req.Details, d); err != nil {
			return nil, nil, err
		}
		return nil, d, nil
	default:
		return nil, nil, nil
	}
}

// =====================================================
// DELETE SERVICE
// =====================================================

func (s *listingService) DeleteService(ctx context.Context, caller *authz.Caller, id uuid.UUID) error {
	current, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.NewServiceNotFoundError()
		}
		return apperror.Internalf(err, "delete service %s", id)
	}

	s.invalidate(ctx, id)
	s.deleteImages(ctx, storage.OwnedImages(s.images, id, current.Images))

	log.Info().
		Str("service_id", id.String()).
		Str("deleted_by", caller.UserID.String()).
		Msg("Service deleted")

	return nil
}

// =====================================================
// HELPERS
// =====================================================

// loadOwned fetches the service and checks the caller is its provider or an admin.
func (s *listingService) loadOwned(ctx context.Context, caller *authz.Caller, id uuid.UUID) (*model.ServiceDetail, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewServiceNotFoundError()
		}
		return nil, apperror.Internalf(err, "get service %s", id)
	}

	if !caller.IsAdmin() && !caller.OwnsProvider(current.ProviderID) {
		return nil, model.NewNotOwnerError()
	}
	return current, nil
}

// fresh re-reads a service straight from the database after a write.
func (s *listingService) fresh(ctx context.Context, id uuid.UUID) (*model.ServiceDetailResponse, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internalf(err, "reload service %s", id)
	}
	return model.ToServiceDetailResponse(detail), nil
}

func (s *listingService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	switch {
	case err != nil:
		s.metrics.CacheLookup("error")
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to database")
		return false
	case found:
		s.metrics.CacheLookup("hit")
		return true
	default:
		s.metrics.CacheLookup("miss")
		return false
	}
}

func (s *listingService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func (s *listingService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.ServiceListPattern); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}
	if err := s.cache.Delete(ctx, cache.ServiceDetailKey(id.String())); err != nil {
		log.Warn().Err(err).Str("service_id", id.String()).Msg("Failed to invalidate service cache")
	}
}

// deleteImages removes stored images best-effort.
func (s *listingService) deleteImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.images.Delete(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to delete image")
		}
	}
}

// missingFrom returns the entries of before that are not in after.
func missingFrom(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}

	var gone []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			gone = append(gone, u)
		}
	}
	return gone
}
