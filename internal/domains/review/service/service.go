package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/domains/review/model"
	"housiee-backend/internal/domains/review/repository"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/cache"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	cache      cache.Cache
}

// NewReviewService builds the review ledger. c may be nil.
func NewReviewService(reviewRepo repository.ReviewRepository, c cache.Cache) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		cache:      c,
	}
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(
	ctx context.Context,
	caller *authz.Caller,
	req model.CreateReviewRequest,
) (*model.ReviewResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	serviceID := uuid.MustParse(req.ServiceID)

	// Step 2: Service must exist
	exists, err := s.reviewRepo.ServiceExists(ctx, serviceID)
	if err != nil {
		return nil, apperror.Internalf(err, "check service")
	}
	if !exists {
		return nil, model.NewServiceNotFoundError()
	}

	// Step 3: Check eligibility
	completed, err := s.reviewRepo.HasCompletedBooking(ctx, caller.UserID, serviceID)
	if err != nil {
		return nil, apperror.Internalf(err, "check eligibility")
	}
	if !completed {
		return nil, model.NewNotEligibleError()
	}

	// Step 4: Fast path duplicate check; the unique constraint decides races
	reviewed, err := s.reviewRepo.ExistsByUserAndService(ctx, caller.UserID, serviceID)
	if err != nil {
		return nil, apperror.Internalf(err, "check existing review")
	}
	if reviewed {
		return nil, model.NewAlreadyReviewedError()
	}

	// Step 5: Save
	now := time.Now().UTC()
	review := &model.Review{
		ID:        uuid.New(),
		UserID:    caller.UserID,
		ServiceID: serviceID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, model.NewAlreadyReviewedError()
		}
		return nil, apperror.Internalf(err, "create review")
	}

	s.invalidate(ctx, serviceID)

	log.Info().
		Str("review_id", review.ID.String()).
		Str("service_id", serviceID.String()).
		Int("rating", review.Rating).
		Msg("Review created")

	// Step 6: Reload with reviewer name and avatar
	return s.reload(ctx, review.ID)
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (s *reviewService) UpdateReview(
	ctx context.Context,
	caller *authz.Caller,
	id uuid.UUID,
	req model.UpdateReviewRequest,
) (*model.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	current, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	review := current.Review
	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(*req.Comment)
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviewRepo.Update(ctx, &review); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, apperror.Internalf(err, "update review %s", id)
	}

	s.invalidate(ctx, review.ServiceID)
	return s.reload(ctx, id)
}

func (s *reviewService) DeleteReview(ctx context.Context, caller *authz.Caller, id uuid.UUID) error {
	current, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.NewReviewNotFoundError()
		}
		return apperror.Internalf(err, "delete review %s", id)
	}

	s.invalidate(ctx, current.ServiceID)

	log.Info().
		Str("review_id", id.String()).
		Str("deleted_by", caller.UserID.String()).
		Msg("Review deleted")

	return nil
}

// =====================================================
// LIST
// =====================================================

func (s *reviewService) ListServiceReviews(
	ctx context.Context,
	serviceID uuid.UUID,
	page, limit int,
) (*model.ListReviewsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > model.MaxPageLimit {
		limit = model.DefaultPageLimit
	}

	exists, err := s.reviewRepo.ServiceExists(ctx, serviceID)
	if err != nil {
		return nil, apperror.Internalf(err, "check service")
	}
	if !exists {
		return nil, model.NewServiceNotFoundError()
	}

	reviews, total, err := s.reviewRepo.ListByService(ctx, serviceID, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Internalf(err, "list reviews")
	}

	summary, err := s.reviewRepo.GetSummary(ctx, serviceID)
	if err != nil {
		return nil, apperror.Internalf(err, "review summary")
	}

	return &model.ListReviewsResponse{
		Reviews:    model.ToReviewResponses(reviews),
		Summary:    model.ToSummaryResponse(summary),
		Pagination: response.NewPagination(page, limit, total),
	}, nil
}

func (s *reviewService) ListMyReviews(ctx context.Context, caller *authz.Caller) ([]*model.ReviewResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	reviews, err := s.reviewRepo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, apperror.Internalf(err, "list my reviews")
	}
	return model.ToReviewResponses(reviews), nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *reviewService) loadOwned(ctx context.Context, caller *authz.Caller, id uuid.UUID) (*model.ReviewDetail, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	current, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, apperror.Internalf(err, "get review %s", id)
	}

	if !caller.IsAdmin() && !caller.Is(current.UserID) {
		return nil, model.NewNotAuthorError()
	}
	return current, nil
}

func (s *reviewService) reload(ctx context.Context, id uuid.UUID) (*model.ReviewResponse, error) {
	detail, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internalf(err, "reload review %s", id)
	}
	return model.ToReviewResponse(detail), nil
}

// invalidate drops cached catalog pages and the service detail, whose
// ratings just changed.
func (s *reviewService) invalidate(ctx context.Context, serviceID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.ServiceListPattern); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}
	if err := s.cache.Delete(ctx, cache.ServiceDetailKey(serviceID.String())); err != nil {
		log.Warn().Err(err).Str("service_id", serviceID.String()).Msg("Failed to invalidate service cache")
	}
}
