package service

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/review/model"
	"housiee-backend/internal/shared/authz"
)

// =====================================================
// REVIEW SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// CreateReview requires a COMPLETED booking on the service and allows
	// one review per user and service.
	CreateReview(ctx context.Context, caller *authz.Caller, req model.CreateReviewRequest) (*model.ReviewResponse, error)

	// UpdateReview and DeleteReview are limited to the author and admins.
	UpdateReview(ctx context.Context, caller *authz.Caller, id uuid.UUID, req model.UpdateReviewRequest) (*model.ReviewResponse, error)
	DeleteReview(ctx context.Context, caller *authz.Caller, id uuid.UUID) error

	// ListServiceReviews is public.
	ListServiceReviews(ctx context.Context, serviceID uuid.UUID, page, limit int) (*model.ListReviewsResponse, error)

	ListMyReviews(ctx context.Context, caller *authz.Caller) ([]*model.ReviewResponse, error)
}
