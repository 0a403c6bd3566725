package repository

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Create returns apperror.ErrDuplicate when the user already reviewed
	// the service, including when a concurrent insert won the race.
	Create(ctx context.Context, review *model.Review) error

	// GetByID returns apperror.ErrNotFound when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReviewDetail, error)

	Update(ctx context.Context, review *model.Review) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// LIST Operations
	// ========================================

	// ListByService returns one page of a service's reviews, newest first.
	ListByService(ctx context.Context, serviceID uuid.UUID, limit, offset int) ([]*model.ReviewDetail, int, error)

	// ListByUser returns every review written by the user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.ReviewDetail, error)

	// GetSummary aggregates a service's ratings.
	GetSummary(ctx context.Context, serviceID uuid.UUID) (*model.RatingSummary, error)

	// ========================================
	// ELIGIBILITY
	// ========================================

	ServiceExists(ctx context.Context, serviceID uuid.UUID) (bool, error)

	// HasCompletedBooking reports whether the user has at least one
	// COMPLETED booking on the service.
	HasCompletedBooking(ctx context.Context, userID, serviceID uuid.UUID) (bool, error)

	ExistsByUserAndService(ctx context.Context, userID, serviceID uuid.UUID) (bool, error)
}
