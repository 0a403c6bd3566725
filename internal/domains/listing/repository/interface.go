package repository

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/listing/model"
)

// =====================================================
// SERVICE REPOSITORY INTERFACE
// =====================================================

// ListFilter selects catalog rows. ActiveOnly is set for the public catalog.
type ListFilter struct {
	Category   model.Category
	Search     string
	ProviderID *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ServiceRepository interface {
	// List returns one page and the total row count for the filter.
	List(ctx context.Context, filter ListFilter) ([]*model.ServiceSummary, int, error)

	// GetByID returns the service with provider, details, rating and all
	// reviews. Returns apperror.ErrNotFound when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ServiceDetail, error)

	// Create inserts the service and its category detail row in one transaction.
	Create(ctx context.Context, svc *model.Service, acc *model.AccommodationDetails, food *model.FoodDetails) error

	// Update rewrites the service and upserts its detail row in one transaction.
	Update(ctx context.Context, svc *model.Service, acc *model.AccommodationDetails, food *model.FoodDetails) error

	// Delete removes the service; details, bookings and reviews cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}
