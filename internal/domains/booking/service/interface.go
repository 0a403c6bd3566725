package service

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/booking/model"
	"housiee-backend/internal/shared/authz"
)

// =====================================================
// BOOKING SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// CreateBooking prices the booking server side and stores it as PENDING.
	CreateBooking(ctx context.Context, caller *authz.Caller, req model.CreateBookingRequest) (*model.BookingResponse, error)

	// GetBooking is visible to the renter, the owning provider and admins.
	GetBooking(ctx context.Context, caller *authz.Caller, id uuid.UUID) (*model.BookingResponse, error)

	ListMyBookings(ctx context.Context, caller *authz.Caller, status string) ([]*model.BookingResponse, error)

	// ListProviderBookings requires a provider profile.
	ListProviderBookings(ctx context.Context, caller *authz.Caller, status string) ([]*model.BookingResponse, error)

	// UpdateStatus applies one transition of the booking state machine.
	UpdateStatus(ctx context.Context, caller *authz.Caller, id uuid.UUID, req model.UpdateStatusRequest) (*model.BookingResponse, error)

	GetHistory(ctx context.Context, caller *authz.Caller, id uuid.UUID) ([]model.HistoryResponse, error)
}
