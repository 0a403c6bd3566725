package repository

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/booking/model"
)

// =====================================================
// BOOKING REPOSITORY INTERFACE
// =====================================================

// DecideFunc inspects the locked booking and returns the change to apply,
// or an error to abort the transaction.
type DecideFunc func(current *model.BookingDetail) (*model.StatusChange, error)

type BookingRepository interface {
	// GetServiceForBooking returns apperror.ErrNotFound when the service is missing.
	GetServiceForBooking(ctx context.Context, serviceID uuid.UUID) (*model.ServiceSnapshot, error)

	// Create inserts the booking and its creation history row in one
	// transaction. With enforceCapacity it locks the service row first and
	// returns model.ErrCapacityExceeded when the overlapping PENDING and
	// CONFIRMED quantity plus this booking exceeds the service capacity.
	Create(ctx context.Context, booking *model.Booking, history *model.HistoryEntry, enforceCapacity bool) error

	// GetByID returns apperror.ErrNotFound when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error)

	// ListByUser returns the user's bookings, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, status *model.Status) ([]*model.BookingDetail, error)

	// ListByProvider returns bookings on the provider's services, newest first.
	ListByProvider(ctx context.Context, providerID uuid.UUID, status *model.Status) ([]*model.BookingDetail, error)

	// UpdateStatus locks the booking row, asks decide for the change and
	// writes the new status plus a history row, all in one transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, decide DecideFunc) (*model.BookingDetail, error)

	ListHistory(ctx context.Context, bookingID uuid.UUID) ([]*model.HistoryEntry, error)
}
