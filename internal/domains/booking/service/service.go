package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/domains/booking/model"
	"housiee-backend/internal/domains/booking/repository"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/metrics"
	"housiee-backend/internal/shared/utils"
	"housiee-backend/pkg/apperror"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type bookingService struct {
	repo    repository.BookingRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewBookingService(repo repository.BookingRepository, m *metrics.Metrics) ServiceInterface {
	return &bookingService{
		repo:    repo,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// =====================================================
// CREATE BOOKING
// =====================================================

func (s *bookingService) CreateBooking(
	ctx context.Context,
	caller *authz.Caller,
	req model.CreateBookingRequest,
) (*model.BookingResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	serviceID := uuid.MustParse(req.ServiceID)

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperror.Validation("startDate: " + err.Error())
	}

	var end *time.Time
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		parsed, err := utils.ParseDate(*req.EndDate)
		if err != nil {
			return nil, apperror.Validation("endDate: " + err.Error())
		}
		end = &parsed
	}

	// Step 2: Service must exist and be active
	svc, err := s.repo.GetServiceForBooking(ctx, serviceID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewServiceUnavailableError()
		}
		return nil, apperror.Internalf(err, "load service %s", serviceID)
	}
	if !svc.IsActive {
		return nil, model.NewServiceUnavailableError()
	}

	// Step 3: Price server side
	quantity := req.QuantityOrDefault()
	total, err := model.CalculatePrice(svc.Category, svc.BasePrice, start, end, quantity)
	if err != nil {
		return nil, err
	}

	// Step 4: Insert booking + creation history
	now := s.now()
	booking := &model.Booking{
		ID:         uuid.New(),
		UserID:     caller.UserID,
		ServiceID:  svc.ID,
		StartDate:  start,
		EndDate:    end,
		Quantity:   quantity,
		TotalPrice: total,
		Status:     model.StatusPending,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	changedBy := caller.UserID
	history := &model.HistoryEntry{
		ID:        uuid.New(),
		BookingID: booking.ID,
		ToStatus:  model.StatusPending,
		ChangedBy: &changedBy,
		Actor:     model.ActorRenter,
		ChangedAt: now,
	}

	if err := s.repo.Create(ctx, booking, history, svc.Capacity != nil); err != nil {
		switch {
		case errors.Is(err, model.ErrCapacityExceeded):
			return nil, model.NewCapacityError()
		case errors.Is(err, model.ErrServiceUnavailable):
			return nil, model.NewServiceUnavailableError()
		default:
			return nil, apperror.Internalf(err, "create booking")
		}
	}

	s.metrics.BookingCreated(string(svc.Category))
	log.Info().
		Str("booking_id", booking.ID.String()).
		Str("service_id", svc.ID.String()).
		Str("user_id", caller.UserID.String()).
		Str("total_price", total.String()).
		Msg("Booking created")

	// Step 5: Return with denormalised service data
	detail, err := s.repo.GetByID(ctx, booking.ID)
	if err != nil {
		return nil, apperror.Internalf(err, "reload booking %s", booking.ID)
	}
	return model.ToBookingResponse(detail), nil
}

// =====================================================
// READ
// =====================================================

func (s *bookingService) GetBooking(ctx context.Context, caller *authz.Caller, id uuid.UUID) (*model.BookingResponse, error) {
	detail, _, err := s.loadVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return model.ToBookingResponse(detail), nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, caller *authz.Caller, status string) ([]*model.BookingResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	filter, err := model.ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListByUser(ctx, caller.UserID, filter)
	if err != nil {
		return nil, apperror.Internalf(err, "list user bookings")
	}
	return model.ToBookingResponses(bookings), nil
}

func (s *bookingService) ListProviderBookings(ctx context.Context, caller *authz.Caller, status string) ([]*model.BookingResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}
	if !caller.HasProvider() {
		return nil, model.NewProviderNotFoundError()
	}

	filter, err := model.ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListByProvider(ctx, *caller.ProviderID, filter)
	if err != nil {
		return nil, apperror.Internalf(err, "list provider bookings")
	}
	return model.ToBookingResponses(bookings), nil
}

func (s *bookingService) GetHistory(ctx context.Context, caller *authz.Caller, id uuid.UUID) ([]model.HistoryResponse, error) {
	if _, _, err := s.loadVisible(ctx, caller, id); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, apperror.Internalf(err, "list booking history %s", id)
	}
	return model.ToHistoryResponses(entries), nil
}

// loadVisible returns the booking and the caller's actor kind, or 404/403.
func (s *bookingService) loadVisible(ctx context.Context, caller *authz.Caller, id uuid.UUID) (*model.BookingDetail, model.Actor, error) {
	if caller == nil {
		return nil, model.ActorNone, apperror.Unauthorized("Authentication required")
	}

	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.ActorNone, model.NewBookingNotFoundError()
		}
		return nil, model.ActorNone, apperror.Internalf(err, "get booking %s", id)
	}

	actor := model.ActorFor(caller, detail)
	if actor == model.ActorNone {
		return nil, actor, model.NewNoAccessError()
	}
	return detail, actor, nil
}

// =====================================================
// STATUS TRANSITION
// =====================================================

func (s *bookingService) UpdateStatus(
	ctx context.Context,
	caller *authz.Caller,
	id uuid.UUID,
	req model.UpdateStatusRequest,
) (*model.BookingResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	// Step 1: Validate the body shape; the enum is checked once the actor is known
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	target := model.Status(strings.ToUpper(strings.TrimSpace(req.Status)))

	// Step 2: Check actor, enum and transition against the locked row
	var change *model.StatusChange
	updated, err := s.repo.UpdateStatus(ctx, id, func(current *model.BookingDetail) (*model.StatusChange, error) {
		actor := model.ActorFor(caller, current)
		if err := model.CheckTransition(actor, current.Status, target); err != nil {
			return nil, err
		}
		change = &model.StatusChange{
			From:      current.Status,
			To:        target,
			Actor:     actor,
			ChangedBy: caller.UserID,
			At:        s.now(),
		}
		return change, nil
	})
	if err != nil {
		if apperror.As(err) != nil {
			return nil, err
		}
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, model.NewBookingNotFoundError()
		}
		return nil, apperror.Internalf(err, "update booking status %s", id)
	}

	s.metrics.BookingTransition(string(change.From), string(change.To), string(change.Actor))
	log.Info().
		Str("booking_id", id.String()).
		Str("from", string(change.From)).
		Str("to", string(change.To)).
		Str("actor", string(change.Actor)).
		Str("changed_by", caller.UserID.String()).
		Msg("Booking status changed")

	return model.ToBookingResponse(updated), nil
}
