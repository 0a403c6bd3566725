package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	listingmodel "housiee-backend/internal/domains/listing/model"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Booking is a reservation of a service by a user.
type Booking struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ServiceID  uuid.UUID
	StartDate  time.Time
	EndDate    *time.Time
	Quantity   int
	TotalPrice decimal.Decimal
	Status     Status
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingDetail is a booking joined with its service, provider and renter.
type BookingDetail struct {
	Booking
	ServiceTitle    string
	ServiceCategory listingmodel.Category
	ServiceImages   []string
	ProviderID      uuid.UUID
	ProviderName    string
	RenterName      string
	RenterEmail     string
}

// ServiceSnapshot is what booking creation needs to know about a service.
type ServiceSnapshot struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	Title      string
	Category   listingmodel.Category
	BasePrice  decimal.Decimal
	Capacity   *int
	IsActive   bool
}

// HistoryEntry records one status change. FromStatus is nil for creation,
// ChangedBy is nil once the acting user has been deleted.
type HistoryEntry struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	FromStatus *Status
	ToStatus   Status
	ChangedBy  *uuid.UUID
	Actor      Actor
	ChangedAt  time.Time
}

// StatusChange is the outcome of a validated transition.
type StatusChange struct {
	From      Status
	To        Status
	Actor     Actor
	ChangedBy uuid.UUID
	At        time.Time
}
