package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	listingmodel "housiee-backend/internal/domains/listing/model"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateBookingRequest carries no price: the total is always computed
// from the service's base price.
type CreateBookingRequest struct {
	ServiceID string  `json:"serviceId"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Notes     string  `json:"notes"`
	Quantity  *int    `json:"quantity"`
}

func (r CreateBookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceID,
			validation.Required.Error("serviceId is required"),
			is.UUID.Error("serviceId must be a valid id"),
		),
		validation.Field(&r.StartDate, validation.Required.Error("startDate is required")),
		validation.Field(&r.Notes, validation.Length(0, 2000)),
		validation.Field(&r.Quantity, validation.Min(1).Error("quantity must be at least 1")),
	)
}

// QuantityOrDefault returns the requested quantity, 1 when omitted.
func (r CreateBookingRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("status is required")),
	)
}

// ParseStatusFilter validates an optional ?status= query value.
func ParseStatusFilter(raw string) (*Status, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}
	status := Status(raw)
	if !status.IsValid() {
		return nil, NewInvalidStatusError(raw)
	}
	return &status, nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type BookingService struct {
	ID           uuid.UUID             `json:"id"`
	Title        string                `json:"title"`
	Category     listingmodel.Category `json:"category"`
	Images       []string              `json:"images"`
	ProviderID   uuid.UUID             `json:"providerId"`
	ProviderName string                `json:"providerName"`
}

type BookingUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type BookingResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	ServiceID  uuid.UUID       `json:"serviceId"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    *time.Time      `json:"endDate"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     Status          `json:"status"`
	Notes      string          `json:"notes"`
	Service    BookingService  `json:"service"`
	User       BookingUser     `json:"user"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type HistoryResponse struct {
	FromStatus *Status    `json:"fromStatus"`
	ToStatus   Status     `json:"toStatus"`
	ChangedBy  *uuid.UUID `json:"changedBy"`
	Actor      Actor      `json:"actor"`
	ChangedAt  time.Time  `json:"changedAt"`
}

func ToBookingResponse(d *BookingDetail) *BookingResponse {
	images := d.ServiceImages
	if images == nil {
		images = []string{}
	}

	return &BookingResponse{
		ID:         d.ID,
		UserID:     d.UserID,
		ServiceID:  d.ServiceID,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Quantity:   d.Quantity,
		TotalPrice: d.TotalPrice,
		Status:     d.Status,
		Notes:      d.Notes,
		Service: BookingService{
			ID:           d.ServiceID,
			Title:        d.ServiceTitle,
			Category:     d.ServiceCategory,
			Images:       images,
			ProviderID:   d.ProviderID,
			ProviderName: d.ProviderName,
		},
		User: BookingUser{
			ID:    d.UserID,
			Name:  d.RenterName,
			Email: d.RenterEmail,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToBookingResponses(details []*BookingDetail) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(details))
	for _, d := range details {
		out = append(out, ToBookingResponse(d))
	}
	return out
}

func ToHistoryResponses(entries []*HistoryEntry) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryResponse{
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			ChangedBy:  e.ChangedBy,
			Actor:      e.Actor,
			ChangedAt:  e.ChangedAt,
		})
	}
	return out
}
