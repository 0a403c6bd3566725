package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookingmodel "housiee-backend/internal/domains/booking/model"
	"housiee-backend/internal/shared/authz"
)

const (
	maxBusinessName = 200
	maxDescription  = 2000
	maxShortField   = 200
)

// =====================================================
// REQUEST DTOs
// =====================================================

type ApplyRequest struct {
	BusinessName string `json:"businessName"`
	Description  string `json:"description"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
}

func (r *ApplyRequest) Normalize() {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.Description = strings.TrimSpace(r.Description)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
}

func (r ApplyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessName,
			validation.Required.Error("businessName is required"),
			validation.RuneLength(2, maxBusinessName),
		),
		validation.Field(&r.Description, validation.RuneLength(0, maxDescription)),
		validation.Field(&r.Phone, validation.RuneLength(0, 32)),
		validation.Field(&r.Address, validation.RuneLength(0, maxShortField)),
		validation.Field(&r.City, validation.RuneLength(0, maxShortField)),
	)
}

// UpdateProfileRequest is partial; nil fields keep their value.
type UpdateProfileRequest struct {
	BusinessName *string `json:"businessName"`
	Description  *string `json:"description"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessName,
			validation.NilOrNotEmpty.Error("businessName cannot be empty"),
			validation.RuneLength(2, maxBusinessName),
		),
		validation.Field(&r.Description, validation.RuneLength(0, maxDescription)),
		validation.Field(&r.Phone, validation.RuneLength(0, 32)),
		validation.Field(&r.Address, validation.RuneLength(0, maxShortField)),
		validation.Field(&r.City, validation.RuneLength(0, maxShortField)),
	)
}

// Apply copies the set fields onto p.
func (r UpdateProfileRequest) Apply(p *Provider) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.BusinessName, r.BusinessName)
	set(&p.Description, r.Description)
	set(&p.Phone, r.Phone)
	set(&p.Address, r.Address)
	set(&p.City, r.City)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ProviderResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	BusinessName string    `json:"businessName"`
	Description  string    `json:"description"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToProviderResponse(p *Provider) *ProviderResponse {
	return &ProviderResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		BusinessName: p.BusinessName,
		Description:  p.Description,
		Phone:        p.Phone,
		Address:      p.Address,
		City:         p.City,
		IsVerified:   p.IsVerified,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ApplyResponse carries the role the session must be reissued with.
type ApplyResponse struct {
	Provider *ProviderResponse `json:"provider"`
	Role     authz.Role        `json:"role"`
}

type DashboardResponse struct {
	TotalServices    int             `json:"totalServices"`
	ActiveServices   int             `json:"activeServices"`
	TotalBookings    int             `json:"totalBookings"`
	BookingsByStatus map[string]int  `json:"bookingsByStatus"`
	Revenue          decimal.Decimal `json:"revenue"`
	AverageRating    *float64        `json:"averageRating"`
	ReviewCount      int             `json:"reviewCount"`
}

func ToDashboardResponse(s *DashboardStats) *DashboardResponse {
	byStatus := make(map[string]int, len(bookingmodel.Statuses))
	total := 0
	for _, st := range bookingmodel.Statuses {
		n := s.BookingsByStatus[string(st)]
		byStatus[string(st)] = n
		total += n
	}

	return &DashboardResponse{
		TotalServices:    s.TotalServices,
		ActiveServices:   s.ActiveServices,
		TotalBookings:    total,
		BookingsByStatus: byStatus,
		Revenue:          s.Revenue,
		AverageRating:    s.AverageRating,
		ReviewCount:      s.ReviewCount,
	}
}
