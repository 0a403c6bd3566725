package model

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookingmodel "housiee-backend/internal/domains/booking/model"
	listingmodel "housiee-backend/internal/domains/listing/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/response"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// =====================================================
// QUERIES
// =====================================================

type UserFilter struct {
	Role   string
	Search string
	Limit  int
	Offset int
}

type ProviderFilter struct {
	Verified *bool
	Limit    int
	Offset   int
}

// =====================================================
// REQUEST DTOs
// =====================================================

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (r *UpdateRoleRequest) Normalize() {
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func (r UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			validation.By(validRole),
		),
	)
}

func validRole(v interface{}) error {
	s, _ := v.(string)
	if !authz.Role(s).IsValid() {
		return validation.NewError("validation_role", fmt.Sprintf("role must be one of %v", authz.Roles))
	}
	return nil
}

// ValidateRoleFilter accepts an empty filter.
func ValidateRoleFilter(role string) error {
	if role == "" {
		return nil
	}
	return validRole(role)
}

type VerifyProviderRequest struct {
	IsVerified *bool `json:"isVerified"`
}

func (r VerifyProviderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IsVerified, validation.NotNil.Error("isVerified is required")),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Avatar     *string    `json:"avatar"`
	Role       authz.Role `json:"role"`
	ProviderID *uuid.UUID `json:"providerId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type ProviderResponse struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"businessName"`
	City         string    `json:"city"`
	Phone        string    `json:"phone"`
	IsVerified   bool      `json:"isVerified"`
	ServiceCount int       `json:"serviceCount"`
	User         struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
		Name  string    `json:"name"`
	} `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserListResponse struct {
	Users      []*UserResponse     `json:"users"`
	Pagination response.Pagination `json:"pagination"`
}

type ProviderListResponse struct {
	Providers  []*ProviderResponse `json:"providers"`
	Pagination response.Pagination `json:"pagination"`
}

type StatisticsResponse struct {
	Users struct {
		Total  int            `json:"total"`
		ByRole map[string]int `json:"byRole"`
	} `json:"users"`
	Providers struct {
		Total    int `json:"total"`
		Verified int `json:"verified"`
	} `json:"providers"`
	Services struct {
		Total      int            `json:"total"`
		Active     int            `json:"active"`
		ByCategory map[string]int `json:"byCategory"`
	} `json:"services"`
	Bookings struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"byStatus"`
	} `json:"bookings"`
	Revenue decimal.Decimal `json:"revenue"`
	Reviews struct {
		Total         int      `json:"total"`
		AverageRating *float64 `json:"averageRating"`
	} `json:"reviews"`
}

func ToUserResponse(u *UserRecord) *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Avatar:     u.Avatar,
		Role:       u.Role,
		ProviderID: u.ProviderID,
		CreatedAt:  u.CreatedAt,
	}
}

func ToProviderResponse(p *ProviderRecord) *ProviderResponse {
	resp := &ProviderResponse{
		ID:           p.ID,
		BusinessName: p.BusinessName,
		City:         p.City,
		Phone:        p.Phone,
		IsVerified:   p.IsVerified,
		ServiceCount: p.ServiceCount,
		CreatedAt:    p.CreatedAt,
	}
	resp.User.ID = p.UserID
	resp.User.Email = p.UserEmail
	resp.User.Name = p.UserName
	return resp
}

// ToStatisticsResponse fills every known role, category and status so
// the dashboard never sees a missing key.
func ToStatisticsResponse(s *Statistics) *StatisticsResponse {
	resp := &StatisticsResponse{}

	resp.Users.ByRole = map[string]int{}
	for _, role := range authz.Roles {
		n := s.UsersByRole[string(role)]
		resp.Users.ByRole[string(role)] = n
		resp.Users.Total += n
	}

	resp.Providers.Total = s.ProvidersTotal
	resp.Providers.Verified = s.ProvidersVerified

	resp.Services.Total = s.ServicesTotal
	resp.Services.Active = s.ServicesActive
	resp.Services.ByCategory = map[string]int{}
	for _, c := range listingmodel.Categories {
		resp.Services.ByCategory[string(c)] = s.ServicesByCategory[string(c)]
	}

	resp.Bookings.ByStatus = map[string]int{}
	for _, st := range bookingmodel.Statuses {
		n := s.BookingsByStatus[string(st)]
		resp.Bookings.ByStatus[string(st)] = n
		resp.Bookings.Total += n
	}

	resp.Revenue = s.Revenue
	resp.Reviews.Total = s.ReviewsTotal
	resp.Reviews.AverageRating = s.AverageRating
	return resp
}
