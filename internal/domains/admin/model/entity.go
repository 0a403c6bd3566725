package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"housiee-backend/internal/shared/authz"
)

// UserRecord is a user as seen by moderators.
type UserRecord struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Avatar     *string
	Role       authz.Role
	ProviderID *uuid.UUID
	CreatedAt  time.Time
}

// ServiceImages are the image URLs of one listing removed with its provider.
type ServiceImages struct {
	ServiceID uuid.UUID
	Images    []string
}

type ProviderRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	UserEmail    string
	UserName     string
	BusinessName string
	City         string
	Phone        string
	IsVerified   bool
	ServiceCount int
	CreatedAt    time.Time
}

type Statistics struct {
	UsersByRole        map[string]int
	ProvidersTotal     int
	ProvidersVerified  int
	ServicesTotal      int
	ServicesActive     int
	ServicesByCategory map[string]int
	BookingsByStatus   map[string]int
	Revenue            decimal.Decimal
	ReviewsTotal       int
	AverageRating      *float64
}

// ExportRow is one line of the bookings workbook.
type ExportRow struct {
	BookingID    uuid.UUID
	ServiceTitle string
	Category     string
	ProviderName string
	RenterName   string
	RenterEmail  string
	StartDate    time.Time
	EndDate      *time.Time
	Quantity     int
	TotalPrice   decimal.Decimal
	Status       string
	CreatedAt    time.Time
}
