package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Provider struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	BusinessName string
	Description  string
	Phone        string
	Address      string
	City         string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DashboardStats aggregates a provider's catalog, bookings and reviews.
type DashboardStats struct {
	TotalServices    int
	ActiveServices   int
	BookingsByStatus map[string]int
	Revenue          decimal.Decimal
	AverageRating    *float64
	ReviewCount      int
}
