package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's rating of one service. (user_id, service_id) is unique.
type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ServiceID uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewDetail is a review joined with its author and service.
type ReviewDetail struct {
	Review
	UserName     string
	UserAvatar   *string
	ServiceTitle string
}

// RatingSummary aggregates the ratings of one service.
type RatingSummary struct {
	AverageRating *float64
	ReviewCount   int
	Breakdown     map[int]int // rating -> count, keys 1..5
}
