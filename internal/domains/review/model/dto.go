package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"housiee-backend/internal/shared/response"
)

var ratingMessage = fmt.Sprintf("rating must be an integer between %d and %d", MinRating, MaxRating)

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateReviewRequest struct {
	ServiceID string `json:"serviceId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceID,
			validation.Required.Error("serviceId is required"),
			is.UUID.Error("serviceId must be a valid id"),
		),
		validation.Field(&r.Rating,
			validation.Required.Error(ratingMessage),
			validation.Min(MinRating).Error(ratingMessage),
			validation.Max(MaxRating).Error(ratingMessage),
		),
		validation.Field(&r.Comment, validation.Length(0, MaxCommentLength)),
	)
}

// UpdateReviewRequest is partial; nil fields keep their value.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.By(func(v interface{}) error {
			if p, ok := v.(*int); ok && p != nil && (*p < MinRating || *p > MaxRating) {
				return validation.NewError("validation_rating_range", ratingMessage)
			}
			return nil
		})),
		validation.Field(&r.Comment, validation.Length(0, MaxCommentLength)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ReviewUser struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar *string   `json:"avatar"`
}

type ReviewResponse struct {
	ID           uuid.UUID  `json:"id"`
	ServiceID    uuid.UUID  `json:"serviceId"`
	ServiceTitle string     `json:"serviceTitle,omitempty"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	User         ReviewUser `json:"user"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type SummaryResponse struct {
	AverageRating *float64    `json:"averageRating"`
	ReviewCount   int         `json:"reviewCount"`
	Breakdown     map[int]int `json:"breakdown"`
}

type ListReviewsResponse struct {
	Reviews    []*ReviewResponse   `json:"reviews"`
	Summary    SummaryResponse     `json:"summary"`
	Pagination response.Pagination `json:"pagination"`
}

func ToReviewResponse(d *ReviewDetail) *ReviewResponse {
	return &ReviewResponse{
		ID:           d.ID,
		ServiceID:    d.ServiceID,
		ServiceTitle: d.ServiceTitle,
		Rating:       d.Rating,
		Comment:      d.Comment,
		User: ReviewUser{
			ID:     d.UserID,
			Name:   d.UserName,
			Avatar: d.UserAvatar,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToReviewResponses(details []*ReviewDetail) []*ReviewResponse {
	out := make([]*ReviewResponse, 0, len(details))
	for _, d := range details {
		out = append(out, ToReviewResponse(d))
	}
	return out
}

func ToSummaryResponse(s *RatingSummary) SummaryResponse {
	breakdown := make(map[int]int, MaxRating)
	for r := MinRating; r <= MaxRating; r++ {
		breakdown[r] = 0
	}
	if s == nil {
		return SummaryResponse{Breakdown: breakdown}
	}
	for r, n := range s.Breakdown {
		breakdown[r] = n
	}
	return SummaryResponse{
		AverageRating: s.AverageRating,
		ReviewCount:   s.ReviewCount,
		Breakdown:     breakdown,
	}
}
