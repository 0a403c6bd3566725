package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateServiceRequest is the JSON body, or the multipart form fields, of
// POST /services. Uploaded image files are handled separately.
type CreateServiceRequest struct {
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	Capacity    *int            `json:"capacity"`
	Details     json.RawMessage `json:"details"`
	Images      []string        `json:"images"`
}

func (r CreateServiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.By(validCategory),
		),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.BasePrice, validation.By(positivePrice)),
		validation.Field(&r.Capacity, validation.By(positiveCapacity)),
		validation.Field(&r.Images, validation.Length(0, MaxImages).Error(fmt.Sprintf("at most %d images", MaxImages))),
	)
}

// UpdateServiceRequest is a partial update; nil fields are left unchanged.
// Capacity 0 clears the limit. Details is merged onto the stored details.
type UpdateServiceRequest struct {
	Category    *string          `json:"category"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"basePrice"`
	Capacity    *int             `json:"capacity"`
	IsActive    *bool            `json:"isActive"`
	Images      *[]string        `json:"images"`
	Details     json.RawMessage  `json:"details"`
}

func (r UpdateServiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.BasePrice, validation.By(func(v interface{}) error {
			if p, ok := v.(*decimal.Decimal); ok && p != nil {
				return positivePrice(*p)
			}
			return nil
		})),
		validation.Field(&r.Capacity, validation.By(func(v interface{}) error {
			if c, ok := v.(*int); ok && c != nil && *c < 0 {
				return errors.New("capacity must not be negative")
			}
			return nil
		})),
		validation.Field(&r.Images, validation.By(func(v interface{}) error {
			if imgs, ok := v.(*[]string); ok && imgs != nil && len(*imgs) > MaxImages {
				return fmt.Errorf("at most %d images", MaxImages)
			}
			return nil
		})),
	)
}

// ListServicesRequest holds the public catalog filters.
type ListServicesRequest struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

func (r ListServicesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.When(r.Category != "", validation.By(validCategory))),
		validation.Field(&r.Search, validation.Length(0, 200)),
		validation.Field(&r.Page, validation.Min(1)),
		validation.Field(&r.Limit, validation.Min(1), validation.Max(MaxPageLimit)),
	)
}

func validCategory(v interface{}) error {
	s, _ := v.(string)
	if !Category(s).IsValid() {
		return errors.New("must be one of ACCOMMODATION, FOOD, TRAVEL, LAUNDRY")
	}
	return nil
}

func positivePrice(v interface{}) error {
	p, _ := v.(decimal.Decimal)
	if !p.IsPositive() {
		return errors.New("basePrice must be greater than 0")
	}
	return nil
}

func positiveCapacity(v interface{}) error {
	c, _ := v.(*int)
	if c != nil && *c < 1 {
		return errors.New("capacity must be at least 1")
	}
	return nil
}

// =====================================================
// CATEGORY DETAILS
// =====================================================

// ParseDetails decodes the category detail payload. ACCOMMODATION and FOOD
// always get a detail row, empty payloads yield defaults. Other categories
// carry no details and the payload is ignored.
func ParseDetails(category Category, raw json.RawMessage) (*AccommodationDetails, *FoodDetails, error) {
	switch category {
	case CategoryAccommodation:
		d := &AccommodationDetails{MaxGuests: 1, Amenities: []string{}}
		if err := MergeDetails(raw, d); err != nil {
			return nil, nil, err
		}
		return d, nil, nil
	case CategoryFood:
		d := &FoodDetails{MealTypes: []string{}}
		if err := MergeDetails(raw, d); err != nil {
			return nil, nil, err
		}
		return nil, d, nil
	default:
		return nil, nil, nil
	}
}

// MergeDetails decodes raw onto dst, keeping fields raw does not mention,
// then validates dst.
func MergeDetails(raw json.RawMessage, dst validation.Validatable) error {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, dst); err != nil {
			return apperror.Validation("details must be a valid JSON object")
		}
	}
	if err := dst.Validate(); err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}

func (d *AccommodationDetails) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Bedrooms, validation.Min(0)),
		validation.Field(&d.Bathrooms, validation.Min(0)),
		validation.Field(&d.MaxGuests, validation.Min(1)),
		validation.Field(&d.PropertyType, validation.Length(0, 100)),
	)
}

func (d *FoodDetails) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.CuisineType, validation.Length(0, 100)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ServiceResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProviderID    uuid.UUID        `json:"providerId"`
	Category      Category         `json:"category"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	BasePrice     decimal.Decimal  `json:"basePrice"`
	Images        []string         `json:"images"`
	Capacity      *int             `json:"capacity"`
	IsActive      bool             `json:"isActive"`
	Provider      *ProviderSummary `json:"provider,omitempty"`
	AverageRating *float64         `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type ServiceDetailResponse struct {
	ServiceResponse
	AccommodationDetails *AccommodationDetails `json:"accommodationDetails,omitempty"`
	FoodDetails          *FoodDetails          `json:"foodDetails,omitempty"`
	Reviews              []ServiceReview       `json:"reviews"`
}

type ListServicesResponse struct {
	Services   []ServiceResponse   `json:"services"`
	Pagination response.Pagination `json:"pagination"`
}

func ToServiceResponse(s *ServiceSummary) ServiceResponse {
	images := s.Images
	if images == nil {
		images = []string{}
	}

	resp := ServiceResponse{
		ID:            s.ID,
		ProviderID:    s.ProviderID,
		Category:      s.Category,
		Title:         s.Title,
		Description:   s.Description,
		BasePrice:     s.BasePrice,
		Images:        images,
		Capacity:      s.Capacity,
		IsActive:      s.IsActive,
		AverageRating: s.AverageRating,
		ReviewCount:   s.ReviewCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.Provider.ID != uuid.Nil {
		provider := s.Provider
		resp.Provider = &provider
	}
	return resp
}

func ToServiceDetailResponse(d *ServiceDetail) *ServiceDetailResponse {
	reviews := d.Reviews
	if reviews == nil {
		reviews = []ServiceReview{}
	}
	return &ServiceDetailResponse{
		ServiceResponse:      ToServiceResponse(&d.ServiceSummary),
		AccommodationDetails: d.Accommodation,
		FoodDetails:          d.Food,
		Reviews:              reviews,
	}
}

// NormalizeSearch trims and collapses the free-text search.
func NormalizeSearch(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ImageUpload is one uploaded image file, read into memory.
type ImageUpload struct {
	Filename string
	Data     []byte
}
