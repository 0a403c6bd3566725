package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAccommodation Category = "ACCOMMODATION"
	CategoryFood          Category = "FOOD"
	CategoryTravel        Category = "TRAVEL"
	CategoryLaundry       Category = "LAUNDRY"
)

var Categories = []Category{CategoryAccommodation, CategoryFood, CategoryTravel, CategoryLaundry}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAccommodation, CategoryFood, CategoryTravel, CategoryLaundry:
		return true
	}
	return false
}

// Service is a bookable listing owned by a provider.
type Service struct {
	ID          uuid.UUID
	ProviderID  uuid.UUID
	Category    Category
	Title       string
	Description string
	BasePrice   decimal.Decimal
	Images      []string
	Capacity    *int // nil means unlimited
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AccommodationDetails exists only for ACCOMMODATION services.
type AccommodationDetails struct {
	PropertyType string   `json:"propertyType"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	MaxGuests    int      `json:"maxGuests"`
	Amenities    []string `json:"amenities"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
}

// FoodDetails exists only for FOOD services.
type FoodDetails struct {
	CuisineType       string   `json:"cuisineType"`
	MealTypes         []string `json:"mealTypes"`
	IsVegetarian      bool     `json:"isVegetarian"`
	IsVegan           bool     `json:"isVegan"`
	DeliveryAvailable bool     `json:"deliveryAvailable"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
}

// ProviderSummary is the provider information shown next to a listing.
type ProviderSummary struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	BusinessName string    `json:"businessName"`
	IsVerified   bool      `json:"isVerified"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
}

// ServiceSummary is a catalog row: the service plus provider and rating.
type ServiceSummary struct {
	Service
	Provider      ProviderSummary
	AverageRating *float64 // nil with zero reviews
	ReviewCount   int
}

// ServiceReview is a review as shown on the service detail page.
type ServiceReview struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar *string   `json:"userAvatar"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ServiceDetail is everything GET /services/:id returns.
type ServiceDetail struct {
	ServiceSummary
	Accommodation *AccommodationDetails
	Food          *FoodDetails
	Reviews       []ServiceReview
}
