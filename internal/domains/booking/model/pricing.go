package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	listingmodel "housiee-backend/internal/domains/listing/model"
	"housiee-backend/pkg/apperror"
)

// CalculatePrice computes the server side total.
//
// ACCOMMODATION is priced per night: the end date is required and must be
// after the start, partial days round up, and quantity must be 1.
// Every other category is priced per unit: basePrice × quantity.
func CalculatePrice(
	category listingmodel.Category,
	basePrice decimal.Decimal,
	start time.Time,
	end *time.Time,
	quantity int,
) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, apperror.Validation("quantity must be at least 1")
	}

	if category == listingmodel.CategoryAccommodation {
		if end == nil {
			return decimal.Zero, apperror.Validation("endDate is required for accommodation bookings")
		}
		if !end.After(start) {
			return decimal.Zero, apperror.Validation("endDate must be after startDate")
		}
		if quantity != 1 {
			return decimal.Zero, apperror.Validation("quantity must be 1 for accommodation bookings")
		}
		return basePrice.Mul(decimal.NewFromInt(int64(Nights(start, *end)))), nil
	}

	if end != nil && end.Before(start) {
		return decimal.Zero, apperror.Validation("endDate must not be before startDate")
	}
	return basePrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// Nights is ceil((end-start) / 24h), at least 1.
func Nights(start, end time.Time) int {
	nights := int(math.Ceil(end.Sub(start).Hours() / 24))
	if nights < 1 {
		return 1
	}
	return nights
}
