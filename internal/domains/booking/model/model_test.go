package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingmodel "housiee-backend/internal/domains/listing/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func kindOf(err error) apperror.Kind {
	if appErr := apperror.As(err); appErr != nil {
		return appErr.Kind
	}
	return ""
}

// =====================================================
// PRICING
// =====================================================

func TestCalculatePrice(t *testing.T) {
	base := decimal.NewFromInt(100)
	jan4 := day("2024-01-04")
	jan1 := day("2024-01-01")
	halfDay := day("2024-01-01").Add(12 * time.Hour)
	partial := day("2024-01-03").Add(2 * time.Hour)

	tests := []struct {
		name     string
		category listingmodel.Category
		end      *time.Time
		quantity int
		want     string
		wantErr  bool
	}{
		{name: "three nights", category: listingmodel.CategoryAccommodation, end: &jan4, quantity: 1, want: "300"},
		{name: "partial night rounds up", category: listingmodel.CategoryAccommodation, end: &partial, quantity: 1, want: "300"},
		{name: "half a day is one night", category: listingmodel.CategoryAccommodation, end: &halfDay, quantity: 1, want: "100"},
		{name: "accommodation without end", category: listingmodel.CategoryAccommodation, quantity: 1, wantErr: true},
		{name: "accommodation end equals start", category: listingmodel.CategoryAccommodation, end: &jan1, quantity: 1, wantErr: true},
		{name: "accommodation quantity above one", category: listingmodel.CategoryAccommodation, end: &jan4, quantity: 2, wantErr: true},
		{name: "food per unit", category: listingmodel.CategoryFood, quantity: 3, want: "300"},
		{name: "laundry single", category: listingmodel.CategoryLaundry, end: &jan1, quantity: 1, want: "100"},
		{name: "travel ignores dates for price", category: listingmodel.CategoryTravel, end: &jan4, quantity: 2, want: "200"},
		{name: "zero quantity", category: listingmodel.CategoryTravel, quantity: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculatePrice(tt.category, base, jan1, tt.end, tt.quantity)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperror.KindValidation, kindOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCalculatePrice_EndBeforeStartForUnitServices(t *testing.T) {
	end := day("2023-12-31")

	_, err := CalculatePrice(listingmodel.CategoryFood, decimal.NewFromInt(5), day("2024-01-01"), &end, 1)

	assert.Equal(t, apperror.KindValidation, kindOf(err))
}

// =====================================================
// ACTORS
// =====================================================

func TestActorFor(t *testing.T) {
	providerID := uuid.New()
	renterID := uuid.New()
	booking := &BookingDetail{Booking: Booking{UserID: renterID}, ProviderID: providerID}

	otherProvider := uuid.New()

	tests := []struct {
		name   string
		caller *authz.Caller
		want   Actor
	}{
		{"anonymous", nil, ActorNone},
		{"admin", &authz.Caller{UserID: uuid.New(), Role: authz.RoleAdmin}, ActorAdmin},
		{"admin renting wins as admin", &authz.Caller{UserID: renterID, Role: authz.RoleAdmin}, ActorAdmin},
		{"owning provider", &authz.Caller{UserID: uuid.New(), Role: authz.RoleServiceProvider, ProviderID: &providerID}, ActorProvider},
		{"provider booking own service", &authz.Caller{UserID: renterID, Role: authz.RoleServiceProvider, ProviderID: &providerID}, ActorProvider},
		{"renter", &authz.Caller{UserID: renterID, Role: authz.RoleUser}, ActorRenter},
		{"provider renting elsewhere", &authz.Caller{UserID: renterID, Role: authz.RoleServiceProvider, ProviderID: &otherProvider}, ActorRenter},
		{"stranger", &authz.Caller{UserID: uuid.New(), Role: authz.RoleUser}, ActorNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActorFor(tt.caller, booking))
		})
	}
}

// =====================================================
// TRANSITIONS
// =====================================================

func TestCheckTransition_Table(t *testing.T) {
	type row struct {
		actor Actor
		from  Status
		to    Status
		want  apperror.Kind // "" means allowed
	}

	rows := []row{
		// renter
		{ActorRenter, StatusPending, StatusCancelled, ""},
		{ActorRenter, StatusConfirmed, StatusCancelled, ""},
		{ActorRenter, StatusCompleted, StatusCancelled, apperror.KindValidation},
		{ActorRenter, StatusCancelled, StatusCancelled, apperror.KindValidation},
		{ActorRenter, StatusPending, StatusConfirmed, apperror.KindForbidden},
		{ActorRenter, StatusConfirmed, StatusCompleted, apperror.KindForbidden},
		{ActorRenter, StatusCancelled, StatusPending, apperror.KindForbidden},

		// provider
		{ActorProvider, StatusPending, StatusConfirmed, ""},
		{ActorProvider, StatusPending, StatusCancelled, ""},
		{ActorProvider, StatusConfirmed, StatusCompleted, ""},
		{ActorProvider, StatusConfirmed, StatusCancelled, ""},
		{ActorProvider, StatusPending, StatusCompleted, apperror.KindValidation},
		{ActorProvider, StatusConfirmed, StatusConfirmed, apperror.KindValidation},
		{ActorProvider, StatusCancelled, StatusConfirmed, apperror.KindValidation},
		{ActorProvider, StatusCompleted, StatusCancelled, apperror.KindValidation},
		{ActorProvider, StatusConfirmed, StatusPending, apperror.KindForbidden},

		// admin
		{ActorAdmin, StatusCompleted, StatusPending, ""},
		{ActorAdmin, StatusCancelled, StatusConfirmed, ""},
		{ActorAdmin, StatusPending, StatusCompleted, ""},
		{ActorAdmin, StatusPending, StatusPending, apperror.KindValidation},

		// nobody
		{ActorNone, StatusPending, StatusCancelled, apperror.KindForbidden},
	}

	for _, r := range rows {
		t.Run(string(r.actor)+"_"+string(r.from)+"_to_"+string(r.to), func(t *testing.T) {
			err := CheckTransition(r.actor, r.from, r.to)
			if r.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, r.want, kindOf(err))
		})
	}
}

func TestCheckTransition_UnknownStatus(t *testing.T) {
	unknown := Status("ARCHIVED")

	assert.Equal(t, apperror.KindValidation, kindOf(CheckTransition(ActorAdmin, StatusPending, unknown)))
	assert.Equal(t, apperror.KindValidation, kindOf(CheckTransition(ActorProvider, StatusPending, unknown)))
	// access is decided before the enum
	assert.Equal(t, apperror.KindForbidden, kindOf(CheckTransition(ActorRenter, StatusPending, unknown)))
	assert.Equal(t, apperror.KindForbidden, kindOf(CheckTransition(ActorNone, StatusPending, unknown)))
}

func TestAllowedTransitions_NeverIncludeCurrentStatus(t *testing.T) {
	for actor, byStatus := range transitions {
		for from, targets := range byStatus {
			assert.NotContains(t, targets, from, "%s may not stay in %s", actor, from)
			for _, to := range targets {
				assert.True(t, vocabulary[actor][to], "%s -> %s outside %s vocabulary", from, to, actor)
			}
		}
	}
}

func TestParseStatusFilter(t *testing.T) {
	s, err := ParseStatusFilter(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, *s)

	s, err = ParseStatusFilter("")
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = ParseStatusFilter("LOST")
	assert.Equal(t, apperror.KindValidation, kindOf(err))
}

func TestCreateBookingRequest_Validate(t *testing.T) {
	zero := 0
	assert.Error(t, CreateBookingRequest{ServiceID: "nope", StartDate: "2024-01-01"}.Validate())
	assert.Error(t, CreateBookingRequest{ServiceID: uuid.NewString()}.Validate())
	assert.Error(t, CreateBookingRequest{ServiceID: uuid.NewString(), StartDate: "2024-01-01", Quantity: &zero}.Validate())
	assert.NoError(t, CreateBookingRequest{ServiceID: uuid.NewString(), StartDate: "2024-01-01"}.Validate())
}
