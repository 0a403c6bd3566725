package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housiee-backend/internal/domains/listing/model"
	"housiee-backend/pkg/apperror"
)

func setupMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newService() *model.Service {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &model.Service{
		ID:         uuid.New(),
		ProviderID: uuid.New(),
		Category:   model.CategoryAccommodation,
		Title:      "Riverside loft",
		BasePrice:  decimal.NewFromInt(120),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func loft() *model.AccommodationDetails {
	return &model.AccommodationDetails{PropertyType: "apartment", Bedrooms: 2, Bathrooms: 1, MaxGuests: 4, City: "Porto"}
}

func TestCreate_CommitsServiceAndDetails(t *testing.T) {
	mock := setupMockDB(t)
	svc, acc := newService(), loft()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO services").
		WithArgs(svc.ID, svc.ProviderID, string(svc.Category), svc.Title, svc.Description,
			svc.BasePrice, []string{}, svc.Capacity, svc.IsActive, svc.CreatedAt, svc.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO accommodation_details").
		WithArgs(svc.ID, acc.PropertyType, acc.Bedrooms, acc.Bathrooms, acc.MaxGuests,
			[]string{}, acc.Address, acc.City).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, NewPostgresServiceRepository(mock).Create(context.Background(), svc, acc, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DetailFailureRollsBackService(t *testing.T) {
	tests := []struct {
		name  string
		table string
		acc   *model.AccommodationDetails
		food  *model.FoodDetails
	}{
		{"accommodation", "INSERT INTO accommodation_details", loft(), nil},
		{"food", "INSERT INTO food_details", nil, &model.FoodDetails{CuisineType: "thai", City: "Lisbon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockDB(t)
			svc := newService()

			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO services").WillReturnResult(pgxmock.NewResult("INSERT", 1))
			mock.ExpectExec(tt.table).WillReturnError(errors.New("check constraint violated"))
			mock.ExpectRollback()

			err := NewPostgresServiceRepository(mock).Create(context.Background(), svc, tt.acc, tt.food)

			require.Error(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdate_MissingServiceRollsBack(t *testing.T) {
	mock := setupMockDB(t)
	svc := newService()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE services SET").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := NewPostgresServiceRepository(mock).Update(context.Background(), svc, loft(), nil)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_MissingService(t *testing.T) {
	mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM services").WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewPostgresServiceRepository(mock).Delete(context.Background(), id)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
