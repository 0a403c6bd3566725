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

	"housiee-backend/internal/domains/booking/model"
)

const (
	lockService = `SELECT capacity, is_active FROM services WHERE id = \$1 FOR UPDATE`
	// $2 is the requested start, $3 the requested end
	overlapSum = `(?s)SELECT COALESCE\(SUM\(quantity\), 0\).*start_date < \$3.*> \$2`
)

func setupMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newBooking(start time.Time, end *time.Time, quantity int) (*model.Booking, *model.HistoryEntry) {
	b := &model.Booking{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		ServiceID:  uuid.New(),
		StartDate:  start,
		EndDate:    end,
		Quantity:   quantity,
		TotalPrice: decimal.NewFromInt(200),
		Status:     model.StatusPending,
		CreatedAt:  start,
		UpdatedAt:  start,
	}
	h := &model.HistoryEntry{
		ID:        uuid.New(),
		BookingID: b.ID,
		ToStatus:  model.StatusPending,
		ChangedBy: &b.UserID,
		Actor:     model.ActorRenter,
		ChangedAt: start,
	}
	return b, h
}

func TestCreate_CapacityRangeBounds(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	capacity := 3

	tests := []struct {
		name    string
		end     *time.Time
		wantEnd time.Time
		booked  int
		wantErr error
	}{
		{"end date bounds the range", &end, end, 1, nil},
		{"no end date holds one day", nil, start.Add(24 * time.Hour), 1, nil},
		{"same day end holds one day", &start, start.Add(24 * time.Hour), 1, nil},
		{"overlap over capacity", &end, end, 2, model.ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockDB(t)
			b, h := newBooking(start, tt.end, 2)

			mock.ExpectBegin()
			mock.ExpectQuery(lockService).
				WithArgs(b.ServiceID).
				WillReturnRows(pgxmock.NewRows([]string{"capacity", "is_active"}).AddRow(&capacity, true))
			mock.ExpectQuery(overlapSum).
				WithArgs(b.ServiceID, start, tt.wantEnd).
				WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(tt.booked))
			if tt.wantErr == nil {
				mock.ExpectExec("INSERT INTO bookings").WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("INSERT INTO booking_status_history").WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := NewPostgresBookingRepository(mock).Create(context.Background(), b, h, true)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreate_UnlimitedCapacitySkipsOverlapQuery(t *testing.T) {
	mock := setupMockDB(t)
	b, h := newBooking(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), nil, 50)

	mock.ExpectBegin()
	mock.ExpectQuery(lockService).
		WillReturnRows(pgxmock.NewRows([]string{"capacity", "is_active"}).AddRow(nil, true))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO booking_status_history").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, NewPostgresBookingRepository(mock).Create(context.Background(), b, h, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InactiveServiceRejected(t *testing.T) {
	mock := setupMockDB(t)
	b, h := newBooking(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), nil, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(lockService).
		WillReturnRows(pgxmock.NewRows([]string{"capacity", "is_active"}).AddRow(nil, false))
	mock.ExpectRollback()

	err := NewPostgresBookingRepository(mock).Create(context.Background(), b, h, true)

	assert.ErrorIs(t, err, model.ErrServiceUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_HistoryFailureRollsBackBooking(t *testing.T) {
	mock := setupMockDB(t)
	b, h := newBooking(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), nil, 1)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO booking_status_history").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := NewPostgresBookingRepository(mock).Create(context.Background(), b, h, false)

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
