package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housiee-backend/internal/domains/provider/model"
	"housiee-backend/pkg/apperror"
)

func setupMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newProvider() *model.Provider {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &model.Provider{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		BusinessName: "Harbour Stays",
		Phone:        "+351 912 345 678",
		City:         "Porto",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(m pgxmock.PgxPoolIface, p *model.Provider)
		wantErr    error
		wantAnyErr bool
	}{
		{
			name: "insert and promote commit together",
			setupMocks: func(m pgxmock.PgxPoolIface, p *model.Provider) {
				m.ExpectBegin()
				m.ExpectExec("INSERT INTO service_providers").
					WithArgs(p.ID, p.UserID, p.BusinessName, p.Description, p.Phone, p.Address, p.City, p.CreatedAt, p.UpdatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				m.ExpectExec("UPDATE users SET role = 'SERVICE_PROVIDER'").
					WithArgs(p.UserID, p.UpdatedAt).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				m.ExpectCommit()
			},
		},
		{
			name: "role flip failure rolls back the profile",
			setupMocks: func(m pgxmock.PgxPoolIface, p *model.Provider) {
				m.ExpectBegin()
				m.ExpectExec("INSERT INTO service_providers").WillReturnResult(pgxmock.NewResult("INSERT", 1))
				m.ExpectExec("UPDATE users SET role").WillReturnError(errors.New("connection reset"))
				m.ExpectRollback()
			},
			wantAnyErr: true,
		},
		{
			name: "second application is a duplicate",
			setupMocks: func(m pgxmock.PgxPoolIface, p *model.Provider) {
				m.ExpectBegin()
				m.ExpectExec("INSERT INTO service_providers").
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "service_providers_user_id_key"})
				m.ExpectRollback()
			},
			wantErr: apperror.ErrDuplicate,
		},
		{
			name: "user deleted before the insert",
			setupMocks: func(m pgxmock.PgxPoolIface, p *model.Provider) {
				m.ExpectBegin()
				m.ExpectExec("INSERT INTO service_providers").
					WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "service_providers_user_id_fkey"})
				m.ExpectRollback()
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "user deleted between insert and promote",
			setupMocks: func(m pgxmock.PgxPoolIface, p *model.Provider) {
				m.ExpectBegin()
				m.ExpectExec("INSERT INTO service_providers").WillReturnResult(pgxmock.NewResult("INSERT", 1))
				m.ExpectExec("UPDATE users SET role").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				m.ExpectQuery("SELECT EXISTS").
					WithArgs(p.UserID).
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
				m.ExpectRollback()
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "admin keeps their role",
			setupMocks: func(m pgxmock.PgxPoolIface, p *model.Provider) {
				m.ExpectBegin()
				m.ExpectExec("INSERT INTO service_providers").WillReturnResult(pgxmock.NewResult("INSERT", 1))
				m.ExpectExec("UPDATE users SET role").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				m.ExpectQuery("SELECT EXISTS").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
				m.ExpectCommit()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockDB(t)
			p := newProvider()
			tt.setupMocks(mock, p)

			err := NewPostgresProviderRepository(mock).Create(context.Background(), p)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.False(t, errors.Is(err, apperror.ErrNotFound))
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
