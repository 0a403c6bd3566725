package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"housiee-backend/internal/domains/booking/model"
	listingmodel "housiee-backend/internal/domains/listing/model"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresBookingRepository struct {
	pool database.DB
}

func NewPostgresBookingRepository(pool database.DB) BookingRepository {
	return &postgresBookingRepository{pool: pool}
}

const detailSelect = `
	SELECT
		b.id, b.user_id, b.service_id, b.start_date, b.end_date, b.quantity,
		b.total_price, b.status, b.notes, b.created_at, b.updated_at,
		s.title, s.category, s.images,
		p.id, p.business_name,
		u.name, u.email
	FROM bookings b
	JOIN services s ON s.id = b.service_id
	JOIN service_providers p ON p.id = s.provider_id
	JOIN users u ON u.id = b.user_id
`

func scanDetail(row pgx.Row) (*model.BookingDetail, error) {
	d := &model.BookingDetail{}
	var status, category string

	err := row.Scan(
		&d.ID, &d.UserID, &d.ServiceID, &d.StartDate, &d.EndDate, &d.Quantity,
		&d.TotalPrice, &status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		&d.ServiceTitle, &category, &d.ServiceImages,
		&d.ProviderID, &d.ProviderName,
		&d.RenterName, &d.RenterEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	d.Status = model.Status(status)
	d.ServiceCategory = listingmodel.Category(category)
	return d, nil
}

// =====================================================
// SERVICE LOOKUP
// =====================================================

func (r *postgresBookingRepository) GetServiceForBooking(ctx context.Context, serviceID uuid.UUID) (*model.ServiceSnapshot, error) {
	query := `
		SELECT id, provider_id, title, category, base_price, capacity, is_active
		FROM services
		WHERE id = $1
	`

	s := &model.ServiceSnapshot{}
	var category string
	err := r.pool.QueryRow(ctx, query, serviceID).Scan(
		&s.ID, &s.ProviderID, &s.Title, &category, &s.BasePrice, &s.Capacity, &s.IsActive,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("service %s: %w", serviceID, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("get service for booking: %w", err)
	}

	s.Category = listingmodel.Category(category)
	return s, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresBookingRepository) Create(
	ctx context.Context,
	b *model.Booking,
	history *model.HistoryEntry,
	enforceCapacity bool,
) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: Reserve capacity under the service row lock
		if enforceCapacity {
			if err := reserveCapacity(ctx, tx, b); err != nil {
				return err
			}
		}

		// Step 2: Insert booking
		query := `
			INSERT INTO bookings (
				id, user_id, service_id, start_date, end_date, quantity,
				total_price, status, notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.Exec(ctx, query,
			b.ID, b.UserID, b.ServiceID, b.StartDate, b.EndDate, b.Quantity,
			b.TotalPrice, string(b.Status), b.Notes, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		// Step 3: Creation history row
		return insertHistory(ctx, tx, history)
	})
}

// reserveCapacity locks the service and checks overlapping demand.
// Ranges are half-open; a booking without an end date holds one day.
func reserveCapacity(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	var (
		capacity *int
		active   bool
	)
	err := tx.QueryRow(ctx,
		`SELECT capacity, is_active FROM services WHERE id = $1 FOR UPDATE`,
		b.ServiceID,
	).Scan(&capacity, &active)
	if err != nil {
		if database.IsNoRows(err) {
			return model.ErrServiceUnavailable
		}
		return fmt.Errorf("lock service: %w", err)
	}
	if !active {
		return model.ErrServiceUnavailable
	}
	if capacity == nil {
		return nil
	}

	end := b.StartDate.Add(24 * time.Hour)
	if b.EndDate != nil && b.EndDate.After(b.StartDate) {
		end = *b.EndDate
	}

	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM bookings
		WHERE service_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND start_date < $3
		  AND COALESCE(NULLIF(end_date, start_date), start_date + INTERVAL '1 day') > $2
	`
	var booked int
	if err := tx.QueryRow(ctx, query, b.ServiceID, b.StartDate, end).Scan(&booked); err != nil {
		return fmt.Errorf("sum booked quantity: %w", err)
	}

	if booked+b.Quantity > *capacity {
		return model.ErrCapacityExceeded
	}
	return nil
}

func insertHistory(ctx context.Context, q database.Querier, h *model.HistoryEntry) error {
	var from *string
	if h.FromStatus != nil {
		s := string(*h.FromStatus)
		from = &s
	}

	query := `
		INSERT INTO booking_status_history (
			id, booking_id, from_status, to_status, changed_by, actor, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query,
		h.ID, h.BookingID, from, string(h.ToStatus), h.ChangedBy, string(h.Actor), h.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking history: %w", err)
	}
	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	d, err := scanDetail(r.pool.QueryRow(ctx, detailSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("booking %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (r *postgresBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, status *model.Status) ([]*model.BookingDetail, error) {
	return r.list(ctx, `b.user_id = $1`, userID, status)
}

func (r *postgresBookingRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, status *model.Status) ([]*model.BookingDetail, error) {
	return r.list(ctx, `s.provider_id = $1`, providerID, status)
}

func (r *postgresBookingRepository) list(ctx context.Context, where string, id uuid.UUID, status *model.Status) ([]*model.BookingDetail, error) {
	query := detailSelect + ` WHERE ` + where
	args := []interface{}{id}
	if status != nil {
		query += ` AND b.status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY b.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*model.BookingDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

// =====================================================
// STATUS UPDATE
// =====================================================

func (r *postgresBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, decide DecideFunc) (*model.BookingDetail, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.BookingDetail, error) {
		// Step 1: Lock the booking row
		current, err := scanDetail(tx.QueryRow(ctx, detailSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id))
		if err != nil {
			if database.IsNoRows(err) {
				return nil, fmt.Errorf("booking %s: %w", id, apperror.ErrNotFound)
			}
			return nil, err
		}

		// Step 2: Validate against the locked state
		change, err := decide(current)
		if err != nil {
			return nil, err
		}

		// Step 3: Write status + history
		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
			id, string(change.To), change.At,
		)
		if err != nil {
			return nil, fmt.Errorf("update booking status: %w", err)
		}

		from := change.From
		changedBy := change.ChangedBy
		if err := insertHistory(ctx, tx, &model.HistoryEntry{
			ID:         uuid.New(),
			BookingID:  id,
			FromStatus: &from,
			ToStatus:   change.To,
			ChangedBy:  &changedBy,
			Actor:      change.Actor,
			ChangedAt:  change.At,
		}); err != nil {
			return nil, err
		}

		current.Status = change.To
		current.UpdatedAt = change.At
		return current, nil
	})
}

func (r *postgresBookingRepository) ListHistory(ctx context.Context, bookingID uuid.UUID) ([]*model.HistoryEntry, error) {
	query := `
		SELECT id, booking_id, from_status, to_status, changed_by, actor, changed_at
		FROM booking_status_history
		WHERE booking_id = $1
		ORDER BY changed_at, id
	`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking history: %w", err)
	}
	defer rows.Close()

	entries := []*model.HistoryEntry{}
	for rows.Next() {
		var (
			e     model.HistoryEntry
			from  *string
			to    string
			actor string
		)
		if err := rows.Scan(&e.ID, &e.BookingID, &from, &to, &e.ChangedBy, &actor, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan booking history: %w", err)
		}
		if from != nil {
			s := model.Status(*from)
			e.FromStatus = &s
		}
		e.ToStatus = model.Status(to)
		e.Actor = model.Actor(actor)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
