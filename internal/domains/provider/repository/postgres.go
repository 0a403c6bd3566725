package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"housiee-backend/internal/domains/provider/model"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/database"
)

type postgresProviderRepository struct {
	pool database.DB
}

func NewPostgresProviderRepository(pool database.DB) ProviderRepository {
	return &postgresProviderRepository{pool: pool}
}

const providerColumns = `
	id, user_id, business_name, description, phone, address, city,
	is_verified, created_at, updated_at
`

func scanProvider(row pgx.Row) (*model.Provider, error) {
	p := &model.Provider{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.BusinessName, &p.Description, &p.Phone, &p.Address, &p.City,
		&p.IsVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// =====================================================
// APPLY
// =====================================================

func (r *postgresProviderRepository) Create(ctx context.Context, p *model.Provider) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: Insert profile; user_id is unique
		query := `
			INSERT INTO service_providers (
				id, user_id, business_name, description, phone, address, city,
				is_verified, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
		`
		_, err := tx.Exec(ctx, query,
			p.ID, p.UserID, p.BusinessName, p.Description, p.Phone, p.Address, p.City,
			p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("provider for user %s: %w", p.UserID, apperror.ErrDuplicate)
			}
			if database.IsForeignKeyViolation(err) {
				// user deleted mid-request
				return fmt.Errorf("user %s: %w", p.UserID, apperror.ErrNotFound)
			}
			return fmt.Errorf("insert provider: %w", err)
		}

		// Step 2: Promote the user
		tag, err := tx.Exec(ctx, `
			UPDATE users SET role = 'SERVICE_PROVIDER', updated_at = $2
			WHERE id = $1 AND role <> 'ADMIN'
		`, p.UserID, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("promote user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// either an admin or a user deleted mid-request
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, p.UserID).Scan(&exists); err != nil {
				return fmt.Errorf("check user: %w", err)
			}
			if !exists {
				return fmt.Errorf("user %s: %w", p.UserID, apperror.ErrNotFound)
			}
		}
		return nil
	})
}

// =====================================================
// PROFILE
// =====================================================

func (r *postgresProviderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Provider, error) {
	p, err := scanProvider(r.pool.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM service_providers WHERE user_id = $1`, userID))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("provider for user %s: %w", userID, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

func (r *postgresProviderRepository) Update(ctx context.Context, p *model.Provider) error {
	query := `
		UPDATE service_providers
		SET business_name = $2, description = $3, phone = $4, address = $5, city = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.BusinessName, p.Description, p.Phone, p.Address, p.City, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider %s: %w", p.ID, apperror.ErrNotFound)
	}
	return nil
}

// =====================================================
// DASHBOARD
// =====================================================

func (r *postgresProviderRepository) GetDashboardStats(ctx context.Context, providerID uuid.UUID) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{BookingsByStatus: map[string]int{}}

	// Step 1: Catalog counts
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM services WHERE provider_id = $1
	`, providerID).Scan(&stats.TotalServices, &stats.ActiveServices)
	if err != nil {
		return nil, fmt.Errorf("count services: %w", err)
	}

	// Step 2: Bookings by status
	rows, err := r.pool.Query(ctx, `
		SELECT b.status, COUNT(*)
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE s.provider_id = $1
		GROUP BY b.status
	`, providerID)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking count: %w", err)
		}
		stats.BookingsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking counts: %w", err)
	}

	// Step 3: Revenue from completed bookings
	var revenue decimal.Decimal
	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(b.total_price), 0)
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE s.provider_id = $1 AND b.status = 'COMPLETED'
	`, providerID).Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	stats.Revenue = revenue

	// Step 4: Ratings
	err = r.pool.QueryRow(ctx, `
		SELECT AVG(rv.rating)::float8, COUNT(rv.id)
		FROM reviews rv
		JOIN services s ON s.id = rv.service_id
		WHERE s.provider_id = $1
	`, providerID).Scan(&stats.AverageRating, &stats.ReviewCount)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}

	return stats, nil
}
