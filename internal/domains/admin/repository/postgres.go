package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"housiee-backend/internal/domains/admin/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/database"
)

type postgresAdminRepository struct {
	pool    database.DB
	dialect goqu.DialectWrapper
}

func NewPostgresAdminRepository(pool database.DB) AdminRepository {
	return &postgresAdminRepository{
		pool:    pool,
		dialect: goqu.Dialect("postgres"),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// =====================================================
// USERS
// =====================================================

func (r *postgresAdminRepository) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.UserRecord, int, error) {
	ds := r.dialect.
		From(goqu.T("users").As("u")).
		LeftJoin(goqu.T("service_providers").As("p"), goqu.On(goqu.I("p.user_id").Eq(goqu.I("u.id"))))

	if filter.Role != "" {
		ds = ds.Where(goqu.I("u.role").Eq(filter.Role))
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		ds = ds.Where(goqu.Or(
			goqu.I("u.email").ILike(pattern),
			goqu.I("u.name").ILike(pattern),
		))
	}
	ds = ds.Prepared(true)

	// Step 1: Count
	countSQL, countArgs, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	// Step 2: Page
	query, args, err := ds.
		Select("u.id", "u.email", "u.name", "u.avatar", "u.role", goqu.I("p.id"), "u.created_at").
		Order(goqu.I("u.created_at").Desc(), goqu.I("u.id").Asc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset)).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build users query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*model.UserRecord{}
	for rows.Next() {
		u := &model.UserRecord{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.Role, &u.ProviderID, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	return users, total, nil
}

func (r *postgresAdminRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role authz.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, string(role))
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}

func (r *postgresAdminRepository) DeleteUser(ctx context.Context, id uuid.UUID) ([]model.ServiceImages, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]model.ServiceImages, error) {
		// Step 1: Collect images of the services about to cascade
		rows, err := tx.Query(ctx, `
			SELECT s.id, s.images
			FROM services s
			JOIN service_providers p ON p.id = s.provider_id
			WHERE p.user_id = $1
		`, id)
		if err != nil {
			return nil, fmt.Errorf("collect service images: %w", err)
		}

		var images []model.ServiceImages
		for rows.Next() {
			var si model.ServiceImages
			if err := rows.Scan(&si.ServiceID, &si.Images); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan service images: %w", err)
			}
			images = append(images, si)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate service images: %w", err)
		}

		// Step 2: Delete; foreign keys cascade the rest
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return nil, fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("user %s: %w", id, apperror.ErrNotFound)
		}

		return images, nil
	})
}

// =====================================================
// PROVIDERS
// =====================================================

func (r *postgresAdminRepository) providerDataset() *goqu.SelectDataset {
	return r.dialect.
		From(goqu.T("service_providers").As("p")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("p.user_id"))))
}

func providerColumns() []interface{} {
	return []interface{}{
		"p.id", "p.user_id", "u.email", "u.name", "p.business_name", "p.city", "p.phone", "p.is_verified",
		goqu.L(`(SELECT COUNT(*) FROM services s WHERE s.provider_id = "p"."id")`).As("service_count"),
		"p.created_at",
	}
}

func scanProvider(row pgx.Row) (*model.ProviderRecord, error) {
	p := &model.ProviderRecord{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.UserEmail, &p.UserName, &p.BusinessName, &p.City, &p.Phone, &p.IsVerified,
		&p.ServiceCount, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresAdminRepository) ListProviders(ctx context.Context, filter model.ProviderFilter) ([]*model.ProviderRecord, int, error) {
	ds := r.providerDataset()
	if filter.Verified != nil {
		ds = ds.Where(goqu.I("p.is_verified").Eq(*filter.Verified))
	}
	ds = ds.Prepared(true)

	countSQL, countArgs, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count providers: %w", err)
	}

	query, args, err := ds.
		Select(providerColumns()...).
		Order(goqu.I("p.created_at").Desc(), goqu.I("p.id").Asc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset)).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build providers query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	providers := []*model.ProviderRecord{}
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate providers: %w", err)
	}

	return providers, total, nil
}

func (r *postgresAdminRepository) SetProviderVerified(ctx context.Context, id uuid.UUID, verified bool) (*model.ProviderRecord, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE service_providers SET is_verified = $2, updated_at = NOW() WHERE id = $1`, id, verified)
	if err != nil {
		return nil, fmt.Errorf("verify provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("provider %s: %w", id, apperror.ErrNotFound)
	}

	query, args, err := r.providerDataset().
		Select(providerColumns()...).
		Where(goqu.I("p.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build provider query: %w", err)
	}

	p, err := scanProvider(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("provider %s: %w", id, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("reload provider: %w", err)
	}
	return p, nil
}

// =====================================================
// STATISTICS
// =====================================================

func (r *postgresAdminRepository) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	stats := &model.Statistics{}
	var err error

	// Step 1: Grouped counts
	if stats.UsersByRole, err = r.groupCount(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`); err != nil {
		return nil, err
	}
	if stats.ServicesByCategory, err = r.groupCount(ctx, `SELECT category, COUNT(*) FROM services GROUP BY category`); err != nil {
		return nil, err
	}
	if stats.BookingsByStatus, err = r.groupCount(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`); err != nil {
		return nil, err
	}

	// Step 2: Scalars
	query := `
		SELECT
			(SELECT COUNT(*) FROM service_providers),
			(SELECT COUNT(*) FROM service_providers WHERE is_verified),
			(SELECT COUNT(*) FROM services),
			(SELECT COUNT(*) FROM services WHERE is_active),
			(SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE status = 'COMPLETED'),
			(SELECT COUNT(*) FROM reviews),
			(SELECT AVG(rating)::float8 FROM reviews)
	`
	err = r.pool.QueryRow(ctx, query).Scan(
		&stats.ProvidersTotal,
		&stats.ProvidersVerified,
		&stats.ServicesTotal,
		&stats.ServicesActive,
		&stats.Revenue,
		&stats.ReviewsTotal,
		&stats.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("platform totals: %w", err)
	}

	return stats, nil
}

func (r *postgresAdminRepository) groupCount(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("group count: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan group count: %w", err)
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group count: %w", err)
	}
	return counts, nil
}

// =====================================================
// EXPORT
// =====================================================

func (r *postgresAdminRepository) ListBookingsForExport(ctx context.Context, status string) ([]*model.ExportRow, error) {
	ds := r.dialect.
		From(goqu.T("bookings").As("b")).
		Join(goqu.T("services").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("b.service_id")))).
		Join(goqu.T("service_providers").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("s.provider_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.user_id")))).
		Select(
			"b.id", "s.title", "s.category", "p.business_name", "u.name", "u.email",
			"b.start_date", "b.end_date", "b.quantity", "b.total_price", "b.status", "b.created_at",
		).
		Order(goqu.I("b.created_at").Desc(), goqu.I("b.id").Asc())

	if status != "" {
		ds = ds.Where(goqu.I("b.status").Eq(status))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build export query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("export bookings: %w", err)
	}
	defer rows.Close()

	out := []*model.ExportRow{}
	for rows.Next() {
		e := &model.ExportRow{}
		if err := rows.Scan(
			&e.BookingID, &e.ServiceTitle, &e.Category, &e.ProviderName, &e.RenterName, &e.RenterEmail,
			&e.StartDate, &e.EndDate, &e.Quantity, &e.TotalPrice, &e.Status, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return out, nil
}
