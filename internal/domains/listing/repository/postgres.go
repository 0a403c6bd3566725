package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"housiee-backend/internal/domains/listing/model"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresServiceRepository struct {
	pool    database.DB
	dialect goqu.DialectWrapper
}

func NewPostgresServiceRepository(pool database.DB) ServiceRepository {
	return &postgresServiceRepository{
		pool:    pool,
		dialect: goqu.Dialect("postgres"),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// =====================================================
// LIST
// =====================================================

func (r *postgresServiceRepository) filtered(filter ListFilter) *goqu.SelectDataset {
	ds := r.dialect.
		From(goqu.T("services").As("s")).
		Join(goqu.T("service_providers").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("s.provider_id"))))

	if filter.ActiveOnly {
		ds = ds.Where(goqu.I("s.is_active").IsTrue())
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.I("s.category").Eq(string(filter.Category)))
	}
	if filter.ProviderID != nil {
		ds = ds.Where(goqu.I("s.provider_id").Eq(*filter.ProviderID))
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		ds = ds.Where(goqu.Or(
			goqu.I("s.title").ILike(pattern),
			goqu.I("s.description").ILike(pattern),
		))
	}

	return ds.Prepared(true)
}

func (r *postgresServiceRepository) List(ctx context.Context, filter ListFilter) ([]*model.ServiceSummary, int, error) {
	// Step 1: Count
	countSQL, countArgs, err := r.filtered(filter).Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}
	if total == 0 {
		return []*model.ServiceSummary{}, 0, nil
	}

	// Step 2: Page
	ds := r.filtered(filter).
		Select(summaryColumns()...).
		Order(goqu.I("s.created_at").Desc(), goqu.I("s.id").Desc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]*model.ServiceSummary, 0, filter.Limit)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate services: %w", err)
	}

	return services, total, nil
}

func summaryColumns() []interface{} {
	return []interface{}{
		goqu.I("s.id"), goqu.I("s.provider_id"), goqu.I("s.category"), goqu.I("s.title"),
		goqu.I("s.description"), goqu.I("s.base_price"), goqu.I("s.images"), goqu.I("s.capacity"),
		goqu.I("s.is_active"), goqu.I("s.created_at"), goqu.I("s.updated_at"),
		goqu.I("p.id"), goqu.I("p.user_id"), goqu.I("p.business_name"), goqu.I("p.is_verified"),
		goqu.I("p.phone"), goqu.I("p.city"),
		goqu.L("(SELECT AVG(rv.rating)::float8 FROM reviews rv WHERE rv.service_id = s.id)").As("average_rating"),
		goqu.L("(SELECT COUNT(*) FROM reviews rv WHERE rv.service_id = s.id)").As("review_count"),
	}
}

func scanSummary(row pgx.Row) (*model.ServiceSummary, error) {
	s := &model.ServiceSummary{}
	var category string

	err := row.Scan(
		&s.ID, &s.ProviderID, &category, &s.Title,
		&s.Description, &s.BasePrice, &s.Images, &s.Capacity,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		&s.Provider.ID, &s.Provider.UserID, &s.Provider.BusinessName, &s.Provider.IsVerified,
		&s.Provider.Phone, &s.Provider.City,
		&s.AverageRating, &s.ReviewCount,
	)
	if err != nil {
		return nil, fmt.Errorf("scan service: %w", err)
	}

	s.Category = model.Category(category)
	return s, nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ServiceDetail, error) {
	query, args, err := r.filtered(ListFilter{}).
		Select(summaryColumns()...).
		Where(goqu.I("s.id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	summary, err := scanSummary(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("service %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}

	detail := &model.ServiceDetail{ServiceSummary: *summary}

	switch summary.Category {
	case model.CategoryAccommodation:
		detail.Accommodation, err = r.getAccommodation(ctx, id)
	case model.CategoryFood:
		detail.Food, err = r.getFood(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	detail.Reviews, err = r.listReviews(ctx, id)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (r *postgresServiceRepository) getAccommodation(ctx context.Context, serviceID uuid.UUID) (*model.AccommodationDetails, error) {
	query := `
		SELECT property_type, bedrooms, bathrooms, max_guests, amenities, address, city
		FROM accommodation_details
		WHERE service_id = $1
	`

	d := &model.AccommodationDetails{}
	err := r.pool.QueryRow(ctx, query, serviceID).Scan(
		&d.PropertyType, &d.Bedrooms, &d.Bathrooms, &d.MaxGuests, &d.Amenities, &d.Address, &d.City,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get accommodation details: %w", err)
	}
	return d, nil
}

func (r *postgresServiceRepository) getFood(ctx context.Context, serviceID uuid.UUID) (*model.FoodDetails, error) {
	query := `
		SELECT cuisine_type, meal_types, is_vegetarian, is_vegan, delivery_available, address, city
		FROM food_details
		WHERE service_id = $1
	`

	d := &model.FoodDetails{}
	err := r.pool.QueryRow(ctx, query, serviceID).Scan(
		&d.CuisineType, &d.MealTypes, &d.IsVegetarian, &d.IsVegan, &d.DeliveryAvailable, &d.Address, &d.City,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get food details: %w", err)
	}
	return d, nil
}

func (r *postgresServiceRepository) listReviews(ctx context.Context, serviceID uuid.UUID) ([]model.ServiceReview, error) {
	query := `
		SELECT rv.id, rv.user_id, u.name, u.avatar, rv.rating, rv.comment, rv.created_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.service_id = $1
		ORDER BY rv.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list service reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.ServiceReview{}
	for rows.Next() {
		var rv model.ServiceReview
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.UserAvatar, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// =====================================================
// CREATE / UPDATE
// =====================================================

func (r *postgresServiceRepository) Create(
	ctx context.Context,
	svc *model.Service,
	acc *model.AccommodationDetails,
	food *model.FoodDetails,
) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO services (
				id, provider_id, category, title, description,
				base_price, images, capacity, is_active,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`

		_, err := tx.Exec(ctx, query,
			svc.ID,
			svc.ProviderID,
			string(svc.Category),
			svc.Title,
			svc.Description,
			svc.BasePrice,
			nonNil(svc.Images),
			svc.Capacity,
			svc.IsActive,
			svc.CreatedAt,
			svc.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert service: %w", err)
		}

		return upsertDetails(ctx, tx, svc.ID, acc, food)
	})
}

func (r *postgresServiceRepository) Update(
	ctx context.Context,
	svc *model.Service,
	acc *model.AccommodationDetails,
	food *model.FoodDetails,
) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE services SET
				title = $2,
				description = $3,
				base_price = $4,
				images = $5,
				capacity = $6,
				is_active = $7,
				updated_at = $8
			WHERE id = $1
		`

		tag, err := tx.Exec(ctx, query,
			svc.ID,
			svc.Title,
			svc.Description,
			svc.BasePrice,
			nonNil(svc.Images),
			svc.Capacity,
			svc.IsActive,
			svc.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update service: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("service %s: %w", svc.ID, apperror.ErrNotFound)
		}

		return upsertDetails(ctx, tx, svc.ID, acc, food)
	})
}

func upsertDetails(
	ctx context.Context,
	tx database.Querier,
	serviceID uuid.UUID,
	acc *model.AccommodationDetails,
	food *model.FoodDetails,
) error {
	if acc != nil {
		query := `
			INSERT INTO accommodation_details (
				service_id, property_type, bedrooms, bathrooms, max_guests, amenities, address, city
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (service_id) DO UPDATE SET
				property_type = EXCLUDED.property_type,
				bedrooms = EXCLUDED.bedrooms,
				bathrooms = EXCLUDED.bathrooms,
				max_guests = EXCLUDED.max_guests,
				amenities = EXCLUDED.amenities,
				address = EXCLUDED.address,
				city = EXCLUDED.city
		`
		if _, err := tx.Exec(ctx, query,
			serviceID, acc.PropertyType, acc.Bedrooms, acc.Bathrooms, acc.MaxGuests,
			nonNil(acc.Amenities), acc.Address, acc.City,
		); err != nil {
			return fmt.Errorf("upsert accommodation details: %w", err)
		}
	}

	if food != nil {
		query := `
			INSERT INTO food_details (
				service_id, cuisine_type, meal_types, is_vegetarian, is_vegan, delivery_available, address, city
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (service_id) DO UPDATE SET
				cuisine_type = EXCLUDED.cuisine_type,
				meal_types = EXCLUDED.meal_types,
				is_vegetarian = EXCLUDED.is_vegetarian,
				is_vegan = EXCLUDED.is_vegan,
				delivery_available = EXCLUDED.delivery_available,
				address = EXCLUDED.address,
				city = EXCLUDED.city
		`
		if _, err := tx.Exec(ctx, query,
			serviceID, food.CuisineType, nonNil(food.MealTypes), food.IsVegetarian, food.IsVegan,
			food.DeliveryAvailable, food.Address, food.City,
		); err != nil {
			return fmt.Errorf("upsert food details: %w", err)
		}
	}

	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}

// nonNil keeps NOT NULL TEXT[] columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
