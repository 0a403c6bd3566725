package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"housiee-backend/internal/domains/review/model"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool database.DB
}

func NewPostgresReviewRepository(pool database.DB) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

const detailSelect = `
	SELECT
		r.id, r.user_id, r.service_id, r.rating, r.comment, r.created_at, r.updated_at,
		u.name, u.avatar, s.title
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN services s ON s.id = r.service_id
`

func scanDetail(row pgx.Row) (*model.ReviewDetail, error) {
	d := &model.ReviewDetail{}
	err := row.Scan(
		&d.ID, &d.UserID, &d.ServiceID, &d.Rating, &d.Comment, &d.CreatedAt, &d.UpdatedAt,
		&d.UserName, &d.UserAvatar, &d.ServiceTitle,
	)
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return d, nil
}

func collect(rows pgx.Rows) ([]*model.ReviewDetail, error) {
	defer rows.Close()

	reviews := []*model.ReviewDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, user_id, service_id, rating, comment, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.ServiceID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		// reviews_user_service_key
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("review by %s for %s: %w", review.UserID, review.ServiceID, apperror.ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReviewDetail, error) {
	d, err := scanDetail(r.pool.QueryRow(ctx, detailSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("review %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, review.ID, review.Rating, review.Comment, review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID, apperror.ErrNotFound)
	}
	return nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresReviewRepository) ListByService(
	ctx context.Context,
	serviceID uuid.UUID,
	limit, offset int,
) ([]*model.ReviewDetail, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE service_id = $1`, serviceID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		detailSelect+` WHERE r.service_id = $1 ORDER BY r.created_at DESC, r.id LIMIT $2 OFFSET $3`,
		serviceID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list service reviews: %w", err)
	}

	reviews, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *postgresReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.ReviewDetail, error) {
	rows, err := r.pool.Query(ctx, detailSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return collect(rows)
}

// =====================================================
// STATISTICS
// =====================================================

func (r *postgresReviewRepository) GetSummary(ctx context.Context, serviceID uuid.UUID) (*model.RatingSummary, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE service_id = $1
		GROUP BY rating
	`

	rows, err := r.pool.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("rating breakdown: %w", err)
	}
	defer rows.Close()

	summary := &model.RatingSummary{Breakdown: map[int]int{}}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan rating breakdown: %w", err)
		}
		summary.Breakdown[rating] = count
		summary.ReviewCount += count
		sum += rating * count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating breakdown: %w", err)
	}

	if summary.ReviewCount > 0 {
		avg := float64(sum) / float64(summary.ReviewCount)
		summary.AverageRating = &avg
	}
	return summary, nil
}

// =====================================================
// ELIGIBILITY
// =====================================================

func (r *postgresReviewRepository) ServiceExists(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`, serviceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check service exists: %w", err)
	}
	return exists, nil
}

func (r *postgresReviewRepository) HasCompletedBooking(ctx context.Context, userID, serviceID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND service_id = $2 AND status = 'COMPLETED'
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, serviceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check completed booking: %w", err)
	}
	return exists, nil
}

func (r *postgresReviewRepository) ExistsByUserAndService(ctx context.Context, userID, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND service_id = $2)`,
		userID, serviceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}
	return exists, nil
}
