package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"housiee-backend/internal/domains/user/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/database"
)

type postgresUserRepository struct {
	pool database.DB
}

func NewPostgresUserRepository(pool database.DB) UserRepository {
	return &postgresUserRepository{pool: pool}
}

const userColumns = `id, email, name, avatar, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Avatar, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

// ========================================
// CRUD
// ========================================

func (r *postgresUserRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, name, avatar, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.Name, u.Avatar, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, apperror.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("user %s: %w", id, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("user %s: %w", email, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// ========================================
// CALLER RESOLUTION
// ========================================

func (r *postgresUserRepository) ResolveCaller(ctx context.Context, id uuid.UUID) (*authz.Caller, error) {
	query := `
		SELECT u.id, u.email, u.name, u.role, p.id
		FROM users u
		LEFT JOIN service_providers p ON p.user_id = u.id
		WHERE u.id = $1
	`

	caller := &authz.Caller{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&caller.UserID, &caller.Email, &caller.Name, &caller.Role, &caller.ProviderID,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("user %s: %w", id, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	return caller, nil
}
