package model

import (
	"time"

	"github.com/google/uuid"

	"housiee-backend/internal/shared/authz"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Avatar       *string
	PasswordHash string
	Role         authz.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
