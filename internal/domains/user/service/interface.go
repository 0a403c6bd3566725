package service

import (
	"context"

	"github.com/google/uuid"

	"housiee-backend/internal/domains/user/model"
	"housiee-backend/internal/shared/authz"
)

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserResponse, error)

	// Login checks credentials. Five failures within 15 minutes lock the
	// email out until the window expires.
	Login(ctx context.Context, req model.LoginRequest) (*model.UserResponse, error)

	Me(ctx context.Context, caller *authz.Caller) (*model.UserResponse, error)

	// ResolveCaller backs the session middleware.
	ResolveCaller(ctx context.Context, userID uuid.UUID) (*authz.Caller, error)
}
