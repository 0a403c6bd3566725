package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"housiee-backend/internal/domains/user/model"
	"housiee-backend/internal/domains/user/repository"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/cache"
)

type userService struct {
	userRepo   repository.UserRepository
	cache      cache.Cache
	bcryptCost int
}

// NewUserService builds the identity service. c tracks failed logins and
// may be nil, which disables the lockout.
func NewUserService(userRepo repository.UserRepository, c cache.Cache) ServiceInterface {
	return &userService{
		userRepo:   userRepo,
		cache:      c,
		bcryptCost: model.BcryptCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserResponse, error) {
	// 1. Validate input
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// 2. Email must be free
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internalf(err, "check email")
	}
	if exists {
		return nil, model.NewEmailTakenError()
	}

	// 3. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Internalf(err, "hash password")
	}

	// 4. Persist
	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         authz.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, model.NewEmailTakenError()
		}
		return nil, apperror.Internalf(err, "create user")
	}

	log.Info().Str("user_id", u.ID.String()).Msg("User registered")
	return model.ToUserResponse(u, nil), nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.UserResponse, error) {
	// 1. Validate input
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// 2. Locked out?
	if s.failedAttempts(ctx, req.Email) >= model.MaxFailedAttempts {
		return nil, model.NewTooManyAttemptsError()
	}

	// 3. Find user; unknown emails and wrong passwords look the same
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.recordFailure(ctx, req.Email)
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, apperror.Internalf(err, "find user")
	}

	// 4. Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, req.Email)
		return nil, model.NewInvalidCredentialsError()
	}

	s.clearFailures(ctx, req.Email)

	// 5. Attach provider profile id
	caller, err := s.userRepo.ResolveCaller(ctx, u.ID)
	if err != nil {
		return nil, apperror.Internalf(err, "resolve caller")
	}

	log.Info().Str("user_id", u.ID.String()).Msg("User logged in")
	return model.ToUserResponse(u, caller.ProviderID), nil
}

func (s *userService) Me(ctx context.Context, caller *authz.Caller) (*model.UserResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}

	u, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Authentication required")
		}
		return nil, apperror.Internalf(err, "get user")
	}
	return model.ToUserResponse(u, caller.ProviderID), nil
}

func (s *userService) ResolveCaller(ctx context.Context, userID uuid.UUID) (*authz.Caller, error) {
	return s.userRepo.ResolveCaller(ctx, userID)
}

// ========================================
// FAILED LOGIN TRACKING
// ========================================

func (s *userService) failedAttempts(ctx context.Context, email string) int64 {
	if s.cache == nil {
		return 0
	}

	var attempts int64
	if _, err := s.cache.Get(ctx, cache.FailedLoginKey(email), &attempts); err != nil {
		log.Warn().Err(err).Msg("Failed to read login attempts")
		return 0
	}
	return attempts
}

func (s *userService) recordFailure(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}

	key := cache.FailedLoginKey(email)
	attempts, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count login attempt")
		return
	}

	// window starts at the first failure
	if attempts == 1 {
		if err := s.cache.Expire(ctx, key, model.AttemptWindow); err != nil {
			log.Warn().Err(err).Msg("Failed to set login attempt window")
		}
	}

	if attempts >= model.MaxFailedAttempts {
		log.Warn().Int64("attempts", attempts).Msg("Login locked after repeated failures")
	}
}

func (s *userService) clearFailures(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.FailedLoginKey(email)); err != nil {
		log.Warn().Err(err).Msg("Failed to reset login attempts")
	}
}
