package model

import "housiee-backend/pkg/apperror"

func NewEmailTakenError() *apperror.AppError {
	return apperror.Validation("Email already registered")
}

func NewInvalidCredentialsError() *apperror.AppError {
	return apperror.Unauthorized("Invalid email or password")
}

func NewTooManyAttemptsError() *apperror.AppError {
	return apperror.RateLimited("Too many failed login attempts, please try again later")
}

func NewUserNotFoundError() *apperror.AppError {
	return apperror.NotFound("User not found")
}
