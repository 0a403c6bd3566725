package model

import "housiee-backend/pkg/apperror"

func NewAlreadyAppliedError() *apperror.AppError {
	return apperror.Validation("Provider profile already exists")
}

func NewProfileNotFoundError() *apperror.AppError {
	return apperror.NotFound("Provider profile not found")
}
