package model

import "housiee-backend/pkg/apperror"

func NewUserNotFoundError() *apperror.AppError {
	return apperror.NotFound("User not found")
}

func NewProviderNotFoundError() *apperror.AppError {
	return apperror.NotFound("Provider not found")
}

func NewSelfRoleChangeError() *apperror.AppError {
	return apperror.Validation("You cannot change your own role")
}

func NewSelfDeleteError() *apperror.AppError {
	return apperror.Validation("You cannot delete your own account")
}
