package model

import (
	"housiee-backend/pkg/apperror"
)

const (
	msgServiceNotFound   = "Service not found"
	msgProviderNotFound  = "Provider profile not found"
	msgNotOwner          = "You can only manage your own services"
	msgProviderRole      = "Only service providers can create services"
	msgCategoryImmutable = "Service category cannot be changed"
)

func NewServiceNotFoundError() *apperror.AppError {
	return apperror.NotFound(msgServiceNotFound)
}

func NewProviderNotFoundError() *apperror.AppError {
	return apperror.Validation(msgProviderNotFound)
}

func NewNotOwnerError() *apperror.AppError {
	return apperror.Forbidden(msgNotOwner)
}

func NewProviderRoleError() *apperror.AppError {
	return apperror.Forbidden(msgProviderRole)
}

func NewCategoryImmutableError() *apperror.AppError {
	return apperror.Validation(msgCategoryImmutable)
}
