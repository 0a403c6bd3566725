package model

import (
	"housiee-backend/pkg/apperror"
)

const (
	msgReviewNotFound  = "Review not found"
	msgServiceNotFound = "Service not found"
	msgAlreadyReviewed = "You have already reviewed this service"
	msgNotEligible     = "You can only review services you have completed a booking for"
	msgNotAuthor       = "You can only modify your own reviews"
)

func NewReviewNotFoundError() *apperror.AppError {
	return apperror.NotFound(msgReviewNotFound)
}

func NewServiceNotFoundError() *apperror.AppError {
	return apperror.NotFound(msgServiceNotFound)
}

func NewAlreadyReviewedError() *apperror.AppError {
	return apperror.Validation(msgAlreadyReviewed)
}

func NewNotEligibleError() *apperror.AppError {
	return apperror.Validation(msgNotEligible)
}

func NewNotAuthorError() *apperror.AppError {
	return apperror.Forbidden(msgNotAuthor)
}
