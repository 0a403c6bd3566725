package model

import (
	"errors"
	"fmt"

	"housiee-backend/pkg/apperror"
)

// ErrCapacityExceeded is returned by the repository when the requested
// quantity does not fit in the remaining capacity.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrServiceUnavailable is returned when the service was deactivated
// between the availability check and the insert.
var ErrServiceUnavailable = errors.New("service unavailable")

const (
	msgBookingNotFound    = "Booking not found"
	msgServiceUnavailable = "Service not available"
	msgNoAccess           = "You do not have access to this booking"
	msgNotEnoughCapacity  = "Not enough capacity"
	msgProviderNotFound   = "Provider profile not found"
)

func NewBookingNotFoundError() *apperror.AppError {
	return apperror.NotFound(msgBookingNotFound)
}

func NewServiceUnavailableError() *apperror.AppError {
	return apperror.Validation(msgServiceUnavailable)
}

func NewNoAccessError() *apperror.AppError {
	return apperror.Forbidden(msgNoAccess)
}

func NewCapacityError() *apperror.AppError {
	return apperror.Validation(msgNotEnoughCapacity)
}

func NewProviderNotFoundError() *apperror.AppError {
	return apperror.Validation(msgProviderNotFound)
}

func NewInvalidStatusError(status string) *apperror.AppError {
	return apperror.Validation(fmt.Sprintf("Invalid status %q", status))
}

func NewInvalidTransitionError(from, to Status) *apperror.AppError {
	return apperror.Validation(fmt.Sprintf("Cannot change booking status from %s to %s", from, to))
}
