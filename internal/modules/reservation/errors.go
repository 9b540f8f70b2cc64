package reservation

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("insufficient capacity for the requested window")
	ErrNotFound        = errors.New("reservation or unit type not found")
	ErrForbidden       = errors.New("caller is not allowed to act on this reservation")
	ErrStateTransition = errors.New("invalid reservation status transition")
	ErrHoldExpired     = errors.New("hold has expired")
)
