package assignment

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("reservation or asset not found")
	ErrForbidden         = errors.New("caller is not allowed to manage this reservation")
	ErrConflict          = errors.New("asset has an overlapping assignment")
	ErrWrongUnitType     = errors.New("asset does not belong to the reservation's unit type")
	ErrUnassignableState = errors.New("reservation status does not allow assignment")
)
