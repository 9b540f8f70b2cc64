package domain

import "errors"

// Sentinels that cross the repository boundary. Module-level services map
// them onto their own error vocabulary before they reach a handler.
var (
	ErrCapacityExceeded   = errors.New("unit type capacity exceeded for the requested window")
	ErrAssignmentConflict = errors.New("asset already assigned for an overlapping window")
)
