package assignment

import (
	"context"
	"time"

	"rentflow/internal/domain"
)

// AssetRepository is the resolver's view of assets and bindings.
type AssetRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	CandidateAssets(ctx context.Context, unitTypeID int64, start, end time.Time, excludeReservationID int64) ([]domain.Asset, error)
	Assign(ctx context.Context, reservationID, assetID int64, start, end time.Time) error
	GetAssignment(ctx context.Context, reservationID int64) (*domain.ReservationAssignment, error)
}

// ReservationReader resolves the reservation being bound.
type ReservationReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
}
