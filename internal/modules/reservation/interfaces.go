package reservation

import (
	"context"
	"time"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
)

// ReservationRepository is the ledger surface the hold protocol and the
// sweeper need. The gorm implementation lives in internal/repository.
type ReservationRepository interface {
	CreateHold(ctx context.Context, res *domain.Reservation) (idempotent bool, err error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error)
	OverlappingQuantity(ctx context.Context, unitTypeID int64, start, end time.Time, excludeID int64) (int, error)
	ConfirmHold(ctx context.Context, id int64, paymentRef string, now time.Time) (bool, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	ListByProvider(ctx context.Context, providerID int64, f repository.ReservationFilters) ([]domain.Reservation, error)
}

// UnitTypeReader resolves the capacity and pricing of a unit type.
type UnitTypeReader interface {
	GetByID(ctx context.Context, id int64) (*domain.UnitType, error)
}
