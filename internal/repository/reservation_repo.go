package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentflow/internal/domain"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) DB() *gorm.DB {
	return r.db
}

// lockForUpdate adds FOR UPDATE on Postgres. SQLite has a single writer
// and serializes transactions on its own; it does not parse the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CreateHold runs the authoritative hold-creation transaction: lock the
// unit-type row, replay on a known idempotency key, re-check committed
// quantity under the lock, insert the hold. Competing requests for the
// same unit type serialize on the row lock, which is what keeps the
// capacity invariant race-free.
//
// On success the reservation is written back into res (including the
// replayed row for idempotent calls). The bool result reports whether an
// existing reservation was replayed.
func (r *ReservationRepository) CreateHold(ctx context.Context, res *domain.Reservation) (bool, error) {
	var idempotent bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ut domain.UnitType
		if err := lockForUpdate(tx).First(&ut, res.UnitTypeID).Error; err != nil {
			return err
		}

		var existing domain.Reservation
		err := tx.Where("idempotency_key = ?", res.IdempotencyKey).First(&existing).Error
		if err == nil {
			*res = existing
			idempotent = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		committed, err := overlappingQuantity(tx, res.UnitTypeID, res.StartDate, res.EndDate, 0)
		if err != nil {
			return err
		}
		if committed+res.Quantity > ut.TotalQuantity {
			return domain.ErrCapacityExceeded
		}

		return tx.Create(res).Error
	})

	return idempotent, err
}

// OverlappingQuantity sums the quantity claimed against a unit type over
// a window, counting hold/confirmed/active rows. Outside the creation
// transaction this is only an optimistic pre-check. excludeID skips one
// reservation, used when re-checking during a rebind.
func (r *ReservationRepository) OverlappingQuantity(ctx context.Context, unitTypeID int64, start, end time.Time, excludeID int64) (int, error) {
	return overlappingQuantity(r.db.WithContext(ctx), unitTypeID, start, end, excludeID)
}

func overlappingQuantity(tx *gorm.DB, unitTypeID int64, start, end time.Time, excludeID int64) (int, error) {
	q := tx.Model(&domain.Reservation{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("unit_type_id = ?", unitTypeID).
		Where("status IN ?", domain.CountableStatuses).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var committed int
	if err := q.Scan(&committed).Error; err != nil {
		return 0, err
	}
	return committed, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByIdempotencyKey returns (nil, nil) when no reservation carries the key.
func (r *ReservationRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ConfirmHold promotes an unexpired hold to confirmed and clears its
// expiry in one guarded update. Zero rows affected means the row was not
// a live hold; the caller re-reads to tell "wrong state" from "expired".
func (r *ReservationRepository) ConfirmHold(ctx context.Context, id int64, paymentRef string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND status = ?", id, domain.ReservationHold).
		Where("expires_at IS NOT NULL AND expires_at >= ?", now).
		Updates(map[string]any{
			"status":            domain.ReservationConfirmed,
			"expires_at":        nil,
			"payment_reference": paymentRef,
			"updated_at":        now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TransitionStatus performs a guarded status update: the row must still
// be in the expected current status, otherwise nothing changes. This is
// what makes terminal rows effectively immutable at the ledger level.
func (r *ReservationRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if to == domain.ReservationCancelled {
		now := time.Now().UTC()
		updates["cancelled_at"] = &now
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SweepExpired transitions every stale hold to expired in one bulk
// statement and reports how many rows were released. Running it again
// immediately finds nothing, so the sweep is idempotent by construction.
func (r *ReservationRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("status = ?", domain.ReservationHold).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Updates(map[string]any{
			"status":     domain.ReservationExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

type ReservationFilters struct {
	Status     string
	UnitTypeID int64
	Limit      int
	Offset     int
}

func (r *ReservationRepository) ListByProvider(ctx context.Context, providerID int64, f ReservationFilters) ([]domain.Reservation, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UnitTypeID > 0 {
		q = q.Where("unit_type_id = ?", f.UnitTypeID)
	}

	var rows []domain.Reservation
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
