package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rentflow/internal/domain"
)

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(ctx context.Context, a *domain.Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	var a domain.Asset
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) ListByUnitType(ctx context.Context, unitTypeID int64) ([]domain.Asset, error) {
	var rows []domain.Asset
	err := r.db.WithContext(ctx).
		Where("unit_type_id = ?", unitTypeID).
		Order("condition_score DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AssetRepository) UpdateStatus(ctx context.Context, id int64, status domain.AssetStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Asset{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CandidateAssets returns assets of the unit type that carry no
// assignment whose parent reservation is confirmed/active and overlaps
// the window, best condition first. Maintenance units are never offered.
// excludeReservationID drops the reservation being resolved so a rebind
// can keep its current asset in the pool.
func (r *AssetRepository) CandidateAssets(ctx context.Context, unitTypeID int64, start, end time.Time, excludeReservationID int64) ([]domain.Asset, error) {
	var rows []domain.Asset
	q := `
SELECT a.*
FROM assets a
WHERE a.unit_type_id = ?
  AND a.status <> ?
  AND a.id NOT IN (
    SELECT ra.asset_id
    FROM reservation_assignments ra
    JOIN reservations res ON res.id = ra.reservation_id
    WHERE res.status IN (?, ?)
      AND ra.reservation_id <> ?
      AND res.start_date < ? AND res.end_date > ?
  )
ORDER BY a.condition_score DESC
`
	err := r.db.WithContext(ctx).Raw(q,
		unitTypeID,
		domain.AssetMaintenance,
		domain.ReservationConfirmed, domain.ReservationActive,
		excludeReservationID,
		end, start,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Assign binds a reservation to an asset, replacing any previous binding.
// The old row is deleted and a fresh one inserted rather than updated in
// place, so the exclusivity check never observes a half-moved binding.
// The overlap invariant is re-verified inside the same transaction; a
// unique or exclusion constraint in the schema is only a backstop.
func (r *AssetRepository) Assign(ctx context.Context, reservationID, assetID int64, start, end time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Asset
		if err := lockForUpdate(tx).First(&a, assetID).Error; err != nil {
			return err
		}

		var conflicting int64
		q := `
SELECT COUNT(1)
FROM reservation_assignments ra
JOIN reservations res ON res.id = ra.reservation_id
WHERE ra.asset_id = ?
  AND ra.reservation_id <> ?
  AND res.status IN (?, ?)
  AND res.start_date < ? AND res.end_date > ?
`
		if err := tx.Raw(q,
			assetID,
			reservationID,
			domain.ReservationConfirmed, domain.ReservationActive,
			end, start,
		).Scan(&conflicting).Error; err != nil {
			return err
		}
		if conflicting > 0 {
			return domain.ErrAssignmentConflict
		}

		if err := tx.Where("reservation_id = ?", reservationID).
			Delete(&domain.ReservationAssignment{}).Error; err != nil {
			return err
		}

		return tx.Create(&domain.ReservationAssignment{
			ReservationID: reservationID,
			AssetID:       assetID,
			AssignedAt:    time.Now().UTC(),
		}).Error
	})
}

// GetAssignment returns (nil, nil) when the reservation has no binding.
func (r *AssetRepository) GetAssignment(ctx context.Context, reservationID int64) (*domain.ReservationAssignment, error) {
	var ra domain.ReservationAssignment
	err := r.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&ra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ra, nil
}
