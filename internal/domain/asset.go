package domain

import "time"

type AssetStatus string

const (
	AssetAvailable   AssetStatus = "available"
	AssetReserved    AssetStatus = "reserved"
	AssetActive      AssetStatus = "active"
	AssetMaintenance AssetStatus = "maintenance"
)

// Asset is one physical, individually tracked unit of a unit-type.
// Assignment history is a derived view over reservation_assignments,
// not stored on the asset.
type Asset struct {
	ID             int64       `json:"id"`
	UnitTypeID     int64       `json:"unit_type_id" gorm:"index"`
	Serial         string      `json:"serial"`
	Status         AssetStatus `json:"status"`
	ConditionScore int         `json:"condition_score"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ReservationAssignment binds a reservation to a concrete asset. Rows are
// deleted and recreated on rebind, never updated in place, so the
// overlapping-window exclusivity check never sees a half-moved row.
type ReservationAssignment struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id" gorm:"uniqueIndex:idx_assignment_reservation"`
	AssetID       int64     `json:"asset_id" gorm:"index"`
	AssignedAt    time.Time `json:"assigned_at"`
}
