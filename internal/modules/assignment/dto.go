package assignment

import "time"

type AssignRequest struct {
	AssetID int64 `json:"asset_id" binding:"required"`
}

type Candidate struct {
	AssetID        int64  `json:"asset_id"`
	Serial         string `json:"serial"`
	ConditionScore int    `json:"condition_score"`
}

type AssignmentView struct {
	ReservationID int64     `json:"reservation_id"`
	AssetID       int64     `json:"asset_id"`
	AssignedAt    time.Time `json:"assigned_at"`
}
