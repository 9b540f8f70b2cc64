package domain

import (
	"time"

	"gorm.io/gorm"
)

// UnitType is a rentable variant with a fixed total quantity, fulfilled by
// interchangeable physical assets. Its row is the lock target that
// serializes competing holds.
type UnitType struct {
	ID            int64          `json:"id"`
	ProviderID    int64          `json:"provider_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty" gorm:"type:text"`
	TotalQuantity int            `json:"total_quantity"`
	PricePerDay   float64        `json:"price_per_day"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
