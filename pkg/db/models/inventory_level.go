package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLevel is the materialized cache of the transaction ledger sum per
// product. It is only ever written in the same transaction as a ledger insert.
type InventoryLevel struct {
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Quantity     int       `gorm:"column:quantity;not null;default:0"`
	MinThreshold int       `gorm:"column:min_threshold;not null;default:0"`
	MaxThreshold int       `gorm:"column:max_threshold;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
