package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/enums"
)

// InventoryTransaction is one append-only ledger entry. QuantityDelta is
// already sign-normalized: remove entries are negative, add entries positive.
type InventoryTransaction struct {
	ID            uuid.UUID                      `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID                      `gorm:"column:product_id;type:uuid;not null;index"`
	Type          enums.InventoryTransactionType `gorm:"column:type;type:text;not null"`
	QuantityDelta int                            `gorm:"column:quantity_delta;not null"`
	Note          *string                        `gorm:"column:note"`
	ActorUserID   uuid.UUID                      `gorm:"column:actor_user_id;type:uuid;not null"`
	CreatedAt     time.Time                      `gorm:"column:created_at;autoCreateTime"`
}

func (t *InventoryTransaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
