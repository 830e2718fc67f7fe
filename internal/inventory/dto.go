package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
)

// RecordTransactionInput is the payload for recording a stock movement.
// Quantity is always supplied positive; the type decides the sign.
type RecordTransactionInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Type      string    `json:"type" validate:"required,oneof=add remove adjustment"`
	Quantity  int       `json:"quantity" validate:"required"`
	Note      *string   `json:"note"`
}

// SetThresholdsInput updates the low/high stock alert bounds.
type SetThresholdsInput struct {
	MinThreshold int `json:"min_threshold" validate:"gte=0"`
	MaxThreshold int `json:"max_threshold" validate:"gte=0"`
}

// TransactionDTO is one ledger entry.
type TransactionDTO struct {
	ID            uuid.UUID                      `json:"id"`
	ProductID     uuid.UUID                      `json:"product_id"`
	Type          enums.InventoryTransactionType `json:"type"`
	QuantityDelta int                            `json:"quantity_delta"`
	Note          *string                        `json:"note,omitempty"`
	ActorUserID   uuid.UUID                      `json:"actor_user_id"`
	CreatedAt     time.Time                      `json:"created_at"`
}

// LevelDTO is the materialized stock position for one product.
type LevelDTO struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductNameAr string    `json:"product_name_ar"`
	Quantity      int       `json:"quantity"`
	MinThreshold  int       `json:"min_threshold"`
	MaxThreshold  int       `json:"max_threshold"`
	LowStock      bool      `json:"low_stock"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TransactionListResult is one ledger page plus the next cursor.
type TransactionListResult struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

func transactionFromModel(t *models.InventoryTransaction) TransactionDTO {
	return TransactionDTO{
		ID:            t.ID,
		ProductID:     t.ProductID,
		Type:          t.Type,
		QuantityDelta: t.QuantityDelta,
		Note:          t.Note,
		ActorUserID:   t.ActorUserID,
		CreatedAt:     t.CreatedAt,
	}
}

func levelFromRow(row *LevelRow) LevelDTO {
	return LevelDTO{
		ProductID:     row.ProductID,
		ProductName:   row.ProductName,
		ProductNameAr: row.ProductNameAr,
		Quantity:      row.Quantity,
		MinThreshold:  row.MinThreshold,
		MaxThreshold:  row.MaxThreshold,
		LowStock:      row.Quantity <= row.MinThreshold,
		UpdatedAt:     row.UpdatedAt,
	}
}
