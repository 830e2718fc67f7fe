package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

// Repository provides persistence for the stock ledger and its materialized
// per-product levels.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateTransaction appends a ledger entry. Entries are never updated.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) (*models.InventoryTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// FindLevel loads the level row for a product.
func (r *Repository) FindLevel(ctx context.Context, productID uuid.UUID) (*models.InventoryLevel, error) {
	var level models.InventoryLevel
	if err := r.db.WithContext(ctx).First(&level, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// EnsureLevel inserts a zero-quantity level row when none exists yet.
func (r *Repository) EnsureLevel(ctx context.Context, productID uuid.UUID) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryLevel{}).
		Where("product_id = ?", productID).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.InventoryLevel{ProductID: productID}).Error
}

// ApplyDelta atomically shifts the cached quantity, refusing to go negative.
// A zero rows-affected result means the delta would underflow the stock.
func (r *Repository) ApplyDelta(ctx context.Context, productID uuid.UUID, delta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryLevel{}).
		Where("product_id = ? AND quantity + ? >= 0", productID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

// UpdateThresholds sets the min/max alert bounds for a product.
func (r *Repository) UpdateThresholds(ctx context.Context, productID uuid.UUID, min, max int) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryLevel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{"min_threshold": min, "max_threshold": max})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListLevels returns every level row joined with its product name.
func (r *Repository) ListLevels(ctx context.Context) ([]LevelRow, error) {
	var rows []LevelRow
	err := r.db.WithContext(ctx).
		Table("inventory_levels").
		Select("inventory_levels.*, products.name AS product_name, products.name_ar AS product_name_ar").
		Joins("JOIN products ON products.id = inventory_levels.product_id").
		Order("products.name ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLowStock returns level rows at or below their minimum threshold.
func (r *Repository) ListLowStock(ctx context.Context) ([]LevelRow, error) {
	var rows []LevelRow
	err := r.db.WithContext(ctx).
		Table("inventory_levels").
		Select("inventory_levels.*, products.name AS product_name, products.name_ar AS product_name_ar").
		Joins("JOIN products ON products.id = inventory_levels.product_id").
		Where("inventory_levels.quantity <= inventory_levels.min_threshold").
		Order("inventory_levels.quantity ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountLowStock reports how many products sit at or below their minimum.
func (r *Repository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryLevel{}).
		Where("quantity <= min_threshold").
		Count(&count).
		Error
	return count, err
}

// ListTransactions returns one ledger page for a product, newest first.
func (r *Repository) ListTransactions(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, error) {
	q := r.db.WithContext(ctx).
		Model(&models.InventoryTransaction{}).
		Where("product_id = ?", productID)

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, fmt.Errorf("parse cursor: %w", err)
		}
		if cursor != nil {
			q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	var rows []models.InventoryTransaction
	err := q.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LevelRow is a level joined with the product's display names.
type LevelRow struct {
	models.InventoryLevel
	ProductName   string `gorm:"column:product_name"`
	ProductNameAr string `gorm:"column:product_name_ar"`
}
