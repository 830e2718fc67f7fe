package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

// Service exposes the stock ledger operations.
type Service interface {
	RecordTransaction(ctx context.Context, actorID uuid.UUID, input RecordTransactionInput) (*TransactionDTO, error)
	SetThresholds(ctx context.Context, productID uuid.UUID, input SetThresholdsInput) (*LevelDTO, error)
	GetLevel(ctx context.Context, productID uuid.UUID) (*LevelDTO, error)
	ListLevels(ctx context.Context) ([]LevelDTO, error)
	ListLowStock(ctx context.Context) ([]LevelDTO, error)
	ListTransactions(ctx context.Context, productID uuid.UUID, params pagination.Params) (*TransactionListResult, error)

	// RemoveForOrder deducts checkout quantities inside the caller's transaction.
	RemoveForOrder(ctx context.Context, tx *gorm.DB, actorID, productID uuid.UUID, quantity int, orderNumber string) error
}

type productChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productChecker
	dbClient *db.Client
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, products productChecker, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, products: products, dbClient: dbClient}, nil
}

// RecordTransaction appends a ledger entry and moves the materialized level
// in the same transaction. The stored delta is sign-normalized: remove
// entries land negative regardless of the submitted sign.
func (s *service) RecordTransaction(ctx context.Context, actorID uuid.UUID, input RecordTransactionInput) (*TransactionDTO, error) {
	txType, err := enums.ParseInventoryTransactionType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	if input.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be zero")
	}
	if input.Quantity < 0 && txType != enums.InventoryTransactionTypeAdjustment {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	delta := txType.NormalizeDelta(input.Quantity)

	var created *models.InventoryTransaction
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, err = s.applyLedgerEntry(ctx, tx, &models.InventoryTransaction{
			ProductID:     input.ProductID,
			Type:          txType,
			QuantityDelta: delta,
			Note:          input.Note,
			ActorUserID:   actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	dto := transactionFromModel(created)
	return &dto, nil
}

// RemoveForOrder writes the checkout deduction through the same ledger path,
// bound to the checkout transaction so the order and stock move together.
func (s *service) RemoveForOrder(ctx context.Context, tx *gorm.DB, actorID, productID uuid.UUID, quantity int, orderNumber string) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	note := "order " + orderNumber
	_, err := s.applyLedgerEntry(ctx, tx, &models.InventoryTransaction{
		ProductID:     productID,
		Type:          enums.InventoryTransactionTypeRemove,
		QuantityDelta: enums.InventoryTransactionTypeRemove.NormalizeDelta(quantity),
		Note:          &note,
		ActorUserID:   actorID,
	})
	return err
}

// SetThresholds updates the alert bounds, creating the level row if needed.
func (s *service) SetThresholds(ctx context.Context, productID uuid.UUID, input SetThresholdsInput) (*LevelDTO, error) {
	if input.MaxThreshold > 0 && input.MinThreshold > input.MaxThreshold {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_threshold cannot exceed max_threshold")
	}
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.repo.EnsureLevel(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure inventory level")
	}
	if err := s.repo.UpdateThresholds(ctx, productID, input.MinThreshold, input.MaxThreshold); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update thresholds")
	}

	return s.GetLevel(ctx, productID)
}

func (s *service) GetLevel(ctx context.Context, productID uuid.UUID) (*LevelDTO, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	level, err := s.repo.FindLevel(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No ledger entries yet reads as zero stock.
			level = &models.InventoryLevel{ProductID: productID}
		} else {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup inventory level")
		}
	}

	dto := levelFromRow(&LevelRow{
		InventoryLevel: *level,
		ProductName:    product.Name,
		ProductNameAr:  product.NameAr,
	})
	return &dto, nil
}

func (s *service) ListLevels(ctx context.Context) ([]LevelDTO, error) {
	rows, err := s.repo.ListLevels(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory levels")
	}
	return levelsFromRows(rows), nil
}

func (s *service) ListLowStock(ctx context.Context) ([]LevelDTO, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock")
	}
	return levelsFromRows(rows), nil
}

func (s *service) ListTransactions(ctx context.Context, productID uuid.UUID, params pagination.Params) (*TransactionListResult, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListTransactions(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory transactions")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]TransactionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, transactionFromModel(&rows[i]))
	}
	return &TransactionListResult{Transactions: dtos, NextCursor: nextCursor}, nil
}

// applyLedgerEntry inserts the ledger row and shifts the level, refusing any
// movement that would take the cached quantity below zero.
func (s *service) applyLedgerEntry(ctx context.Context, tx *gorm.DB, entry *models.InventoryTransaction) (*models.InventoryTransaction, error) {
	repo := s.repo.WithTx(tx)

	if err := repo.EnsureLevel(ctx, entry.ProductID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure inventory level")
	}

	affected, err := repo.ApplyDelta(ctx, entry.ProductID, entry.QuantityDelta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply inventory delta")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")
	}

	created, err := repo.CreateTransaction(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory transaction")
	}
	return created, nil
}

func (s *service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return nil
}

func levelsFromRows(rows []LevelRow) []LevelDTO {
	dtos := make([]LevelDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, levelFromRow(&rows[i]))
	}
	return dtos
}
