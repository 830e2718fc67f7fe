package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

// Service exposes the authenticated cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	Merge(ctx context.Context, userID uuid.UUID, input MergeInput) (*CartDTO, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productLoader
	dbClient *db.Client
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productLoader, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, products: products, dbClient: dbClient}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	return cartFromModels(rows), nil
}

// AddItem increments the line for the product, creating it when absent.
// Adding 2 then 3 leaves a single row with quantity 5.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := s.ensurePurchasable(ctx, input.ProductID); err != nil {
		return nil, err
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.upsertIncrement(ctx, tx, userID, input.ProductID, input.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// SetQuantity sets the absolute quantity. Zero or less removes the line.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	item, err := s.repo.Find(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}

	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart quantity")
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes the line. Removing an absent line succeeds, so retries
// and double-clicks stay safe.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// Merge folds a guest cart into the server cart in one transaction:
// either every line lands or none do. Quantities for products already in
// the cart are summed. The whole guest cart is checked up front so the
// error names every offending product, not just the first one.
func (s *service) Merge(ctx context.Context, userID uuid.UUID, input MergeInput) (*CartDTO, error) {
	if len(input.Items) == 0 {
		return s.GetCart(ctx, userID)
	}

	seen := make(map[uuid.UUID]int, len(input.Items))
	order := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if _, ok := seen[item.ProductID]; !ok {
			order = append(order, item.ProductID)
		}
		seen[item.ProductID] += item.Quantity
	}

	var unavailable, outOfStock []string
	for _, productID := range order {
		product, err := s.products.FindByID(ctx, productID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			unavailable = append(unavailable, productID.String())
		case err != nil:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
		case !product.Published:
			unavailable = append(unavailable, productID.String())
		case !product.InStock:
			outOfStock = append(outOfStock, productID.String())
		}
	}
	if len(unavailable) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains unavailable products").
			WithDetails(map[string]any{"product_ids": unavailable})
	}
	if len(outOfStock) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart contains out-of-stock products").
			WithDetails(map[string]any{"product_ids": outOfStock})
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		for _, productID := range order {
			if err := s.upsertIncrement(ctx, tx, userID, productID, seen[productID]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *service) upsertIncrement(ctx context.Context, tx *gorm.DB, userID, productID uuid.UUID, quantity int) error {
	repo := s.repo.WithTx(tx)

	affected, err := repo.IncrementQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment cart quantity")
	}
	if affected > 0 {
		return nil
	}

	_, err = repo.Create(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
	}
	return nil
}

func (s *service) ensurePurchasable(ctx context.Context, productID uuid.UUID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !product.Published {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.InStock {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock")
	}
	return nil
}
