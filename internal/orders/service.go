package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

// Service exposes checkout and order management operations.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetOwnOrder(ctx context.Context, userID, id uuid.UUID) (*OrderDTO, error)
	ListOwnOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListOrders(ctx context.Context, filter ListFilter) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, input UpdatePaymentStatusInput) (*OrderDTO, error)
}

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	DeleteAllTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type stockRemover interface {
	RemoveForOrder(ctx context.Context, tx *gorm.DB, actorID, productID uuid.UUID, quantity int, orderNumber string) error
}

// errOrderNumberTaken marks a unique-index collision on the generated order
// number so Checkout can redraw instead of failing the purchase.
var errOrderNumberTaken = errors.New("order number already taken")

type service struct {
	repo        *Repository
	cart        cartRepository
	stock       stockRemover
	dbClient    *db.Client
	orderNumber func(time.Time) (string, error)
}

// NewService constructs an orders service instance.
func NewService(repo *Repository, cart cartRepository, stock stockRemover, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:        repo,
		cart:        cart,
		stock:       stock,
		dbClient:    dbClient,
		orderNumber: NewOrderNumber,
	}, nil
}

// Checkout turns the user's cart into an order in one transaction: the order
// and its snapshots are written, stock is deducted through the ledger, and
// the cart is cleared. Any failure rolls the whole purchase back.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	orderNumber, err := s.orderNumber(time.Now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	order := &models.Order{
		OrderNumber:     orderNumber,
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusUnpaid,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
	}

	total := decimal.Zero
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart references a missing product")
		}
		if !item.Product.Published || !item.Product.InStock {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("product %q is unavailable", item.Product.Name))
		}
		productID := item.ProductID
		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		order.Items = append(order.Items, models.OrderItem{
			ProductID: &productID,
			Name:      item.Product.Name,
			NameAr:    item.Product.NameAr,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	order.TotalAmount = total

	attempt := func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
				if db.IsUniqueViolation(err) {
					return errOrderNumberTaken
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
			}
			for i := range items {
				item := &items[i]
				if err := s.stock.RemoveForOrder(ctx, tx, userID, item.ProductID, item.Quantity, order.OrderNumber); err != nil {
					return err
				}
			}
			if err := s.cart.DeleteAllTx(ctx, tx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
			}
			return nil
		})
	}

	err = attempt()
	if errors.Is(err, errOrderNumberTaken) {
		// The random suffix collided. Regenerate once; the unique index
		// stays the backstop if the second draw collides too.
		if order.OrderNumber, err = s.orderNumber(time.Now()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		err = attempt()
	}
	if errors.Is(err, errOrderNumberTaken) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	if err != nil {
		return nil, err
	}

	return FromModel(order), nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// GetOwnOrder fetches an order and hides other users' orders as not found.
func (s *service) GetOwnOrder(ctx context.Context, userID, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

func (s *service) ListOwnOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	return s.ListOrders(ctx, ListFilter{
		UserID: &userID,
		Limit:  params.Limit,
		Cursor: params.Cursor,
	})
}

func (s *service) ListOrders(ctx context.Context, filter ListFilter) (*ListResult, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ListResult{Orders: dtos, NextCursor: nextCursor}, nil
}

// UpdateStatus moves the order along the closed transition table. Terminal
// states and skipped steps are rejected.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == next {
		return FromModel(order), nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, id, next.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	order.Status = next
	return FromModel(order), nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, input UpdatePaymentStatusInput) (*OrderDTO, error) {
	next, err := enums.ParsePaymentStatus(input.PaymentStatus)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, next.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment status")
	}
	order.PaymentStatus = next
	return FromModel(order), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	return order, nil
}
