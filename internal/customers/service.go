package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/internal/orders"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

// CustomerDTO is a customer account with its query-time order aggregates.
type CustomerDTO struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	OrderCount  int64           `json:"order_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastOrderAt *time.Time      `json:"last_order_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DetailDTO adds the customer's recent orders to the aggregate view.
type DetailDTO struct {
	CustomerDTO
	RecentOrders []orders.OrderDTO `json:"recent_orders"`
}

// ListResult is one page of customers plus the cursor for the next one.
type ListResult struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service exposes the admin customer directory.
type Service interface {
	ListCustomers(ctx context.Context, search string, params pagination.Params) (*ListResult, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*DetailDTO, error)
}

type orderLister interface {
	ListOrders(ctx context.Context, filter orders.ListFilter) (*orders.ListResult, error)
}

type service struct {
	repo   *Repository
	orders orderLister
}

// NewService constructs a customers service instance.
func NewService(repo *Repository, orders orderLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &service{repo: repo, orders: orders}, nil
}

func (s *service) ListCustomers(ctx context.Context, search string, params pagination.Params) (*ListResult, error) {
	rows, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, fromRow(&rows[i]))
	}
	return &ListResult{Customers: dtos, NextCursor: nextCursor}, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*DetailDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}

	recent, err := s.orders.ListOrders(ctx, orders.ListFilter{UserID: &row.ID, Limit: 10})
	if err != nil {
		return nil, err
	}

	return &DetailDTO{
		CustomerDTO:  fromRow(row),
		RecentOrders: recent.Orders,
	}, nil
}

func fromRow(row *CustomerRow) CustomerDTO {
	return CustomerDTO{
		ID:          row.ID,
		Username:    row.Username,
		Email:       row.Email,
		OrderCount:  row.OrderCount,
		TotalSpent:  row.TotalSpent,
		LastOrderAt: row.LastOrderAt,
		CreatedAt:   row.CreatedAt,
	}
}
