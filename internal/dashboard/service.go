package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/daajin/poultrystore-backend/internal/orders"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

// Summary is the admin landing-page snapshot. Every figure is computed at
// request time from the underlying tables.
type Summary struct {
	TotalOrders       int64             `json:"total_orders"`
	PendingOrders     int64             `json:"pending_orders"`
	Revenue           decimal.Decimal   `json:"revenue"`
	TotalProducts     int64             `json:"total_products"`
	PublishedProducts int64             `json:"published_products"`
	TotalCustomers    int64             `json:"total_customers"`
	LowStockProducts  int64             `json:"low_stock_products"`
	RecentOrders      []orders.OrderDTO `json:"recent_orders"`
}

type orderStats interface {
	Count(ctx context.Context, status *string) (int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
}

type productStats interface {
	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
}

type customerStats interface {
	CountCustomers(ctx context.Context) (int64, error)
}

type stockStats interface {
	CountLowStock(ctx context.Context) (int64, error)
}

type orderLister interface {
	ListOrders(ctx context.Context, filter orders.ListFilter) (*orders.ListResult, error)
}

// Service assembles the dashboard summary.
type Service interface {
	GetSummary(ctx context.Context) (*Summary, error)
}

type service struct {
	orderRepo    orderStats
	productRepo  productStats
	customerRepo customerStats
	stockRepo    stockStats
	orders       orderLister
}

// ServiceParams bundles the repositories feeding the dashboard.
type ServiceParams struct {
	OrderRepo    orderStats
	ProductRepo  productStats
	CustomerRepo customerStats
	StockRepo    stockStats
	Orders       orderLister
}

// NewService constructs a dashboard service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil || params.ProductRepo == nil || params.CustomerRepo == nil || params.StockRepo == nil {
		return nil, fmt.Errorf("all dashboard repositories are required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service is required")
	}
	return &service{
		orderRepo:    params.OrderRepo,
		productRepo:  params.ProductRepo,
		customerRepo: params.CustomerRepo,
		stockRepo:    params.StockRepo,
		orders:       params.Orders,
	}, nil
}

func (s *service) GetSummary(ctx context.Context) (*Summary, error) {
	totalOrders, err := s.orderRepo.Count(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	pendingStatus := "pending"
	pendingOrders, err := s.orderRepo.Count(ctx, &pendingStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count pending orders")
	}
	revenue, err := s.orderRepo.SumRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}
	totalProducts, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	publishedProducts, err := s.productRepo.CountPublished(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count published products")
	}
	totalCustomers, err := s.customerRepo.CountCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count customers")
	}
	lowStock, err := s.stockRepo.CountLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count low stock")
	}
	recent, err := s.orders.ListOrders(ctx, orders.ListFilter{Limit: 10})
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalOrders:       totalOrders,
		PendingOrders:     pendingOrders,
		Revenue:           revenue,
		TotalProducts:     totalProducts,
		PublishedProducts: publishedProducts,
		TotalCustomers:    totalCustomers,
		LowStockProducts:  lowStock,
		RecentOrders:      recent.Orders,
	}, nil
}
