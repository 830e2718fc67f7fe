package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/daajin/poultrystore-backend/internal/orders"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

type stubOrderStats struct {
	total   int64
	pending int64
	revenue decimal.Decimal
	err     error
}

func (s stubOrderStats) Count(_ context.Context, status *string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if status != nil && *status == "pending" {
		return s.pending, nil
	}
	return s.total, nil
}

func (s stubOrderStats) SumRevenue(context.Context) (decimal.Decimal, error) {
	return s.revenue, s.err
}

type stubProductStats struct {
	total, published int64
}

func (s stubProductStats) Count(context.Context) (int64, error)          { return s.total, nil }
func (s stubProductStats) CountPublished(context.Context) (int64, error) { return s.published, nil }

type stubCustomerStats struct{ total int64 }

func (s stubCustomerStats) CountCustomers(context.Context) (int64, error) { return s.total, nil }

type stubStockStats struct{ low int64 }

func (s stubStockStats) CountLowStock(context.Context) (int64, error) { return s.low, nil }

type stubRecentOrders struct{ orders []orders.OrderDTO }

func (s stubRecentOrders) ListOrders(_ context.Context, filter orders.ListFilter) (*orders.ListResult, error) {
	return &orders.ListResult{Orders: s.orders}, nil
}

func TestGetSummary(t *testing.T) {
	svc, err := NewService(ServiceParams{
		OrderRepo:    stubOrderStats{total: 40, pending: 7, revenue: decimal.RequireFromString("12345.50")},
		ProductRepo:  stubProductStats{total: 25, published: 18},
		CustomerRepo: stubCustomerStats{total: 12},
		StockRepo:    stubStockStats{low: 3},
		Orders:       stubRecentOrders{orders: []orders.OrderDTO{{OrderNumber: "ORD-20260828-ABCDEF"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalOrders != 40 || summary.PendingOrders != 7 {
		t.Fatalf("unexpected order counts: %+v", summary)
	}
	if !summary.Revenue.Equal(decimal.RequireFromString("12345.50")) {
		t.Fatalf("unexpected revenue: %s", summary.Revenue)
	}
	if summary.TotalProducts != 25 || summary.PublishedProducts != 18 {
		t.Fatalf("unexpected product counts: %+v", summary)
	}
	if summary.TotalCustomers != 12 || summary.LowStockProducts != 3 {
		t.Fatalf("unexpected customer/stock counts: %+v", summary)
	}
	if len(summary.RecentOrders) != 1 || summary.RecentOrders[0].OrderNumber != "ORD-20260828-ABCDEF" {
		t.Fatalf("unexpected recent orders: %+v", summary.RecentOrders)
	}
}

func TestGetSummaryPropagatesRepoFailure(t *testing.T) {
	svc, err := NewService(ServiceParams{
		OrderRepo:    stubOrderStats{err: errors.New("db down")},
		ProductRepo:  stubProductStats{},
		CustomerRepo: stubCustomerStats{},
		StockRepo:    stubStockStats{},
		Orders:       stubRecentOrders{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.GetSummary(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNewServiceRequiresAllRepos(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error for missing repositories")
	}
}
