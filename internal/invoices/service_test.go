package invoices

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/daajin/poultrystore-backend/internal/orders"
	"github.com/daajin/poultrystore-backend/pkg/config"
	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

type stubOrders struct {
	orders map[uuid.UUID]*orders.OrderDTO
}

func (s *stubOrders) GetOrder(_ context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func setupInvoiceTest(t *testing.T) (Service, *stubOrders) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(&models.Invoice{}))

	stub := &stubOrders{orders: map[uuid.UUID]*orders.OrderDTO{}}
	svc, err := NewService(NewRepository(client.DB()), stub, config.InvoiceConfig{
		SellerName:   "Daajin Poultry Equipment",
		SellerNameAr: "دواجن لمعدات الدواجن",
		SellerVATNo:  "310000000000003",
		VATPercent:   15,
	})
	require.NoError(t, err)
	return svc, stub
}

func sampleOrder() *orders.OrderDTO {
	phone := "+966500000000"
	address := "Riyadh, Exit 18"
	return &orders.OrderDTO{
		ID:              uuid.New(),
		OrderNumber:     "ORD-20260828-ABCDEF",
		UserID:          uuid.New(),
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusUnpaid,
		TotalAmount:     decimal.NewFromInt(115),
		CustomerName:    "Abdullah",
		CustomerPhone:   &phone,
		ShippingAddress: &address,
		Items: []orders.ItemDTO{
			{
				Name:      "Automatic Feeder",
				NameAr:    "معلفة أوتوماتيكية",
				UnitPrice: decimal.NewFromFloat(57.50),
				Quantity:  2,
				Subtotal:  decimal.NewFromInt(115),
			},
		},
		CreatedAt: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}
}

func TestGetOrCreateRendersVATInclusiveAmounts(t *testing.T) {
	svc, stub := setupInvoiceTest(t)

	order := sampleOrder()
	stub.orders[order.ID] = order

	invoice, err := svc.GetOrCreate(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, invoice.OrderID)

	// 115.00 total at 15% inclusive VAT splits into 100.00 net + 15.00 VAT.
	require.Contains(t, invoice.HTML, "100.00")
	require.Contains(t, invoice.HTML, "15.00")
	require.Contains(t, invoice.HTML, "115.00")
	require.Contains(t, invoice.HTML, "ORD-20260828-ABCDEF")
	require.Contains(t, invoice.HTML, "Daajin Poultry Equipment")
	require.Contains(t, invoice.HTML, "310000000000003")
	require.Contains(t, invoice.HTML, "معلفة أوتوماتيكية")
	require.Contains(t, invoice.HTML, "Riyadh, Exit 18")
	require.Contains(t, invoice.HTML, "2026-08-28")
}

func TestGetOrCreateIsASnapshot(t *testing.T) {
	svc, stub := setupInvoiceTest(t)

	order := sampleOrder()
	stub.orders[order.ID] = order

	first, err := svc.GetOrCreate(context.Background(), order.ID)
	require.NoError(t, err)

	// The order changing afterwards must not change the stored invoice.
	order.CustomerName = "Someone Else"
	order.TotalAmount = decimal.NewFromInt(999)

	second, err := svc.GetOrCreate(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.HTML, second.HTML)
	require.NotContains(t, second.HTML, "Someone Else")
}

func TestRenderDoesNotPersist(t *testing.T) {
	svc, stub := setupInvoiceTest(t)

	order := sampleOrder()
	stub.orders[order.ID] = order

	html, err := svc.Render(context.Background(), order.ID)
	require.NoError(t, err)
	require.Contains(t, html, order.OrderNumber)

	_, err = svc.GetByOrder(context.Background(), order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRenderServesStoredSnapshot(t *testing.T) {
	svc, stub := setupInvoiceTest(t)

	order := sampleOrder()
	stub.orders[order.ID] = order

	saved, err := svc.GetOrCreate(context.Background(), order.ID)
	require.NoError(t, err)

	order.CustomerName = "Someone Else"

	html, err := svc.Render(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, saved.HTML, html)
}

func TestGetOrCreateUnknownOrder(t *testing.T) {
	svc, _ := setupInvoiceTest(t)

	_, err := svc.GetOrCreate(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetByOrderBeforeRender(t *testing.T) {
	svc, stub := setupInvoiceTest(t)

	order := sampleOrder()
	stub.orders[order.ID] = order

	_, err := svc.GetByOrder(context.Background(), order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	created, err := svc.GetOrCreate(context.Background(), order.ID)
	require.NoError(t, err)

	fetched, err := svc.GetByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
}
