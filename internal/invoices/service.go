package invoices

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/internal/orders"
	"github.com/daajin/poultrystore-backend/pkg/config"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

// Service renders and stores order invoices. The stored HTML is a snapshot:
// once generated it never changes, even if seller config or the catalog does.
type Service interface {
	// Render returns the invoice HTML without persisting anything. A stored
	// snapshot always wins over a fresh render.
	Render(ctx context.Context, orderID uuid.UUID) (string, error)
	GetOrCreate(ctx context.Context, orderID uuid.UUID) (*InvoiceDTO, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*InvoiceDTO, error)
}

// InvoiceDTO is the transport shape for an invoice.
type InvoiceDTO struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}

type orderLoader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error)
}

type service struct {
	repo   *Repository
	orders orderLoader
	cfg    config.InvoiceConfig
}

// NewService constructs an invoice service instance.
func NewService(repo *Repository, orders orderLoader, cfg config.InvoiceConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &service{repo: repo, orders: orders, cfg: cfg}, nil
}

func (s *service) Render(ctx context.Context, orderID uuid.UUID) (string, error) {
	existing, err := s.repo.FindByOrder(ctx, orderID)
	if err == nil {
		return existing.HTML, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup invoice")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	html, err := s.render(order)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}
	return html, nil
}

// GetOrCreate returns the stored invoice, rendering and saving it on first
// request.
func (s *service) GetOrCreate(ctx context.Context, orderID uuid.UUID) (*InvoiceDTO, error) {
	existing, err := s.repo.FindByOrder(ctx, orderID)
	if err == nil {
		return fromModel(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup invoice")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	html, err := s.render(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}

	created, err := s.repo.Create(ctx, &models.Invoice{
		OrderID: orderID,
		HTML:    html,
	})
	if err != nil {
		// A concurrent request may have stored it first; serve that copy.
		if stored, lookupErr := s.repo.FindByOrder(ctx, orderID); lookupErr == nil {
			return fromModel(stored), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save invoice")
	}
	return fromModel(created), nil
}

func (s *service) GetByOrder(ctx context.Context, orderID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup invoice")
	}
	return fromModel(invoice), nil
}

type invoiceItemView struct {
	Name      string
	NameAr    string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

type invoiceView struct {
	SellerName      string
	SellerNameAr    string
	SellerVATNo     string
	OrderNumber     string
	IssuedAt        string
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	Items           []invoiceItemView
	NetAmount       string
	VATAmount       string
	TotalAmount     string
	VATPercent      string
}

// render builds the HTML from the order snapshot. Prices are VAT-inclusive,
// so the net and VAT lines are derived from the stored total.
func (s *service) render(order *orders.OrderDTO) (string, error) {
	vatRate := decimal.NewFromInt(int64(s.cfg.VATPercent)).Div(decimal.NewFromInt(100))
	divisor := decimal.NewFromInt(1).Add(vatRate)
	net := order.TotalAmount.Div(divisor).Round(2)
	vat := order.TotalAmount.Sub(net)

	view := invoiceView{
		SellerName:   s.cfg.SellerName,
		SellerNameAr: s.cfg.SellerNameAr,
		SellerVATNo:  s.cfg.SellerVATNo,
		OrderNumber:  order.OrderNumber,
		IssuedAt:     order.CreatedAt.UTC().Format("2006-01-02"),
		CustomerName: order.CustomerName,
		NetAmount:    net.StringFixed(2),
		VATAmount:    vat.StringFixed(2),
		TotalAmount:  order.TotalAmount.StringFixed(2),
		VATPercent:   fmt.Sprintf("%d", s.cfg.VATPercent),
	}
	if order.CustomerPhone != nil {
		view.CustomerPhone = *order.CustomerPhone
	}
	if order.ShippingAddress != nil {
		view.ShippingAddress = *order.ShippingAddress
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, invoiceItemView{
			Name:      item.Name,
			NameAr:    item.NameAr,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal.StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fromModel(m *models.Invoice) *InvoiceDTO {
	return &InvoiceDTO{
		ID:        m.ID,
		OrderID:   m.OrderID,
		HTML:      m.HTML,
		CreatedAt: m.CreatedAt,
	}
}
