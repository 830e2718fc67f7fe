package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
)

// CheckoutInput is the payload for placing an order from the current cart.
type CheckoutInput struct {
	CustomerName    string  `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   *string `json:"customer_phone" validate:"omitempty,max=30"`
	ShippingAddress *string `json:"shipping_address" validate:"omitempty,max=500"`
	Notes           *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateStatusInput moves the order along the fulfillment lifecycle.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// UpdatePaymentStatusInput flips the payment marker.
type UpdatePaymentStatusInput struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=unpaid paid refunded"`
}

// ListFilter narrows admin order listings.
type ListFilter struct {
	Status *enums.OrderStatus
	UserID *uuid.UUID
	Search string
	Limit  int
	Cursor string
}

// ItemDTO is one immutable order line snapshot.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	NameAr    string          `json:"name_ar"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the transport shape for an order.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   *string             `json:"customer_phone,omitempty"`
	ShippingAddress *string             `json:"shipping_address,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	Items           []ItemDTO           `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ListResult is one page of orders plus the cursor for the next one.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel converts an order row into its DTO.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			NameAr:    item.NameAr,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		TotalAmount:     o.TotalAmount,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
