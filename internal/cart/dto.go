package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/daajin/poultrystore-backend/internal/products"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
)

// AddItemInput is the payload for POST /cart/items. Quantity increments any
// existing row for the same product.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// SetQuantityInput is the payload for PUT /cart/items/{productID}. Zero or
// negative quantities remove the row.
type SetQuantityInput struct {
	Quantity int `json:"quantity" validate:"required"`
}

// MergeInput carries a guest cart to be folded into the user's server cart.
type MergeInput struct {
	Items []MergeItem `json:"items" validate:"required,dive"`
}

// MergeItem is one guest-cart line.
type MergeItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// ItemDTO is one cart line with its product snapshot and line subtotal.
type ItemDTO struct {
	ID        uuid.UUID            `json:"id"`
	ProductID uuid.UUID            `json:"product_id"`
	Product   *products.ProductDTO `json:"product,omitempty"`
	Quantity  int                  `json:"quantity"`
	Subtotal  decimal.Decimal      `json:"subtotal"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// CartDTO is the full cart response.
type CartDTO struct {
	Items     []ItemDTO       `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

func itemFromModel(m *models.CartItem) ItemDTO {
	dto := ItemDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		Product:   products.FromModel(m.Product),
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Product != nil {
		dto.Subtotal = m.Product.Price.Mul(decimal.NewFromInt(int64(m.Quantity)))
	}
	return dto
}

func cartFromModels(rows []models.CartItem) *CartDTO {
	cart := &CartDTO{
		Items: make([]ItemDTO, 0, len(rows)),
		Total: decimal.Zero,
	}
	for i := range rows {
		item := itemFromModel(&rows[i])
		cart.Items = append(cart.Items, item)
		cart.ItemCount += item.Quantity
		cart.Total = cart.Total.Add(item.Subtotal)
	}
	return cart
}
