package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/daajin/poultrystore-backend/internal/catalog"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
)

// ProductDTO is the transport shape for a catalog listing.
type ProductDTO struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	NameAr        string               `json:"name_ar"`
	Description   *string              `json:"description,omitempty"`
	DescriptionAr *string              `json:"description_ar,omitempty"`
	Price         decimal.Decimal      `json:"price"`
	OriginalPrice *decimal.Decimal     `json:"original_price,omitempty"`
	ImageURL      *string              `json:"image_url,omitempty"`
	CategoryID    *uuid.UUID           `json:"category_id,omitempty"`
	Category      *catalog.CategoryDTO `json:"category,omitempty"`
	InStock       bool                 `json:"in_stock"`
	Published     bool                 `json:"published"`
	Featured      bool                 `json:"featured"`
	Badge         *enums.ProductBadge  `json:"badge,omitempty"`
	Slug          string               `json:"slug"`
	StockQuantity *int                 `json:"stock_quantity,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string           `json:"name" validate:"required,max=200"`
	NameAr        string           `json:"name_ar" validate:"max=200"`
	Description   *string          `json:"description"`
	DescriptionAr *string          `json:"description_ar"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,url"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	InStock       *bool            `json:"in_stock"`
	Published     *bool            `json:"published"`
	Featured      *bool            `json:"featured"`
	Badge         *string          `json:"badge" validate:"omitempty,oneof=new sale bestseller"`
	Slug          string           `json:"slug" validate:"max=220"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	NameAr        *string          `json:"name_ar" validate:"omitempty,max=200"`
	Description   *string          `json:"description"`
	DescriptionAr *string          `json:"description_ar"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,url"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	InStock       *bool            `json:"in_stock"`
	Published     *bool            `json:"published"`
	Featured      *bool            `json:"featured"`
	Badge         *string          `json:"badge" validate:"omitempty,oneof=new sale bestseller"`
	Slug          *string          `json:"slug" validate:"omitempty,max=220"`
}

// ListFilter narrows admin and storefront product listings.
type ListFilter struct {
	CategoryID    *uuid.UUID
	CategorySlug  string
	Search        string
	Published     *bool
	Featured      *bool
	Limit         int
	Cursor        string
	IncludeDrafts bool
}

// ListResult is one page of products plus the cursor for the next one.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel converts a product row into its DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		NameAr:        p.NameAr,
		Description:   p.Description,
		DescriptionAr: p.DescriptionAr,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		ImageURL:      p.ImageURL,
		CategoryID:    p.CategoryID,
		Category:      catalog.FromModel(p.Category),
		InStock:       p.InStock,
		Published:     p.Published,
		Featured:      p.Featured,
		Badge:         p.Badge,
		Slug:          p.Slug,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Inventory != nil {
		qty := p.Inventory.Quantity
		dto.StockQuantity = &qty
	}
	return dto
}

// FromModels converts a slice of product rows.
func FromModels(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
