package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/enums"
)

// Product is the canonical catalog listing. Published distinguishes
// customer-visible rows from admin-only drafts.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	NameAr        string              `gorm:"column:name_ar;not null"`
	Description   *string             `gorm:"column:description"`
	DescriptionAr *string             `gorm:"column:description_ar"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal    `gorm:"column:original_price;type:numeric(12,2)"`
	ImageURL      *string             `gorm:"column:image_url"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	InStock       bool                `gorm:"column:in_stock;not null;default:true"`
	Published     bool                `gorm:"column:published;not null;default:false"`
	Featured      bool                `gorm:"column:featured;not null;default:false"`
	Badge         *enums.ProductBadge `gorm:"column:badge;type:text"`
	Slug          string              `gorm:"column:slug;not null;uniqueIndex"`
	Inventory     *InventoryLevel     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
