package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products; both display fields carry an Arabic counterpart.
type Category struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	NameAr        string    `gorm:"column:name_ar;not null"`
	Slug          string    `gorm:"column:slug;not null;uniqueIndex"`
	Description   *string   `gorm:"column:description"`
	DescriptionAr *string   `gorm:"column:description_ar"`
	ImageURL      *string   `gorm:"column:image_url"`
	Products      []Product `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
