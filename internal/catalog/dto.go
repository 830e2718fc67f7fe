package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/daajin/poultrystore-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a category.
type CategoryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	NameAr        string    `json:"name_ar"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	DescriptionAr *string   `json:"description_ar,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	ProductCount  int64     `json:"product_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name          string  `json:"name" validate:"required,max=120"`
	NameAr        string  `json:"name_ar" validate:"max=120"`
	Slug          string  `json:"slug" validate:"max=140"`
	Description   *string `json:"description"`
	DescriptionAr *string `json:"description_ar"`
	ImageURL      *string `json:"image_url" validate:"omitempty,url"`
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name          *string `json:"name" validate:"omitempty,max=120"`
	NameAr        *string `json:"name_ar" validate:"omitempty,max=120"`
	Slug          *string `json:"slug" validate:"omitempty,max=140"`
	Description   *string `json:"description"`
	DescriptionAr *string `json:"description_ar"`
	ImageURL      *string `json:"image_url" validate:"omitempty,url"`
}

// FromModel converts a category row into its DTO.
func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		NameAr:        c.NameAr,
		Slug:          c.Slug,
		Description:   c.Description,
		DescriptionAr: c.DescriptionAr,
		ImageURL:      c.ImageURL,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
