package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/slug"
)

// Service exposes category management operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	GetCategoryBySlug(ctx context.Context, slugValue string) (*CategoryDTO, error)
	ListCategories(ctx context.Context, withCounts bool) ([]CategoryDTO, error)
}

type cacheInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

type service struct {
	repo  *Repository
	cache cacheInvalidator
}

// NewService constructs a category service instance.
func NewService(repo *Repository, cache cacheInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// CreateCategory inserts the category, deriving the slug from the name when absent.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	slugValue := strings.TrimSpace(input.Slug)
	if slugValue == "" {
		slugValue = slug.Make(input.Name)
	}
	if slugValue == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug could not be derived from name")
	}

	category := &models.Category{
		Name:          strings.TrimSpace(input.Name),
		NameAr:        strings.TrimSpace(input.NameAr),
		Slug:          slugValue,
		Description:   input.Description,
		DescriptionAr: input.DescriptionAr,
		ImageURL:      input.ImageURL,
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}

	s.invalidate(ctx)
	return FromModel(created), nil
}

// UpdateCategory applies the provided partial update.
func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.NameAr != nil {
		category.NameAr = strings.TrimSpace(*input.NameAr)
	}
	if input.Slug != nil {
		value := strings.TrimSpace(*input.Slug)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty")
		}
		category.Slug = value
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.DescriptionAr != nil {
		category.DescriptionAr = input.DescriptionAr
	}
	if input.ImageURL != nil {
		category.ImageURL = input.ImageURL
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}

	s.invalidate(ctx)
	return FromModel(updated), nil
}

// DeleteCategory removes an empty category. Categories still referenced by
// products are rejected so storefront listings never dangle.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category still has products")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}

	s.invalidate(ctx)
	return nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(category), nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slugValue string) (*CategoryDTO, error) {
	category, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slugValue))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return FromModel(category), nil
}

// ListCategories returns all categories, optionally with product counts for
// the admin grid.
func (s *service) ListCategories(ctx context.Context, withCounts bool) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}

	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		if withCounts {
			count, err := s.repo.CountProducts(ctx, rows[i].ID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
			}
			dto.ProductCount = count
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return category, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Cache invalidation is best effort; reads fall back to the DB on miss.
	_ = s.cache.InvalidateCatalog(ctx)
}
