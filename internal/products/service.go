package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
	"github.com/daajin/poultrystore-backend/pkg/slug"
)

const maxSlugAttempts = 50

// Service exposes product management and storefront catalog reads.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) (*ListResult, error)
	DuplicateProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	SetInStock(ctx context.Context, id uuid.UUID, inStock bool) error

	StorefrontList(ctx context.Context, filter ListFilter) (*ListResult, error)
	StorefrontGetBySlug(ctx context.Context, slugValue string) (*ProductDTO, error)
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo       *Repository
	categories categoryLoader
	cache      *Cache
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categories categoryLoader, cache *Cache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categories: categories, cache: cache}, nil
}

// CreateProduct inserts the product, deriving a unique slug when none is given.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	badge, err := parseBadge(input.Badge)
	if err != nil {
		return nil, err
	}

	slugValue := strings.TrimSpace(input.Slug)
	explicitSlug := slugValue != ""
	if !explicitSlug {
		slugValue, err = s.deriveSlug(ctx, input.Name)
		if err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		NameAr:        strings.TrimSpace(input.NameAr),
		Description:   input.Description,
		DescriptionAr: input.DescriptionAr,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		ImageURL:      input.ImageURL,
		CategoryID:    input.CategoryID,
		InStock:       boolOr(input.InStock, true),
		Published:     boolOr(input.Published, false),
		Featured:      boolOr(input.Featured, false),
		Badge:         badge,
		Slug:          slugValue,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	s.invalidate(ctx)
	return FromModel(created), nil
}

// UpdateProduct applies the provided partial update.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.NameAr != nil {
		product.NameAr = strings.TrimSpace(*input.NameAr)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.DescriptionAr != nil {
		product.DescriptionAr = input.DescriptionAr
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = input.OriginalPrice
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.Published != nil {
		product.Published = *input.Published
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if input.Badge != nil {
		badge, err := parseBadge(input.Badge)
		if err != nil {
			return nil, err
		}
		product.Badge = badge
	}
	if input.Slug != nil {
		value := strings.TrimSpace(*input.Slug)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty")
		}
		product.Slug = value
	}

	// Save replaces associations too; detach them so a stale preload never
	// writes back over inventory.
	product.Category = nil
	product.Inventory = nil

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	s.invalidate(ctx)
	return FromModel(updated), nil
}

// DeleteProduct removes the product. Ledger rows cascade, order item
// snapshots keep their copied name and price.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// ListProducts serves the admin grid: drafts included, no cache.
func (s *service) ListProducts(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.IncludeDrafts = true
	return s.list(ctx, filter)
}

// DuplicateProduct clones the product as an unpublished draft under a
// "copy-of-" slug, suffixed numerically when taken.
func (s *service) DuplicateProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	source, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	copySlug, err := s.uniqueSlug(ctx, slug.Copy(source.Slug))
	if err != nil {
		return nil, err
	}

	clone := &models.Product{
		Name:          source.Name,
		NameAr:        source.NameAr,
		Description:   source.Description,
		DescriptionAr: source.DescriptionAr,
		Price:         source.Price,
		OriginalPrice: source.OriginalPrice,
		ImageURL:      source.ImageURL,
		CategoryID:    source.CategoryID,
		InStock:       source.InStock,
		Published:     false,
		Featured:      source.Featured,
		Badge:         source.Badge,
		Slug:          copySlug,
	}

	created, err := s.repo.Create(ctx, clone)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "duplicate slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "duplicate product")
	}

	s.invalidate(ctx)
	return FromModel(created), nil
}

// SetPublished flips only the published flag.
func (s *service) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	return s.setFlag(ctx, id, "published", published)
}

// SetFeatured flips only the featured flag.
func (s *service) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return s.setFlag(ctx, id, "featured", featured)
}

// SetInStock flips only the in_stock flag.
func (s *service) SetInStock(ctx context.Context, id uuid.UUID, inStock bool) error {
	return s.setFlag(ctx, id, "in_stock", inStock)
}

// StorefrontList serves customer-facing catalog pages through the read cache.
func (s *service) StorefrontList(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.IncludeDrafts = false
	filter.Published = nil

	if cached, ok := s.cache.GetList(ctx, filter); ok {
		return cached, nil
	}

	result, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, filter, result)
	return result, nil
}

// StorefrontGetBySlug returns a published product; drafts read as not found.
func (s *service) StorefrontGetBySlug(ctx context.Context, slugValue string) (*ProductDTO, error) {
	slugValue = strings.TrimSpace(slugValue)

	if cached, ok := s.cache.GetProduct(ctx, slugValue); ok {
		return cached, nil
	}

	product, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !product.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	dto := FromModel(product)
	s.cache.SetProduct(ctx, slugValue, dto)
	return dto, nil
}

func (s *service) list(ctx context.Context, filter ListFilter) (*ListResult, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{
		Products:   FromModels(rows),
		NextCursor: nextCursor,
	}, nil
}

func (s *service) setFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	if err := s.repo.UpdateFlag(ctx, id, column, value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product flag")
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return product, nil
}

func (s *service) ensureCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return nil
}

// deriveSlug builds the slug from the English name, falling back to a random
// identifier when the name has no Latin characters (Arabic-only products).
func (s *service) deriveSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "product-" + uuid.NewString()[:8]
	}
	return s.uniqueSlug(ctx, base)
}

func (s *service) uniqueSlug(ctx context.Context, base string) (string, error) {
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not find a free slug")
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateCatalog(ctx)
}

func parseBadge(value *string) (*enums.ProductBadge, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	badge, err := enums.ParseProductBadge(*value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid badge")
	}
	return &badge, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
