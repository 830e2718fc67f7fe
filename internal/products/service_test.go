package products

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/daajin/poultrystore-backend/internal/catalog"
	"github.com/daajin/poultrystore-backend/pkg/config"
	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

func setupProductTest(t *testing.T) (Service, *db.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.InventoryLevel{},
	))

	svc, err := NewService(NewRepository(client.DB()), catalog.NewRepository(client.DB()), nil)
	require.NoError(t, err)
	return svc, client
}

func TestCreateProductDerivesSlug(t *testing.T) {
	svc, _ := setupProductTest(t)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:   "Automatic Chicken Feeder",
		NameAr: "معلفة دجاج أوتوماتيكية",
		Price:  decimal.NewFromFloat(120.50),
	})
	require.NoError(t, err)
	require.Equal(t, "automatic-chicken-feeder", product.Slug)
	require.False(t, product.Published, "new products start as drafts")
	require.True(t, product.InStock)
}

func TestCreateProductArabicNameFallsBackToIDSlug(t *testing.T) {
	svc, _ := setupProductTest(t)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:   "حاضنة بيض",
		NameAr: "حاضنة بيض",
		Price:  decimal.NewFromInt(900),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(product.Slug, "product-"), "got %q", product.Slug)
}

func TestCreateProductNameCollisionGetsSuffix(t *testing.T) {
	svc, _ := setupProductTest(t)

	first, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Water Tank", NameAr: "خزان", Price: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	require.Equal(t, "water-tank", first.Slug)

	second, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Water Tank", NameAr: "خزان", Price: decimal.NewFromInt(85),
	})
	require.NoError(t, err)
	require.Equal(t, "water-tank-2", second.Slug)
}

func TestCreateProductRejectsNegativePriceAndUnknownCategory(t *testing.T) {
	svc, _ := setupProductTest(t)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Feeder", NameAr: "معلفة", Price: decimal.NewFromInt(-1),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	missing := uuid.New()
	_, err = svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Feeder", NameAr: "معلفة", Price: decimal.NewFromInt(10), CategoryID: &missing,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDuplicateProductCreatesDraftCopy(t *testing.T) {
	svc, _ := setupProductTest(t)

	published := true
	source, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:      "Incubator 500",
		NameAr:    "حاضنة 500",
		Price:     decimal.NewFromInt(1500),
		Published: &published,
	})
	require.NoError(t, err)

	copy1, err := svc.DuplicateProduct(context.Background(), source.ID)
	require.NoError(t, err)
	require.Equal(t, "copy-of-incubator-500", copy1.Slug)
	require.False(t, copy1.Published, "duplicates always start unpublished")
	require.Equal(t, source.Name, copy1.Name)
	require.True(t, source.Price.Equal(copy1.Price))
	require.NotEqual(t, source.ID, copy1.ID)

	// Duplicating again takes the next numeric suffix.
	copy2, err := svc.DuplicateProduct(context.Background(), source.ID)
	require.NoError(t, err)
	require.Equal(t, "copy-of-incubator-500-2", copy2.Slug)

	copy3, err := svc.DuplicateProduct(context.Background(), source.ID)
	require.NoError(t, err)
	require.Equal(t, "copy-of-incubator-500-3", copy3.Slug)
}

func TestSetPublishedTouchesOnlyTheFlag(t *testing.T) {
	svc, client := setupProductTest(t)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Brooder", NameAr: "حاضنة كتاكيت", Price: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	// Drift the row behind the service's back; the toggle must not undo it.
	require.NoError(t, client.DB().
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("name", "Brooder XL").Error)

	require.NoError(t, svc.SetPublished(context.Background(), product.ID, true))

	reloaded, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Published)
	require.Equal(t, "Brooder XL", reloaded.Name)
}

func TestSetFlagUnknownProduct(t *testing.T) {
	svc, _ := setupProductTest(t)

	err := svc.SetPublished(context.Background(), uuid.New(), true)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestStorefrontHidesDrafts(t *testing.T) {
	svc, _ := setupProductTest(t)

	published := true
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Visible Feeder", NameAr: "معلفة", Price: decimal.NewFromInt(10), Published: &published,
	})
	require.NoError(t, err)
	draft, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Draft Feeder", NameAr: "معلفة", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	listed, err := svc.StorefrontList(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed.Products, 1)
	require.Equal(t, "Visible Feeder", listed.Products[0].Name)

	// Admin listing still shows both.
	all, err := svc.ListProducts(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, all.Products, 2)

	_, err = svc.StorefrontGetBySlug(context.Background(), draft.Slug)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestStorefrontFiltersByCategorySlug(t *testing.T) {
	svc, client := setupProductTest(t)

	category := &models.Category{Name: "Feeders", NameAr: "معالف", Slug: "feeders"}
	require.NoError(t, client.DB().Create(category).Error)

	published := true
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Chain Feeder", NameAr: "معلفة", Price: decimal.NewFromInt(10),
		CategoryID: &category.ID, Published: &published,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Loose Drinker", NameAr: "مشربة", Price: decimal.NewFromInt(10), Published: &published,
	})
	require.NoError(t, err)

	result, err := svc.StorefrontList(context.Background(), ListFilter{CategorySlug: "feeders"})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	require.Equal(t, "Chain Feeder", result.Products[0].Name)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := setupProductTest(t)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Egg Washer", NameAr: "غسالة بيض", Price: decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(450)
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)
	require.True(t, newPrice.Equal(updated.Price))
	require.Equal(t, "Egg Washer", updated.Name, "untouched fields survive partial updates")
	require.Equal(t, product.Slug, updated.Slug)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := setupProductTest(t)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name: "Old Cage", NameAr: "قفص", Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))

	_, err = svc.GetProduct(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.DeleteProduct(context.Background(), product.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
