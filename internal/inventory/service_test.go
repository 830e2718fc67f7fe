package inventory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/daajin/poultrystore-backend/internal/products"
	"github.com/daajin/poultrystore-backend/pkg/config"
	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

func setupInventoryTest(t *testing.T) (Service, *db.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.InventoryLevel{},
		&models.InventoryTransaction{},
	))

	svc, err := NewService(NewRepository(client.DB()), products.NewRepository(client.DB()), client)
	require.NoError(t, err)
	return svc, client
}

func seedInventoryProduct(t *testing.T, client *db.Client, name string) uuid.UUID {
	t.Helper()

	product := &models.Product{
		Name:      name,
		NameAr:    "منتج",
		Price:     decimal.NewFromInt(100),
		Published: true,
		InStock:   true,
		Slug:      "p-" + uuid.NewString()[:8],
	}
	require.NoError(t, client.DB().Create(product).Error)
	return product.ID
}

func TestRecordTransactionAddAndRemove(t *testing.T) {
	svc, client := setupInventoryTest(t)
	productID := seedInventoryProduct(t, client, "Incubator")
	actorID := uuid.New()

	entry, err := svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID,
		Type:      "add",
		Quantity:  10,
	})
	require.NoError(t, err)
	require.Equal(t, 10, entry.QuantityDelta)
	require.Equal(t, enums.InventoryTransactionTypeAdd, entry.Type)
	require.Equal(t, actorID, entry.ActorUserID)

	// Remove entries are stored with a negative delta regardless of sign.
	entry, err = svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID,
		Type:      "remove",
		Quantity:  4,
	})
	require.NoError(t, err)
	require.Equal(t, -4, entry.QuantityDelta)

	level, err := svc.GetLevel(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, 6, level.Quantity)
}

func TestRecordTransactionAdjustmentKeepsSign(t *testing.T) {
	svc, client := setupInventoryTest(t)
	productID := seedInventoryProduct(t, client, "Drinker")
	actorID := uuid.New()

	_, err := svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID, Type: "add", Quantity: 10,
	})
	require.NoError(t, err)

	entry, err := svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID, Type: "adjustment", Quantity: -3,
	})
	require.NoError(t, err)
	require.Equal(t, -3, entry.QuantityDelta)

	entry, err = svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID, Type: "adjustment", Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, 2, entry.QuantityDelta)

	level, err := svc.GetLevel(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, 9, level.Quantity)
}

func TestRecordTransactionValidation(t *testing.T) {
	svc, client := setupInventoryTest(t)
	productID := seedInventoryProduct(t, client, "Feeder")
	actorID := uuid.New()

	cases := []struct {
		name  string
		input RecordTransactionInput
	}{
		{name: "unknown type", input: RecordTransactionInput{ProductID: productID, Type: "restock", Quantity: 1}},
		{name: "zero quantity", input: RecordTransactionInput{ProductID: productID, Type: "add", Quantity: 0}},
		{name: "negative add", input: RecordTransactionInput{ProductID: productID, Type: "add", Quantity: -5}},
		{name: "negative remove", input: RecordTransactionInput{ProductID: productID, Type: "remove", Quantity: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordTransaction(context.Background(), actorID, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
			ProductID: uuid.New(), Type: "add", Quantity: 1,
		})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	})
}

func TestRemoveBelowZeroIsRejected(t *testing.T) {
	svc, client := setupInventoryTest(t)
	productID := seedInventoryProduct(t, client, "Egg Tray")
	actorID := uuid.New()

	_, err := svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID, Type: "add", Quantity: 3,
	})
	require.NoError(t, err)

	_, err = svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID, Type: "remove", Quantity: 5,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// The rejected movement must leave no ledger entry and no level change.
	level, err := svc.GetLevel(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, 3, level.Quantity)

	page, err := svc.ListTransactions(context.Background(), productID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
}

func TestGetLevelWithoutLedgerReadsZero(t *testing.T) {
	svc, client := setupInventoryTest(t)
	productID := seedInventoryProduct(t, client, "Heat Lamp")

	level, err := svc.GetLevel(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, 0, level.Quantity)
	require.Equal(t, "Heat Lamp", level.ProductName)
}

func TestSetThresholdsAndLowStock(t *testing.T) {
	svc, client := setupInventoryTest(t)
	productID := seedInventoryProduct(t, client, "Ventilation Fan")
	actorID := uuid.New()

	_, err := svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
		ProductID: productID, Type: "add", Quantity: 5,
	})
	require.NoError(t, err)

	level, err := svc.SetThresholds(context.Background(), productID, SetThresholdsInput{MinThreshold: 10, MaxThreshold: 100})
	require.NoError(t, err)
	require.Equal(t, 10, level.MinThreshold)
	require.Equal(t, 100, level.MaxThreshold)
	require.True(t, level.LowStock, "5 on hand with min 10 is low stock")

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, productID, low[0].ProductID)

	_, err = svc.SetThresholds(context.Background(), productID, SetThresholdsInput{MinThreshold: 50, MaxThreshold: 20})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListTransactionsPaginates(t *testing.T) {
	svc, client := setupInventoryTest(t)
	productID := seedInventoryProduct(t, client, "Cage Panel")
	actorID := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := svc.RecordTransaction(context.Background(), actorID, RecordTransactionInput{
			ProductID: productID, Type: "add", Quantity: i + 1,
		})
		require.NoError(t, err)
	}

	first, err := svc.ListTransactions(context.Background(), productID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first.Transactions, 3)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ListTransactions(context.Background(), productID, pagination.Params{Limit: 3, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Transactions, 2)
	require.Empty(t, second.NextCursor)
}
