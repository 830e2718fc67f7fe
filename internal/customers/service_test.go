package customers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/daajin/poultrystore-backend/internal/orders"
	"github.com/daajin/poultrystore-backend/pkg/config"
	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

type stubOrderLister struct {
	byUser map[uuid.UUID][]orders.OrderDTO
}

func (s *stubOrderLister) ListOrders(_ context.Context, filter orders.ListFilter) (*orders.ListResult, error) {
	result := &orders.ListResult{}
	if filter.UserID != nil {
		result.Orders = s.byUser[*filter.UserID]
	}
	return result, nil
}

func setupCustomerTest(t *testing.T) (Service, *db.Client, *stubOrderLister) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))

	lister := &stubOrderLister{byUser: map[uuid.UUID][]orders.OrderDTO{}}
	svc, err := NewService(NewRepository(client.DB()), lister)
	require.NoError(t, err)
	return svc, client, lister
}

func seedCustomer(t *testing.T, client *db.Client, username string, role enums.UserRole) uuid.UUID {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, client.DB().Create(user).Error)
	return user.ID
}

func seedOrder(t *testing.T, client *db.Client, userID uuid.UUID, total int64, status enums.OrderStatus) {
	t.Helper()

	require.NoError(t, client.DB().Create(&models.Order{
		OrderNumber:  "ORD-TEST-" + uuid.NewString()[:8],
		UserID:       userID,
		Status:       status,
		TotalAmount:  decimal.NewFromInt(total),
		CustomerName: "Abdullah",
	}).Error)
}

func TestGetCustomerAggregates(t *testing.T) {
	svc, client, _ := setupCustomerTest(t)
	customerID := seedCustomer(t, client, "abdullah", enums.UserRoleUser)

	seedOrder(t, client, customerID, 200, enums.OrderStatusDelivered)
	seedOrder(t, client, customerID, 150, enums.OrderStatusPending)
	seedOrder(t, client, customerID, 999, enums.OrderStatusCancelled)

	detail, err := svc.GetCustomer(context.Background(), customerID)
	require.NoError(t, err)
	require.Equal(t, "abdullah", detail.Username)

	// Cancelled orders count toward order history but not toward spend.
	require.EqualValues(t, 3, detail.OrderCount)
	require.True(t, detail.TotalSpent.Equal(decimal.NewFromInt(350)), "got %s", detail.TotalSpent)
	require.NotNil(t, detail.LastOrderAt)
	require.WithinDuration(t, time.Now(), *detail.LastOrderAt, time.Minute)
}

func TestGetCustomerWithoutOrders(t *testing.T) {
	svc, client, _ := setupCustomerTest(t)
	customerID := seedCustomer(t, client, "newcomer", enums.UserRoleUser)

	detail, err := svc.GetCustomer(context.Background(), customerID)
	require.NoError(t, err)
	require.Zero(t, detail.OrderCount)
	require.True(t, detail.TotalSpent.IsZero())
	require.Nil(t, detail.LastOrderAt)
}

func TestGetCustomerExcludesAdmins(t *testing.T) {
	svc, client, _ := setupCustomerTest(t)
	adminID := seedCustomer(t, client, "admin", enums.UserRoleAdmin)

	_, err := svc.GetCustomer(context.Background(), adminID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListCustomersSearch(t *testing.T) {
	svc, client, _ := setupCustomerTest(t)
	seedCustomer(t, client, "abdullah", enums.UserRoleUser)
	seedCustomer(t, client, "fatimah", enums.UserRoleUser)
	seedCustomer(t, client, "admin", enums.UserRoleAdmin)

	all, err := svc.ListCustomers(context.Background(), "", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, all.Customers, 2, "admin accounts stay out of the directory")

	matched, err := svc.ListCustomers(context.Background(), "FATI", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, matched.Customers, 1)
	require.Equal(t, "fatimah", matched.Customers[0].Username)
}

func TestGetCustomerIncludesRecentOrders(t *testing.T) {
	svc, client, lister := setupCustomerTest(t)
	customerID := seedCustomer(t, client, "abdullah", enums.UserRoleUser)

	lister.byUser[customerID] = []orders.OrderDTO{
		{ID: uuid.New(), OrderNumber: "ORD-20260828-AAAAAA", UserID: customerID},
	}

	detail, err := svc.GetCustomer(context.Background(), customerID)
	require.NoError(t, err)
	require.Len(t, detail.RecentOrders, 1)
	require.Equal(t, "ORD-20260828-AAAAAA", detail.RecentOrders[0].OrderNumber)
}
