package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/daajin/poultrystore-backend/internal/orders"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

type stubOrderService struct {
	order      *orders.OrderDTO
	list       *orders.ListResult
	err        error
	lastFilter orders.ListFilter
	lastStatus orders.UpdateStatusInput
}

func (s *stubOrderService) Checkout(context.Context, uuid.UUID, orders.CheckoutInput) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) GetOrder(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) GetOwnOrder(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListOwnOrders(context.Context, uuid.UUID, pagination.Params) (*orders.ListResult, error) {
	return s.list, s.err
}

func (s *stubOrderService) ListOrders(_ context.Context, filter orders.ListFilter) (*orders.ListResult, error) {
	s.lastFilter = filter
	return s.list, s.err
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ uuid.UUID, input orders.UpdateStatusInput) (*orders.OrderDTO, error) {
	s.lastStatus = input
	return s.order, s.err
}

func (s *stubOrderService) UpdatePaymentStatus(context.Context, uuid.UUID, orders.UpdatePaymentStatusInput) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func TestAdminListOrdersFilters(t *testing.T) {
	stub := &stubOrderService{list: &orders.ListResult{}}
	handler := AdminListOrders(stub, nil)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders?status=shipped&user_id="+userID.String()+"&search=ORD", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.lastFilter.Status == nil || *stub.lastFilter.Status != enums.OrderStatusShipped {
		t.Fatalf("status filter not passed through: %+v", stub.lastFilter.Status)
	}
	if stub.lastFilter.UserID == nil || *stub.lastFilter.UserID != userID {
		t.Fatalf("user filter not passed through: %+v", stub.lastFilter.UserID)
	}
	if stub.lastFilter.Search != "ORD" {
		t.Fatalf("search filter not passed through: %q", stub.lastFilter.Search)
	}
}

func TestAdminListOrdersRejectsUnknownStatus(t *testing.T) {
	handler := AdminListOrders(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders?status=returned", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrderDetail(t *testing.T) {
	order := &orders.OrderDTO{ID: uuid.New(), OrderNumber: "ORD-20260828-ABCDEF"}
	handler := AdminOrderDetail(&stubOrderService{order: order}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/"+order.ID.String(), nil)
	req = withChiParam(req, "orderID", order.ID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data orders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != order.OrderNumber {
		t.Fatalf("unexpected order number: %q", envelope.Data.OrderNumber)
	}
}

func TestAdminOrderDetailBadID(t *testing.T) {
	handler := AdminOrderDetail(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/nope", nil)
	req = withChiParam(req, "orderID", "nope")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrderService{order: &orders.OrderDTO{ID: orderID, Status: enums.OrderStatusProcessing}}
	handler := AdminUpdateOrderStatus(stub, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"processing"}`))
	req = withChiParam(req, "orderID", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.lastStatus.Status != "processing" {
		t.Fatalf("unexpected status input: %+v", stub.lastStatus)
	}
}

func TestAdminUpdateOrderStatusIllegalTransition(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move from pending to delivered")}
	handler := AdminUpdateOrderStatus(stub, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"delivered"}`))
	req = withChiParam(req, "orderID", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
