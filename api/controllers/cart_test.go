package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/daajin/poultrystore-backend/api/middleware"
	cartsvc "github.com/daajin/poultrystore-backend/internal/cart"
	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

type stubCartService struct {
	cart      *cartsvc.CartDTO
	err       error
	lastInput cartsvc.AddItemInput
}

func (s *stubCartService) GetCart(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(_ context.Context, _ uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	s.lastInput = input
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(context.Context, uuid.UUID, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) ClearCart(context.Context, uuid.UUID) error {
	return s.err
}

func (s *stubCartService) Merge(context.Context, uuid.UUID, cartsvc.MergeInput) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartFetchSuccess(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.CartDTO{ItemCount: 2, Total: decimal.NewFromInt(250)}}
	handler := CartFetch(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected item count: %d", envelope.Data.ItemCount)
	}
}

func TestCartFetchMissingUserContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartFetchNilService(t *testing.T) {
	handler := CartFetch(nil, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartAddItemValidatesBody(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.CartDTO{}}
	handler := CartAddItem(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":0}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemPassesInputThrough(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.CartDTO{ItemCount: 1}}
	handler := CartAddItem(stub, nil)

	productID := uuid.New()
	body := `{"product_id":"` + productID.String() + `","quantity":3}`

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.lastInput.ProductID != productID || stub.lastInput.Quantity != 3 {
		t.Fatalf("unexpected input: %+v", stub.lastInput)
	}
}

func TestCartAddItemOutOfStock(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "product out of stock")}
	handler := CartAddItem(stub, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestCartRemoveItemBadProductID(t *testing.T) {
	handler := CartRemoveItem(&stubCartService{}, nil)

	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", "")
	req = withChiParam(req, "productID", "not-a-uuid")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartMergeSuccess(t *testing.T) {
	stub := &stubCartService{cart: &cartsvc.CartDTO{ItemCount: 5}}
	handler := CartMerge(stub, nil)

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":5}]}`

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/merge", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
