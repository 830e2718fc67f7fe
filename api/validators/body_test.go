package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
)

type decodeTarget struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"omitempty,email"`
	Qty   int    `json:"qty" validate:"omitempty,gt=0"`
}

func decodeErr(t *testing.T, body string) *pkgerrors.Error {
	t.Helper()

	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	var dest decodeTarget
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatalf("expected error for body %q", body)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	return typed
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Feeder","qty":3}`))
	var dest decodeTarget
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Name != "Feeder" || dest.Qty != 3 {
		t.Fatalf("unexpected decode result: %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	typed := decodeErr(t, `{"name":"Feeder","bogus":true}`)
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
}

func TestDecodeJSONBodyMalformedJSON(t *testing.T) {
	typed := decodeErr(t, `{"name":`)
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	typed := decodeErr(t, `{"email":"not-an-email","qty":-1}`)
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details map, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected message for name: %q", details["name"])
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected message for email: %q", details["email"])
	}
	if details["qty"] != "must be greater than 0" {
		t.Fatalf("unexpected message for qty: %q", details["qty"])
	}
}
