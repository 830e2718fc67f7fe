package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/daajin/poultrystore-backend/pkg/errors"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/?published=true", nil)
	value, err := ParseQueryBool(r, "published")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value == nil || !*value {
		t.Fatalf("expected true, got %v", value)
	}

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryBool(r, "published")
	if err != nil || value != nil {
		t.Fatalf("expected nil for absent parameter, got %v, %v", value, err)
	}

	r = httptest.NewRequest("GET", "/?published=yep", nil)
	_, err = ParseQueryBool(r, "published")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryUUID(t *testing.T) {
	id := uuid.New()
	r := httptest.NewRequest("GET", "/?category_id="+id.String(), nil)
	value, err := ParseQueryUUID(r, "category_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value == nil || *value != id {
		t.Fatalf("expected %s, got %v", id, value)
	}

	r = httptest.NewRequest("GET", "/?category_id=not-a-uuid", nil)
	_, err = ParseQueryUUID(r, "category_id")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=5&cursor=abc", nil)
	params, err := ParsePagination(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Limit != 5 || params.Cursor != "abc" {
		t.Fatalf("unexpected params: %+v", params)
	}

	r = httptest.NewRequest("GET", "/", nil)
	params, err = ParsePagination(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Limit != pagination.DefaultLimit {
		t.Fatalf("expected default limit, got %d", params.Limit)
	}

	for _, raw := range []string{"0", "-1", "9999", "abc"} {
		r = httptest.NewRequest("GET", "/?limit="+raw, nil)
		if _, err := ParsePagination(r); err == nil {
			t.Fatalf("expected error for limit=%s", raw)
		}
	}
}
