package orders

import (
	"regexp"
	"testing"
	"time"
)

func TestNewOrderNumberFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 23, 59, 0, 0, time.FixedZone("AST", 3*3600))
	number, err := NewOrderNumber(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The date portion is always UTC.
	pattern := regexp.MustCompile(`^ORD-20260828-[23456789ABCDEFGHJKLMNPQRSTUVWXYZ]{6}$`)
	if !pattern.MatchString(number) {
		t.Fatalf("unexpected order number format: %q", number)
	}
}

func TestNewOrderNumberVaries(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	now := time.Now()
	for i := 0; i < 50; i++ {
		number, err := NewOrderNumber(now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[number] {
			t.Fatalf("duplicate order number after %d draws: %q", i, number)
		}
		seen[number] = true
	}
}
