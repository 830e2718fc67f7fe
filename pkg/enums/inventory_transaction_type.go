package enums

import "fmt"

// InventoryTransactionType tags each ledger entry with how it was produced.
type InventoryTransactionType string

const (
	InventoryTransactionTypeAdd        InventoryTransactionType = "add"
	InventoryTransactionTypeRemove     InventoryTransactionType = "remove"
	InventoryTransactionTypeAdjustment InventoryTransactionType = "adjustment"
)

var validInventoryTransactionTypes = []InventoryTransactionType{
	InventoryTransactionTypeAdd,
	InventoryTransactionTypeRemove,
	InventoryTransactionTypeAdjustment,
}

// String implements fmt.Stringer.
func (t InventoryTransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InventoryTransactionType.
func (t InventoryTransactionType) IsValid() bool {
	for _, candidate := range validInventoryTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// NormalizeDelta applies the type's sign convention to the submitted quantity:
// add is always positive, remove always negative, adjustment keeps the
// caller's sign.
func (t InventoryTransactionType) NormalizeDelta(quantity int) int {
	abs := quantity
	if abs < 0 {
		abs = -abs
	}
	switch t {
	case InventoryTransactionTypeAdd:
		return abs
	case InventoryTransactionTypeRemove:
		return -abs
	default:
		return quantity
	}
}

// ParseInventoryTransactionType converts raw input into an InventoryTransactionType.
func ParseInventoryTransactionType(value string) (InventoryTransactionType, error) {
	for _, candidate := range validInventoryTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
