package enums

import "fmt"

// ProductBadge is the promotional tag shown on storefront product cards.
type ProductBadge string

const (
	ProductBadgeNew        ProductBadge = "new"
	ProductBadgeSale       ProductBadge = "sale"
	ProductBadgeBestseller ProductBadge = "bestseller"
)

var validProductBadges = []ProductBadge{
	ProductBadgeNew,
	ProductBadgeSale,
	ProductBadgeBestseller,
}

// String implements fmt.Stringer.
func (b ProductBadge) String() string {
	return string(b)
}

// IsValid reports whether the value is a known ProductBadge.
func (b ProductBadge) IsValid() bool {
	for _, candidate := range validProductBadges {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseProductBadge converts raw input into a ProductBadge.
func ParseProductBadge(value string) (ProductBadge, error) {
	for _, candidate := range validProductBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product badge %q", value)
}
