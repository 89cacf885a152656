package enums

import "fmt"

// ProductKind discriminates the three product shapes the catalog supports.
type ProductKind string

const (
	// ProductKindSingle is a standalone sellable product without variants.
	ProductKindSingle ProductKind = "single"
	// ProductKindGroup is a non-sellable template that owns variants and
	// declares the attributes those variants may combine.
	ProductKindGroup ProductKind = "group"
	// ProductKindVariant is a sellable product bound to one attribute
	// combination of its group.
	ProductKindVariant ProductKind = "variant"
)

var validProductKinds = []ProductKind{
	ProductKindSingle,
	ProductKindGroup,
	ProductKindVariant,
}

// String implements fmt.Stringer.
func (p ProductKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductKind.
func (p ProductKind) IsValid() bool {
	for _, candidate := range validProductKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductKind converts the raw string to ProductKind.
func ParseProductKind(value string) (ProductKind, error) {
	for _, candidate := range validProductKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product kind %q", value)
}
