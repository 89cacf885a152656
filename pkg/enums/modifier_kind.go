package enums

import "fmt"

// ModifierKind describes what a pricing modifier may be applied to.
type ModifierKind string

const (
	// ModifierKindStandard applies to any product line item.
	ModifierKindStandard ModifierKind = "standard"
	// ModifierKindDiscount applies only to discountable products and must
	// represent a negative adjustment.
	ModifierKindDiscount ModifierKind = "discount"
	// ModifierKindCart applies to the cart total rather than a line item.
	ModifierKindCart ModifierKind = "cart"
)

var validModifierKinds = []ModifierKind{
	ModifierKindStandard,
	ModifierKindDiscount,
	ModifierKindCart,
}

// String implements fmt.Stringer.
func (m ModifierKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ModifierKind.
func (m ModifierKind) IsValid() bool {
	for _, candidate := range validModifierKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseModifierKind converts the raw string to ModifierKind.
func ParseModifierKind(value string) (ModifierKind, error) {
	for _, candidate := range validModifierKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid modifier kind %q", value)
}
