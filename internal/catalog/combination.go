package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
)

// Value describes one attribute selection inside a combination or on a
// variant: the attribute code plus the chosen value. ChoiceID is nil for the
// synthetic empty choice of a nullable attribute.
type Value struct {
	AttributeID uuid.UUID
	Code        string
	Value       string
	Label       string
	Nullable    bool
	ChoiceID    *uuid.UUID
}

// Combination is one cartesian-product tuple of attribute choices describing
// a potential or actual variant. When an existing variant matches, the
// combination adopts its identity and stock figures instead of the derived
// defaults.
type Combination struct {
	VariantID *uuid.UUID
	Name      string
	Slug      string
	Code      string
	Price     decimal.NullDecimal
	Quantity  *int

	// Attributes is ordered by the group's available-attribute positions.
	Attributes []Value
}

// AttributeMap flattens the combination into a code -> value lookup.
func (c *Combination) AttributeMap() map[string]string {
	attrs := make(map[string]string, len(c.Attributes))
	for _, v := range c.Attributes {
		attrs[v.Code] = v.Value
	}
	return attrs
}

// Variation pairs a valid variant with its attribute values.
type Variation struct {
	VariantID  uuid.UUID
	Attributes map[string]Value
}

// AttributeChoiceSet is one available attribute restricted to the choices
// actually used by valid variants. Drives variant-picker dropdowns.
type AttributeChoiceSet struct {
	Attribute models.Attribute
	Choices   []models.AttributeChoice
}

func sortedCodes(attrs map[string]Value) []string {
	codes := make([]string, 0, len(attrs))
	for _, v := range attrs {
		codes = append(codes, v.Code)
	}
	sort.Strings(codes)
	return codes
}

func attributesEqual(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for key, av := range a {
		bv, ok := b[key]
		if !ok || av.Code != bv.Code || av.Value != bv.Value {
			return false
		}
	}
	return true
}

// pairKey canonicalizes a code -> value mapping for order-insensitive
// comparison.
func pairKey(attrs map[string]string) string {
	codes := make([]string, 0, len(attrs))
	for code := range attrs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	for _, code := range codes {
		b.WriteString(code)
		b.WriteByte('=')
		b.WriteString(attrs[code])
		b.WriteByte(';')
	}
	return b.String()
}
