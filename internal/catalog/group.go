package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/text"
)

// Group wraps a group-kind product loaded with its available attributes
// (including choices) and variants (including attribute values). All derived
// state is memoized per instance and must be invalidated when the group or
// its variants change.
type Group struct {
	Product *models.Product

	memo groupMemo
}

// groupMemo holds derived values with named fields so invalidation stays
// exhaustive and typed.
type groupMemo struct {
	availableAttributes []models.Attribute
	variants            []*models.Product
	invalidVariants     []*models.Product
	variations          []Variation
	combinations        []Combination
	attributeChoices    []AttributeChoiceSet

	hasAvailableAttributes bool
	hasVariants            bool
	hasInvalidVariants     bool
	hasVariations          bool
	hasCombinations        bool
	hasAttributeChoices    bool
}

// NewGroup wraps the loaded product, rejecting non-group kinds.
func NewGroup(product *models.Product) (*Group, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if !product.IsGroup() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, pkgerrors.KeyNotGroupAttributes)
	}
	return &Group{Product: product}, nil
}

// Invalidate clears every memoized derived value. Call after saving or
// deleting the group or any of its variants.
func (g *Group) Invalidate() {
	g.memo = groupMemo{}
}

// AvailableAttributes returns the group's active attributes in position
// order, choices sorted within each attribute.
func (g *Group) AvailableAttributes() []models.Attribute {
	if g.memo.hasAvailableAttributes {
		return g.memo.availableAttributes
	}

	attrs := make([]models.Attribute, 0, len(g.Product.AvailableAttributes))
	for _, attr := range g.Product.AvailableAttributes {
		if !attr.Active {
			continue
		}
		sort.SliceStable(attr.Choices, func(i, j int) bool {
			return attr.Choices[i].Position < attr.Choices[j].Position
		})
		attrs = append(attrs, attr)
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		return attrs[i].Position < attrs[j].Position
	})

	g.memo.availableAttributes = attrs
	g.memo.hasAvailableAttributes = true
	return attrs
}

// orderedVariants returns all variants (valid or not) in group order.
func (g *Group) orderedVariants() []*models.Product {
	variants := make([]*models.Product, 0, len(g.Product.Variants))
	for i := range g.Product.Variants {
		variants = append(variants, &g.Product.Variants[i])
	}
	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i], variants[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Code < b.Code
	})
	return variants
}

// VariantAttributes maps a variant's attribute values keyed by attribute key.
// Requires Attribute and Choice preloaded on the values.
func VariantAttributes(variant *models.Product) map[string]Value {
	attrs := make(map[string]Value, len(variant.AttributeValues))
	for i := range variant.AttributeValues {
		value := &variant.AttributeValues[i]
		if value.Attribute == nil {
			continue
		}
		attrs[value.Attribute.Key()] = Value{
			AttributeID: value.AttributeID,
			Code:        value.Attribute.Code,
			Value:       value.Value(),
			Label:       value.Label(),
			Nullable:    value.Attribute.Nullable,
			ChoiceID:    value.ChoiceID,
		}
	}
	return attrs
}

// InvalidVariants returns variants that need to be reconfigured or deleted:
// duplicates of an earlier variant's attribute set, attribute codes that do
// not match the available attributes, or an empty value on a non-nullable
// attribute. The first occurrence of a duplicate combination stays valid.
func (g *Group) InvalidVariants() []*models.Product {
	if g.memo.hasInvalidVariants {
		return g.memo.invalidVariants
	}

	codes := make([]string, 0, len(g.AvailableAttributes()))
	for _, attr := range g.AvailableAttributes() {
		codes = append(codes, attr.Code)
	}
	sort.Strings(codes)

	invalid := make([]*models.Product, 0)
	validAttrs := make([]map[string]Value, 0)

	for _, variant := range g.orderedVariants() {
		attrs := VariantAttributes(variant)

		bad := false
		for _, seen := range validAttrs {
			if attributesEqual(seen, attrs) {
				bad = true
				break
			}
		}
		if !bad {
			variantCodes := sortedCodes(attrs)
			if len(variantCodes) != len(codes) {
				bad = true
			} else {
				for i := range codes {
					if variantCodes[i] != codes[i] {
						bad = true
						break
					}
				}
			}
		}
		if !bad {
			for _, v := range attrs {
				if !v.Nullable && v.Value == "" {
					bad = true
					break
				}
			}
		}

		if bad {
			invalid = append(invalid, variant)
		} else {
			validAttrs = append(validAttrs, attrs)
		}
	}

	g.memo.invalidVariants = invalid
	g.memo.hasInvalidVariants = true
	return invalid
}

// Variants returns the valid variants of the group in group order.
func (g *Group) Variants() []*models.Product {
	if g.memo.hasVariants {
		return g.memo.variants
	}

	invalid := make(map[string]bool, len(g.InvalidVariants()))
	for _, variant := range g.InvalidVariants() {
		invalid[variant.ID.String()] = true
	}

	variants := make([]*models.Product, 0, len(g.Product.Variants))
	for _, variant := range g.orderedVariants() {
		if !invalid[variant.ID.String()] {
			variants = append(variants, variant)
		}
	}

	g.memo.variants = variants
	g.memo.hasVariants = true
	return variants
}

// MatchVariant returns the first valid variant whose attribute values exactly
// equal the given code -> value mapping, order-insensitive.
func (g *Group) MatchVariant(attrs map[string]string) *models.Product {
	target := pairKey(attrs)
	for _, variant := range g.Variants() {
		current := make(map[string]string, len(variant.AttributeValues))
		for _, v := range VariantAttributes(variant) {
			current[v.Code] = v.Value
		}
		if pairKey(current) == target {
			return variant
		}
	}
	return nil
}

// FilterVariants returns valid variants carrying every given code -> value
// pair, ignoring attributes not mentioned.
func (g *Group) FilterVariants(attrs map[string]string) []*models.Product {
	matched := make([]*models.Product, 0)
	for _, variant := range g.Variants() {
		current := make(map[string]string, len(variant.AttributeValues))
		for _, v := range VariantAttributes(variant) {
			current[v.Code] = v.Value
		}
		ok := true
		for code, value := range attrs {
			if current[code] != value {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, variant)
		}
	}
	return matched
}

// Variations pairs each valid variant with its attribute values.
func (g *Group) Variations() []Variation {
	if g.memo.hasVariations {
		return g.memo.variations
	}

	variations := make([]Variation, 0, len(g.Variants()))
	for _, variant := range g.Variants() {
		variations = append(variations, Variation{
			VariantID:  variant.ID,
			Attributes: VariantAttributes(variant),
		})
	}

	g.memo.variations = variations
	g.memo.hasVariations = true
	return variations
}

// AttributeChoices restricts the available attributes to the choices used by
// valid variants. Attributes with no used choice are dropped.
func (g *Group) AttributeChoices() []AttributeChoiceSet {
	if g.memo.hasAttributeChoices {
		return g.memo.attributeChoices
	}

	used := make(map[string]bool)
	for _, variation := range g.Variations() {
		for _, v := range variation.Attributes {
			used[v.Code+"="+v.Value] = true
		}
	}

	sets := make([]AttributeChoiceSet, 0, len(g.AvailableAttributes()))
	for _, attr := range g.AvailableAttributes() {
		choices := make([]models.AttributeChoice, 0, len(attr.Choices)+1)
		for _, choice := range attr.ChoiceSet() {
			if used[attr.Code+"="+choice.Value] {
				choices = append(choices, choice)
			}
		}
		if len(choices) > 0 {
			sets = append(sets, AttributeChoiceSet{Attribute: attr, Choices: choices})
		}
	}

	g.memo.attributeChoices = sets
	g.memo.hasAttributeChoices = true
	return sets
}

// Combinations produces every attribute-value combination the group's
// available attributes allow, in attribute position order. Nullable
// attributes contribute their empty choice first, so the unconfigured
// combination sorts first. Any attribute with zero choices makes the result
// empty. Combinations matched by an existing valid variant adopt that
// variant's identity, price and quantity.
func (g *Group) Combinations() []Combination {
	if g.memo.hasCombinations {
		return g.memo.combinations
	}

	attrs := g.AvailableAttributes()
	choiceSets := make([][]models.AttributeChoice, 0, len(attrs))
	for i := range attrs {
		set := attrs[i].ChoiceSet()
		if len(set) == 0 {
			g.memo.combinations = nil
			g.memo.hasCombinations = true
			return nil
		}
		choiceSets = append(choiceSets, set)
	}

	var combinations []Combination
	if len(choiceSets) > 0 {
		indices := make([]int, len(choiceSets))
		for {
			combo := g.buildCombination(attrs, choiceSets, indices)
			combinations = append(combinations, combo)

			pos := len(indices) - 1
			for pos >= 0 {
				indices[pos]++
				if indices[pos] < len(choiceSets[pos]) {
					break
				}
				indices[pos] = 0
				pos--
			}
			if pos < 0 {
				break
			}
		}
	}

	g.memo.combinations = combinations
	g.memo.hasCombinations = true
	return combinations
}

func (g *Group) buildCombination(attrs []models.Attribute, choiceSets [][]models.AttributeChoice, indices []int) Combination {
	values := make([]Value, 0, len(attrs))
	labels := make([]string, 0, len(attrs))
	for i := range attrs {
		choice := choiceSets[i][indices[i]]
		value := Value{
			AttributeID: attrs[i].ID,
			Code:        attrs[i].Code,
			Value:       choice.Value,
			Label:       choice.Label(),
			Nullable:    attrs[i].Nullable,
		}
		if choice.ID != uuid.Nil {
			id := choice.ID
			value.ChoiceID = &id
		}
		values = append(values, value)
		if value.Label != models.EmptyChoiceLabel {
			labels = append(labels, value.Label)
		}
	}

	name := strings.TrimRight(g.Product.Name+" "+strings.Join(labels, " "), " ")
	combo := Combination{
		Name:       name,
		Slug:       text.Slugify(name),
		Attributes: values,
	}

	if variant := g.MatchVariant(combo.AttributeMap()); variant != nil {
		id := variant.ID
		combo.VariantID = &id
		combo.Name = variant.Name
		combo.Slug = variant.Slug
		combo.Code = variant.Code
		combo.Price = variant.UnitPrice
		combo.Quantity = variant.Quantity
	}
	return combo
}
