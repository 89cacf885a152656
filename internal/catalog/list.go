package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// AttributeFilter narrows the listing to groups owning a variant with the
// given attribute value. An empty value matches the unset nullable choice.
type AttributeFilter struct {
	Code  string
	Value string
}

// ListFilter describes a catalog listing query. Zero values mean "no
// constraint"; flag and modifier codes must all match.
type ListFilter struct {
	Categories    []string
	Brands        []string
	Manufacturers []string
	Flags         []string
	Modifiers     []string
	PriceFrom     *decimal.Decimal
	PriceTo       *decimal.Decimal
	Attributes    []AttributeFilter
	Limit         int
}

// ListProducts returns active top-level products matching the filter,
// ordered newest first.
func (r *Repository) ListProducts(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("products.active = ?", true).
		Where("products.kind IN ?", []enums.ProductKind{enums.ProductKindSingle, enums.ProductKindGroup})

	if len(filter.Categories) > 0 {
		q = q.Where("products.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug IN ?", filter.Categories))
	}
	if len(filter.Brands) > 0 {
		q = q.Where("products.brand_id IN (?)",
			r.db.Model(&models.Brand{}).Select("id").Where("slug IN ?", filter.Brands))
	}
	if len(filter.Manufacturers) > 0 {
		q = q.Where("products.manufacturer_id IN (?)",
			r.db.Model(&models.Manufacturer{}).Select("id").Where("slug IN ?", filter.Manufacturers))
	}

	if len(filter.Flags) > 0 {
		flagged := r.db.Table("product_flags").
			Select("product_flags.product_id").
			Joins("JOIN flags ON flags.id = product_flags.flag_id").
			Where("flags.code IN ?", filter.Flags).
			Group("product_flags.product_id").
			Having("COUNT(DISTINCT flags.code) = ?", len(filter.Flags))
		q = q.Where("products.id IN (?)", flagged)
	}

	if len(filter.Modifiers) > 0 {
		enabled, err := r.filteringEnabledModifierCodes(ctx, filter.Modifiers)
		if err != nil {
			return nil, err
		}
		// Unknown or non-filterable modifier codes yield an empty result.
		if len(enabled) < len(filter.Modifiers) {
			return []models.Product{}, nil
		}
		modded := r.db.Table("product_modifiers").
			Select("product_modifiers.product_id").
			Joins("JOIN modifiers ON modifiers.id = product_modifiers.modifier_id").
			Where("modifiers.code IN ?", filter.Modifiers).
			Group("product_modifiers.product_id").
			Having("COUNT(DISTINCT modifiers.code) = ?", len(filter.Modifiers))
		q = q.Where("products.id IN (?)", modded)
	}

	if filter.PriceFrom != nil {
		q = q.Where("products.unit_price >= ?", *filter.PriceFrom)
	}
	if filter.PriceTo != nil {
		q = q.Where("products.unit_price <= ?", *filter.PriceTo)
	}

	if len(filter.Attributes) > 0 {
		variants := r.db.Model(&models.Product{}).
			Select("products.group_id").
			Where("products.kind = ?", enums.ProductKindVariant)
		for _, attr := range filter.Attributes {
			matching := r.db.Table("attribute_values").
				Select("attribute_values.product_id").
				Joins("JOIN attributes ON attributes.id = attribute_values.attribute_id").
				Joins("LEFT JOIN attribute_choices ON attribute_choices.id = attribute_values.choice_id").
				Where("LOWER(attributes.code) = LOWER(?)", attr.Code)
			if attr.Value != "" {
				matching = matching.Where("LOWER(attribute_choices.value) = LOWER(?)", attr.Value)
			} else {
				matching = matching.Where("attribute_values.choice_id IS NULL")
			}
			variants = variants.Where("products.id IN (?)", matching)
		}
		q = q.Where("products.id IN (?)", variants)
	}

	q = q.Order("products.position DESC, products.kind ASC, products.published ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// filteringEnabledModifierCodes keeps only codes of active standard/discount
// modifiers that carry no conditions and no discount codes.
func (r *Repository) filteringEnabledModifierCodes(ctx context.Context, codes []string) ([]string, error) {
	var enabled []string
	err := r.db.WithContext(ctx).Model(&models.Modifier{}).
		Where("modifiers.code IN ?", codes).
		Where("modifiers.active = ?", true).
		Where("modifiers.kind IN ?", []enums.ModifierKind{enums.ModifierKindStandard, enums.ModifierKindDiscount}).
		Where("modifiers.id NOT IN (?)", r.db.Table("modifier_conditions").Select("modifier_id")).
		Where("modifiers.id NOT IN (?)", r.db.Table("discount_codes").Select("modifier_id")).
		Pluck("modifiers.code", &enabled).Error
	return enabled, err
}
