package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// CategorizationProvider resolves the tax percent a category contributes,
// with ancestor inheritance already applied.
type CategorizationProvider interface {
	CategoryTaxPercent(ctx context.Context, categoryID uuid.UUID) (decimal.Decimal, error)
}

// Breakdown is the full derived price computation for one product.
type Breakdown struct {
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	Price           decimal.Decimal
}

// Engine computes sell prices with group -> variant inheritance and
// discount/tax composition. Breakdowns are memoized per product instance for
// the duration of one request scope; the engine is not safe for concurrent
// use across requests.
type Engine struct {
	categorization CategorizationProvider
	memo           map[uuid.UUID]Breakdown
}

// NewEngine builds a price engine. The categorization provider may be nil
// when category tax inheritance is not needed.
func NewEngine(categorization CategorizationProvider) *Engine {
	return &Engine{
		categorization: categorization,
		memo:           make(map[uuid.UUID]Breakdown),
	}
}

// UnitPrice is the product's own price, the group's when a variant leaves it
// unset, else zero.
func (e *Engine) UnitPrice(product *models.Product) decimal.Decimal {
	if product.UnitPrice.Valid {
		return product.UnitPrice.Decimal
	}
	if product.IsVariant() && product.Group != nil && product.Group.UnitPrice.Valid {
		return product.Group.UnitPrice.Decimal
	}
	return decimal.Zero
}

// DiscountPercent follows the same inheritance rule as UnitPrice.
func (e *Engine) DiscountPercent(product *models.Product) decimal.Decimal {
	if product.DiscountPercent.Valid {
		return product.DiscountPercent.Decimal
	}
	if product.IsVariant() && product.Group != nil && product.Group.DiscountPercent.Valid {
		return product.Group.DiscountPercent.Decimal
	}
	return decimal.Zero
}

// TaxPercent reads the product's tax, falling back to category tax. Variants
// never store a tax of their own and always read through their group.
func (e *Engine) TaxPercent(ctx context.Context, product *models.Product) (decimal.Decimal, error) {
	target := product
	if product.IsVariant() {
		if product.Group == nil {
			return decimal.Zero, nil
		}
		target = product.Group
	}

	if target.Tax != nil {
		return target.Tax.Percent, nil
	}
	if target.CategoryID != nil && e.categorization != nil {
		return e.categorization.CategoryTaxPercent(ctx, *target.CategoryID)
	}
	return decimal.Zero, nil
}

// DiscountAmount is unitPrice * discountPercent / 100.
func (e *Engine) DiscountAmount(product *models.Product) decimal.Decimal {
	return e.UnitPrice(product).Mul(e.DiscountPercent(product)).Div(hundred)
}

// TaxAmount is (unitPrice - discountAmount) * taxPercent / 100.
func (e *Engine) TaxAmount(ctx context.Context, product *models.Product) (decimal.Decimal, error) {
	taxPercent, err := e.TaxPercent(ctx, product)
	if err != nil {
		return decimal.Zero, err
	}
	base := e.UnitPrice(product).Sub(e.DiscountAmount(product))
	return base.Mul(taxPercent).Div(hundred), nil
}

// Price is unitPrice - discountAmount + taxAmount.
func (e *Engine) Price(ctx context.Context, product *models.Product) (decimal.Decimal, error) {
	breakdown, err := e.Breakdown(ctx, product)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.Price, nil
}

// Breakdown computes and memoizes the full price derivation for the product.
func (e *Engine) Breakdown(ctx context.Context, product *models.Product) (Breakdown, error) {
	if cached, ok := e.memo[product.ID]; ok {
		return cached, nil
	}

	unit := e.UnitPrice(product)
	discountPercent := e.DiscountPercent(product)
	taxPercent, err := e.TaxPercent(ctx, product)
	if err != nil {
		return Breakdown{}, err
	}

	discountAmount := unit.Mul(discountPercent).Div(hundred)
	taxAmount := unit.Sub(discountAmount).Mul(taxPercent).Div(hundred)

	breakdown := Breakdown{
		UnitPrice:       unit,
		DiscountPercent: discountPercent,
		TaxPercent:      taxPercent,
		DiscountAmount:  discountAmount,
		TaxAmount:       taxAmount,
		Price:           unit.Sub(discountAmount).Add(taxAmount),
	}
	e.memo[product.ID] = breakdown
	return breakdown, nil
}

// Invalidate drops the memoized breakdown for one product. Call after
// mutating any price-relevant field, and for a group also after its variants
// change.
func (e *Engine) Invalidate(productID uuid.UUID) {
	delete(e.memo, productID)
}

// InvalidateAll drops every memoized breakdown.
func (e *Engine) InvalidateAll() {
	e.memo = make(map[uuid.UUID]Breakdown)
}
