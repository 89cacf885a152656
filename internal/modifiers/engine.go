package modifiers

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	"github.com/mzubak/shopcore-backend/pkg/enums"
	"github.com/mzubak/shopcore-backend/pkg/metrics"
	"github.com/mzubak/shopcore-backend/pkg/types"
)

// Engine decides which modifiers apply to a cart item or cart and composes
// their adjustment rows. Modifiers must be loaded with their conditions and
// discount codes.
type Engine struct {
	metrics *metrics.EngineMetrics
	now     func() time.Time
}

// NewEngine builds a modifier engine.
func NewEngine(engineMetrics *metrics.EngineMetrics) *Engine {
	return &Engine{metrics: engineMetrics, now: time.Now}
}

// WithClock fixes the engine's notion of "now". Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// EligibleProduct reports whether the modifier may touch the product at all:
// discount-kind needs the discountable flag, standard always applies,
// cart-kind is never evaluated per item.
func (e *Engine) EligibleProduct(modifier *models.Modifier, product *models.Product) bool {
	if modifier.Kind == enums.ModifierKindDiscount {
		return product != nil && product.Discountable
	}
	return modifier.Kind == enums.ModifierKindStandard
}

// CanApply reports whether the modifier applies to the given cart item or
// cart. Either item or cart must be supplied; item context wins when both
// are present.
func (e *Engine) CanApply(modifier *models.Modifier, item *models.CartItem, cart *models.Cart) bool {
	if item == nil && cart == nil {
		return false
	}

	if item != nil && !e.EligibleProduct(modifier, item.Product) {
		return false
	}

	conditions := append([]models.ModifierCondition(nil), modifier.Conditions...)
	sort.SliceStable(conditions, func(i, j int) bool {
		return conditions[i].Position < conditions[j].Position
	})
	for _, condition := range conditions {
		if !conditionMet(condition, item, cart) {
			return false
		}
	}

	if e.requiresCode(modifier) {
		var codes []string
		if cart != nil {
			codes = cart.AppliedCodes()
		}
		if e.AppliedCode(modifier, codes) == nil {
			return false
		}
	}

	return modifier.Active
}

// requiresCode reports whether the modifier is gated behind a discount code:
// any active code attached to it triggers the gate.
func (e *Engine) requiresCode(modifier *models.Modifier) bool {
	for _, code := range modifier.DiscountCodes {
		if code.Active {
			return true
		}
	}
	return false
}

// AppliedCode returns the first cart-applied code that is a currently valid
// code of this modifier, or nil.
func (e *Engine) AppliedCode(modifier *models.Modifier, cartCodes []string) *string {
	now := e.now()
	valid := make(map[string]bool, len(modifier.DiscountCodes))
	for i := range modifier.DiscountCodes {
		if modifier.DiscountCodes[i].IsValidAt(now) {
			valid[modifier.DiscountCodes[i].Code] = true
		}
	}
	for _, code := range cartCodes {
		if valid[code] {
			applied := code
			return &applied
		}
	}
	return nil
}

// AddedAmount computes the modifier's contribution against a base price.
// A set percent (zero included) applies to the already quantity-scaled base
// and is not multiplied by quantity; a flat amount is.
func (e *Engine) AddedAmount(modifier *models.Modifier, basePrice decimal.Decimal, quantity int) decimal.Decimal {
	if modifier.Percent.Valid {
		return basePrice.Mul(modifier.Percent.Decimal).Div(decimal.NewFromInt(100))
	}
	return modifier.Amount.Mul(decimal.NewFromInt(int64(quantity)))
}

// ApplyToCartItem runs every applicable modifier against the item, appending
// one extra row per hit and accumulating into the line total, which is
// floored at zero after each addition. The item's line total must hold the
// unmodified base when called.
func (e *Engine) ApplyToCartItem(item *models.CartItem, cart *models.Cart, mods []models.Modifier) {
	var cartCodes []string
	if cart != nil {
		cartCodes = cart.AppliedCodes()
	}

	for i := range mods {
		modifier := &mods[i]
		if !e.CanApply(modifier, item, cart) {
			continue
		}
		amount := e.AddedAmount(modifier, item.LineTotal, item.Quantity)
		item.ExtraRows = append(item.ExtraRows, extraRow(modifier, amount, e.AppliedCode(modifier, cartCodes)))
		item.LineTotal = floorZero(item.LineTotal.Add(amount))
		e.metrics.IncModifierApplied(modifier.Code)
	}
}

// ApplyToCart runs every cart-kind modifier against the cart total, floored
// at zero after each addition.
func (e *Engine) ApplyToCart(cart *models.Cart, cartMods []models.Modifier) {
	codes := cart.AppliedCodes()
	for i := range cartMods {
		modifier := &cartMods[i]
		if modifier.Kind != enums.ModifierKindCart {
			continue
		}
		if !e.CanApply(modifier, nil, cart) {
			continue
		}
		amount := e.AddedAmount(modifier, cart.Total, 1)
		cart.ExtraRows = append(cart.ExtraRows, extraRow(modifier, amount, e.AppliedCode(modifier, codes)))
		cart.Total = floorZero(cart.Total.Add(amount))
		e.metrics.IncModifierApplied(modifier.Code)
	}
}

func extraRow(modifier *models.Modifier, amount decimal.Decimal, code *string) types.ExtraRow {
	return types.ExtraRow{Label: modifier.Name, Amount: amount, Code: code}
}

func floorZero(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}
