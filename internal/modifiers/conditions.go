package modifiers

import (
	"github.com/shopspring/decimal"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
)

// Condition is one pluggable modifier condition. A nil context func means
// the condition does not constrain that context and counts as met there.
type Condition struct {
	Name string
	Item func(item *models.CartItem, value decimal.Decimal) bool
	Cart func(cart *models.Cart, value decimal.Decimal) bool
}

// Stable condition path keys. Stored on ModifierCondition rows, so renaming
// one is a data migration.
const (
	ConditionPriceGreaterThan    = "price-gt"
	ConditionPriceLessThan       = "price-lt"
	ConditionQuantityGreaterThan = "quantity-gt"
	ConditionQuantityLessThan    = "quantity-lt"
)

var conditionRegistry = map[string]Condition{
	ConditionPriceGreaterThan: {
		Name: "Price greater than",
		Item: func(item *models.CartItem, value decimal.Decimal) bool {
			return item.LineTotal.GreaterThan(value)
		},
		Cart: func(cart *models.Cart, value decimal.Decimal) bool {
			return cart.Total.GreaterThan(value)
		},
	},
	ConditionPriceLessThan: {
		Name: "Price less than",
		Item: func(item *models.CartItem, value decimal.Decimal) bool {
			return item.LineTotal.LessThan(value)
		},
		Cart: func(cart *models.Cart, value decimal.Decimal) bool {
			return cart.Total.LessThan(value)
		},
	},
	ConditionQuantityGreaterThan: {
		Name: "Quantity greater than",
		Item: func(item *models.CartItem, value decimal.Decimal) bool {
			return decimal.NewFromInt(int64(item.Quantity)).GreaterThan(value)
		},
	},
	ConditionQuantityLessThan: {
		Name: "Quantity less than",
		Item: func(item *models.CartItem, value decimal.Decimal) bool {
			return decimal.NewFromInt(int64(item.Quantity)).LessThan(value)
		},
	},
}

// RegisterCondition adds a custom condition under the given path key,
// overwriting any existing registration. Meant to run at startup.
func RegisterCondition(path string, condition Condition) {
	conditionRegistry[path] = condition
}

// ResolveCondition returns the condition registered under path.
func ResolveCondition(path string) (Condition, bool) {
	condition, ok := conditionRegistry[path]
	return condition, ok
}

// conditionMet evaluates a stored condition row against the item or cart
// context. An unresolvable path or an unsupported context counts as met;
// save-time validation keeps unknown paths out of the data.
func conditionMet(row models.ModifierCondition, item *models.CartItem, cart *models.Cart) bool {
	condition, ok := ResolveCondition(row.Path)
	if !ok {
		return true
	}

	value := decimal.Zero
	if row.Value.Valid {
		value = row.Value.Decimal
	}

	if item != nil && condition.Item != nil {
		return condition.Item(item, value)
	}
	if cart != nil && condition.Cart != nil {
		return condition.Cart(cart, value)
	}
	return true
}
