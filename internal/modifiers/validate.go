package modifiers

import (
	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// ValidateModifier enforces the discount invariant before persistence: a
// discount-kind modifier must represent a strictly negative adjustment.
func ValidateModifier(modifier *models.Modifier) error {
	if modifier.Kind != enums.ModifierKindDiscount {
		return nil
	}
	if modifier.Percent.Valid {
		if !modifier.Percent.Decimal.IsNegative() {
			return pkgerrors.Validation(pkgerrors.KeyDiscountNotNegative)
		}
		return nil
	}
	if !modifier.Amount.IsNegative() {
		return pkgerrors.Validation(pkgerrors.KeyDiscountNotNegative)
	}
	return nil
}

// ValidateCondition rejects rows with a missing or unregistered path.
func ValidateCondition(condition *models.ModifierCondition) error {
	if condition.Path == "" {
		return pkgerrors.Validation(pkgerrors.KeyNoConditionPath)
	}
	if _, ok := ResolveCondition(condition.Path); !ok {
		return pkgerrors.Validation(pkgerrors.KeyUnknownConditionPath)
	}
	return nil
}
