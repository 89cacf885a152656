package catalog

import (
	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
)

// ValidateRelation enforces relation invariants: variants never participate
// and a product cannot relate to itself.
func ValidateRelation(relation *models.Relation, base, product *models.Product) error {
	if relation.BaseID == relation.ProductID {
		return pkgerrors.Validation(pkgerrors.KeyRelationSelf)
	}
	if (base != nil && base.IsVariant()) || (product != nil && product.IsVariant()) {
		return pkgerrors.Validation(pkgerrors.KeyRelationHasVariant)
	}
	return nil
}
