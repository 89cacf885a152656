package catalog

import (
	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
)

// ValidateProduct enforces the product-kind invariants before persistence.
// hasVariants must reflect the stored variant count, since a kind change away
// from group is only legal once every variant is gone. The product's
// available-attribute and group associations must be loaded.
func ValidateProduct(product *models.Product, hasVariants bool) error {
	switch {
	case product.IsSingle():
		return validateSingle(product, hasVariants)
	case product.IsGroup():
		return validateGroup(product)
	case product.IsVariant():
		return validateVariant(product, hasVariants)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product kind")
	}
}

func validateSingle(product *models.Product, hasVariants bool) error {
	if product.GroupID != nil {
		return pkgerrors.Validation(pkgerrors.KeyGroupHasGroup)
	}
	if hasVariants {
		return pkgerrors.Validation(pkgerrors.KeyNotGroupHasVariants)
	}
	if len(product.AvailableAttributes) > 0 {
		return pkgerrors.Validation(pkgerrors.KeyNotGroupAttributes)
	}
	return nil
}

func validateGroup(product *models.Product) error {
	if product.GroupID != nil {
		return pkgerrors.Validation(pkgerrors.KeyGroupHasGroup)
	}
	if len(product.AvailableAttributes) == 0 {
		return pkgerrors.Validation(pkgerrors.KeyGroupNoAttributes)
	}
	return nil
}

func validateVariant(product *models.Product, hasVariants bool) error {
	if product.CategoryID != nil || product.BrandID != nil || product.ManufacturerID != nil {
		return pkgerrors.Validation(pkgerrors.KeyVariantHasCategory)
	}
	if product.TaxID != nil {
		return pkgerrors.Validation(pkgerrors.KeyVariantHasTax)
	}
	if product.GroupID == nil {
		return pkgerrors.Validation(pkgerrors.KeyVariantNoGroup)
	}
	if product.Group != nil && product.Group.IsVariant() {
		return pkgerrors.Validation(pkgerrors.KeyVariantGroupVariant)
	}
	if hasVariants {
		return pkgerrors.Validation(pkgerrors.KeyNotGroupHasVariants)
	}
	if len(product.AvailableAttributes) > 0 {
		return pkgerrors.Validation(pkgerrors.KeyNotGroupAttributes)
	}
	return nil
}

// ValidateVariantValues rejects duplicate attribute bindings on one variant.
func ValidateVariantValues(values []models.AttributeValue) error {
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		key := value.AttributeID.String()
		if seen[key] {
			return pkgerrors.Validation(pkgerrors.KeyDuplicateAttributes)
		}
		seen[key] = true
	}
	return nil
}
