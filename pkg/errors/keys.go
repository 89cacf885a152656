package errors

// Stable validation message keys. Calling UIs look these up for display and
// localization, so the strings are part of the package contract.
const (
	KeyGroupHasGroup        = "group_has_group"
	KeyNotGroupHasVariants  = "not_group_has_variants"
	KeyVariantNoGroup       = "variant_no_group"
	KeyVariantGroupVariant  = "variant_group_is_variant"
	KeyVariantHasCategory   = "variant_has_categorization"
	KeyVariantHasTax        = "variant_has_tax"
	KeyGroupNoAttributes    = "group_no_available_attributes"
	KeyNotGroupAttributes   = "not_group_has_available_attributes"
	KeyDuplicateAttributes  = "variant_duplicate_attributes"
	KeyDiscountNotNegative  = "discount_not_negative"
	KeyNoConditionPath      = "modifier_no_condition_path"
	KeyUnknownConditionPath = "modifier_unknown_condition_path"
	KeyWrongExtension       = "attachment_wrong_extension"
	KeyNoAttachmentOrURL    = "attachment_no_file_or_url"
	KeyRelationHasVariant   = "relation_has_variant"
	KeyRelationSelf         = "relation_base_is_product"
	KeyProductUnavailable   = "cart_product_unavailable"
	KeyCodeInvalid          = "cart_code_invalid"
)

// Validation builds a user-correctable failure carrying a stable key.
func Validation(key string) *Error {
	return New(CodeValidation, key)
}
