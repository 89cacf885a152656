package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// Repository wires together the catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

// LoadGroup loads a group product with everything the combinator needs:
// available attributes with their choices and all variants with resolved
// attribute values.
func (r *Repository) LoadGroup(ctx context.Context, id uuid.UUID) (*Group, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("AvailableAttributes.Choices").
		Preload("Variants.AttributeValues.Attribute").
		Preload("Variants.AttributeValues.Choice").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, err
	}
	return NewGroup(&product)
}

// SlugExists reports whether any product already uses the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// CodeExists reports whether any product already uses the code.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// FindVariantByCode looks up a variant of the group by its product code.
func (r *Repository) FindVariantByCode(ctx context.Context, groupID uuid.UUID, code string) (*models.Product, error) {
	var variant models.Product
	err := r.db.WithContext(ctx).
		Where("code = ? AND kind = ? AND group_id = ?", code, enums.ProductKindVariant, groupID).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// CreateProduct inserts the product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// SaveProduct persists the mutable product columns.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(
		"AvailableAttributes", "AttributeValues", "Modifiers", "Flags",
		"Attachments", "Relations", "Variants", "Group",
	).Save(product).Error
}

// UpdateKind flips a product's kind without touching other columns.
func (r *Repository) UpdateKind(ctx context.Context, id uuid.UUID, kind enums.ProductKind) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("kind", kind).Error
}

// UpdatePosition sets the ordering value for the product.
func (r *Repository) UpdatePosition(ctx context.Context, id uuid.UUID, position int64) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("position", position).Error
}

// MaxPositionInRange returns the highest position inside [from, to), or ok
// false when no product falls in the range.
func (r *Repository) MaxPositionInRange(ctx context.Context, from, to int64) (int64, bool, error) {
	var positions []int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("position >= ? AND position < ?", from, to).
		Order("position DESC").
		Limit(1).
		Pluck("position", &positions).Error
	if err != nil || len(positions) == 0 {
		return 0, false, err
	}
	return positions[0], true, nil
}

// UpdateVariantPositions aligns every variant of the group with the group's
// ordering value.
func (r *Repository) UpdateVariantPositions(ctx context.Context, groupID uuid.UUID, position int64) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).
		Where("kind = ? AND group_id = ?", enums.ProductKindVariant, groupID).
		Update("position", position).Error
}

// CreateAttributeValues inserts the variant's attribute value rows.
func (r *Repository) CreateAttributeValues(ctx context.Context, values []models.AttributeValue) error {
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&values).Error
}

// CountVariants counts all variants of the group, valid or not.
func (r *Repository) CountVariants(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("kind = ? AND group_id = ?", enums.ProductKindVariant, groupID).
		Count(&count).Error
	return count, err
}

// DeleteVariant removes a variant and its attribute values.
func (r *Repository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", id).Delete(&models.AttributeValue{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ? AND kind = ?", id, enums.ProductKindVariant).Delete(&models.Product{}).Error
}

// FindAttributeByCode loads an attribute with its choices.
func (r *Repository) FindAttributeByCode(ctx context.Context, code string) (*models.Attribute, error) {
	var attr models.Attribute
	err := r.db.WithContext(ctx).Preload("Choices").First(&attr, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "attribute not found")
		}
		return nil, err
	}
	return &attr, nil
}
