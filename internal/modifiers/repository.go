package modifiers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// Repository handles modifier and discount code persistence.
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

// SaveModifier validates and persists the modifier.
func (r *Repository) SaveModifier(ctx context.Context, modifier *models.Modifier) error {
	if err := ValidateModifier(modifier); err != nil {
		return err
	}
	for _, condition := range modifier.Conditions {
		if err := ValidateCondition(&condition); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Save(modifier).Error
}

// FindByCode loads a modifier with conditions and discount codes.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Modifier, error) {
	var modifier models.Modifier
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Preload("DiscountCodes").
		First(&modifier, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "modifier not found")
		}
		return nil, err
	}
	return &modifier, nil
}

// ProductModifierIDs returns the modifier ids directly attached to any of
// the given products.
func (r *Repository) ProductModifierIDs(ctx context.Context, productIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Table("product_modifiers").
		Where("product_id IN ?", productIDs).
		Pluck("modifier_id", &ids).Error
	return ids, err
}

// FindActiveByIDs loads the active modifiers among ids with their conditions
// and discount codes, in position order.
func (r *Repository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Modifier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var mods []models.Modifier
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Preload("DiscountCodes").
		Where("id IN ? AND active = ?", ids, true).
		Order("position ASC").
		Find(&mods).Error
	return mods, err
}

// CartModifiers returns every cart-kind modifier in position order.
func (r *Repository) CartModifiers(ctx context.Context) ([]models.Modifier, error) {
	var mods []models.Modifier
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Preload("DiscountCodes").
		Where("kind = ?", enums.ModifierKindCart).
		Order("position ASC").
		Find(&mods).Error
	return mods, err
}

// FindDiscountCode loads one discount code by its code string.
func (r *Repository) FindDiscountCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var discountCode models.DiscountCode
	err := r.db.WithContext(ctx).First(&discountCode, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "discount code not found")
		}
		return nil, err
	}
	return &discountCode, nil
}

// UseDiscountCode bumps the code's use counter with an atomic SQL increment,
// so concurrent redemptions never lose updates.
func (r *Repository) UseDiscountCode(ctx context.Context, code string, n int64) error {
	result := r.db.WithContext(ctx).Model(&models.DiscountCode{}).
		Where("code = ?", code).
		Update("num_uses", gorm.Expr("num_uses + ?", n))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
	}
	return nil
}

// FilteringEnabled reports whether the modifier can drive catalog filtering:
// active standard/discount kind with no conditions and no codes attached.
// Conditions and DiscountCodes must be loaded.
func FilteringEnabled(modifier *models.Modifier) bool {
	if !modifier.Active {
		return false
	}
	if modifier.Kind != enums.ModifierKindStandard && modifier.Kind != enums.ModifierKindDiscount {
		return false
	}
	return len(modifier.Conditions) == 0 && len(modifier.DiscountCodes) == 0
}
