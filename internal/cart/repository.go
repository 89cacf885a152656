package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
)

// Repository handles cart persistence.
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

// FindByID loads a cart with its items (products and groups preloaded) and
// applied discount codes.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items.Product.Group").
		Preload("Items.Product.Group.Tax").
		Preload("Items.Product.Tax").
		Preload("DiscountCodes").
		First(&cart, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart not found")
		}
		return nil, err
	}
	return &cart, nil
}

// Create persists a new empty cart.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// FindItem returns the cart's line for a product, or nil when absent.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem upserts one cart line. The preloaded product association is left
// untouched.
func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

// DeleteItem removes one cart line.
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

// ClearItems removes every line from the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// HasCode reports whether the code string is already attached to the cart.
func (r *Repository) HasCode(ctx context.Context, cartID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CartDiscountCode{}).
		Where("cart_id = ? AND code = ?", cartID, code).
		Count(&count).Error
	return count > 0, err
}

// AttachCode records a discount code on the cart.
func (r *Repository) AttachCode(ctx context.Context, record *models.CartDiscountCode) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// SaveTotals persists the recomputed cart total and extra rows.
func (r *Repository) SaveTotals(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Model(cart).
		Select("total", "extra_rows").
		Updates(map[string]any{
			"total":      cart.Total,
			"extra_rows": cart.ExtraRows,
		}).Error
}
