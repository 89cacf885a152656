package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/types"
)

// Cart is one shopper's open basket.
type Cart struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`

	// CustomerID is nil for guest carts resolved through the token store.
	CustomerID *uuid.UUID `gorm:"column:customer_id;type:uuid;index"`

	Items         []CartItem         `gorm:"foreignKey:CartID"`
	DiscountCodes []CartDiscountCode `gorm:"foreignKey:CartID"`

	// Total is the modifier-adjusted cart total, recomputed on every quote.
	Total     decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	ExtraRows types.ExtraRows `gorm:"column:extra_rows;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// AppliedCodes returns the raw code strings attached to the cart.
func (c *Cart) AppliedCodes() []string {
	codes := make([]string, 0, len(c.DiscountCodes))
	for _, dc := range c.DiscountCodes {
		codes = append(codes, dc.Code)
	}
	return codes
}

// CartItem is one product line in a cart.
type CartItem struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`

	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Product   *Product  `gorm:"foreignKey:ProductID"`

	Quantity int `gorm:"column:quantity;not null"`

	// LineTotal is the modifier-adjusted total, recomputed on every quote.
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null;default:0"`
	ExtraRows types.ExtraRows `gorm:"column:extra_rows;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CartDiscountCode records a discount code the shopper attached to the cart.
type CartDiscountCode struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	Code   string    `gorm:"column:code;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CartDiscountCode) TableName() string { return "cart_discount_codes" }

func (c *CartDiscountCode) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
