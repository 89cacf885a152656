package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// Modifier is a pricing rule applied to cart items or whole carts. Percent
// overrides Amount when set.
type Modifier struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Code string    `gorm:"column:code;uniqueIndex;not null"`
	Name string    `gorm:"column:name;not null"`

	Amount  decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null;default:0"`
	Percent decimal.NullDecimal `gorm:"column:percent;type:numeric(5,2)"`

	Kind enums.ModifierKind `gorm:"column:kind;not null;default:standard"`

	Active   bool  `gorm:"column:active;not null;default:true"`
	Position int64 `gorm:"column:position;not null;default:0"`

	Conditions    []ModifierCondition `gorm:"foreignKey:ModifierID"`
	DiscountCodes []DiscountCode      `gorm:"foreignKey:ModifierID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Modifier) TableName() string { return "modifiers" }

func (m *Modifier) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ModifierCondition references a registered condition implementation by its
// stable path key plus a numeric argument. All conditions of a modifier must
// hold for it to apply.
type ModifierCondition struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ModifierID uuid.UUID `gorm:"column:modifier_id;type:uuid;not null;index"`

	Path     string              `gorm:"column:path;not null"`
	Value    decimal.NullDecimal `gorm:"column:value;type:numeric(10,2)"`
	Position int64               `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ModifierCondition) TableName() string { return "modifier_conditions" }

func (c *ModifierCondition) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DiscountCode gates a modifier behind a code the cart must carry.
type DiscountCode struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ModifierID uuid.UUID `gorm:"column:modifier_id;type:uuid;not null;index"`
	Code       string    `gorm:"column:code;uniqueIndex;not null"`

	// CustomerID optionally restricts the code to a single customer.
	CustomerID *uuid.UUID `gorm:"column:customer_id;type:uuid"`

	Active     bool       `gorm:"column:active;not null;default:true"`
	ValidFrom  time.Time  `gorm:"column:valid_from;not null"`
	ValidUntil *time.Time `gorm:"column:valid_until"`

	// MaxUses nil means unlimited. NumUses is only ever mutated through an
	// atomic SQL increment.
	MaxUses *int64 `gorm:"column:max_uses"`
	NumUses int64  `gorm:"column:num_uses;not null;default:0"`

	Position int64 `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DiscountCode) TableName() string { return "discount_codes" }

func (d *DiscountCode) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.ValidFrom.IsZero() {
		d.ValidFrom = time.Now().UTC()
	}
	return nil
}

// IsValidAt reports whether the code is redeemable at the given instant:
// active, inside its validity window and under its use cap.
func (d *DiscountCode) IsValidAt(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.ValidFrom.After(now) {
		return false
	}
	if d.ValidUntil != nil && !d.ValidUntil.After(now) {
		return false
	}
	if d.MaxUses != nil && d.NumUses >= *d.MaxUses {
		return false
	}
	return true
}
