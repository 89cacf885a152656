package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category classifies products and carries the tax fallback chain: a product
// without its own tax uses its category's tax, which in turn inherits from
// the parent category when unset.
type Category struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name;not null"`
	Slug string    `gorm:"column:slug;index;not null"`

	Description string `gorm:"column:description"`

	ParentID *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Parent   *Category  `gorm:"foreignKey:ParentID"`

	TaxID *uuid.UUID `gorm:"column:tax_id;type:uuid"`
	Tax   *Tax       `gorm:"foreignKey:TaxID"`

	Modifiers []Modifier `gorm:"many2many:category_modifiers"`
	Flags     []Flag     `gorm:"many2many:category_flags"`

	Active bool `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Brand classifies products by brand; tree-shaped like Category but without
// a tax chain.
type Brand struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name;not null"`
	Slug string    `gorm:"column:slug;index;not null"`

	Description string `gorm:"column:description"`

	ParentID *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Parent   *Brand     `gorm:"foreignKey:ParentID"`

	Modifiers []Modifier `gorm:"many2many:brand_modifiers"`
	Flags     []Flag     `gorm:"many2many:brand_flags"`

	Active bool `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Brand) TableName() string { return "brands" }

func (b *Brand) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Manufacturer classifies products by maker; tree-shaped like Category.
type Manufacturer struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name;not null"`
	Slug string    `gorm:"column:slug;index;not null"`

	Description string `gorm:"column:description"`

	ParentID *uuid.UUID    `gorm:"column:parent_id;type:uuid;index"`
	Parent   *Manufacturer `gorm:"foreignKey:ParentID"`

	Modifiers []Modifier `gorm:"many2many:manufacturer_modifiers"`
	Flags     []Flag     `gorm:"many2many:manufacturer_flags"`

	Active bool `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Manufacturer) TableName() string { return "manufacturers" }

func (m *Manufacturer) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
