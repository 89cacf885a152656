package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// Product is the single catalog table backing all three product kinds.
// Group/Variant/Single polymorphism is a kind discriminant, not inheritance:
// the business rules differ sharply per kind and a flat enum keeps the
// invariant checks centralized.
type Product struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Code string    `gorm:"column:code;uniqueIndex;not null"`

	Name        string `gorm:"column:name;not null"`
	Slug        string `gorm:"column:slug;index;not null"`
	Caption     string `gorm:"column:caption"`
	Description string `gorm:"column:description"`

	Kind enums.ProductKind `gorm:"column:kind;not null;default:single"`

	// Variant linkage. GroupID is a non-owning back-reference; the group owns
	// its variants.
	GroupID *uuid.UUID `gorm:"column:group_id;type:uuid;index"`
	Group   *Product   `gorm:"foreignKey:GroupID"`
	Variants []Product `gorm:"foreignKey:GroupID"`

	// Categorization. Variants must leave these empty and inherit from the
	// group.
	CategoryID     *uuid.UUID    `gorm:"column:category_id;type:uuid"`
	Category       *Category     `gorm:"foreignKey:CategoryID"`
	BrandID        *uuid.UUID    `gorm:"column:brand_id;type:uuid"`
	Brand          *Brand        `gorm:"foreignKey:BrandID"`
	ManufacturerID *uuid.UUID    `gorm:"column:manufacturer_id;type:uuid"`
	Manufacturer   *Manufacturer `gorm:"foreignKey:ManufacturerID"`

	// Pricing. Null means "inherit from the group" for variants, zero
	// otherwise.
	UnitPrice       decimal.NullDecimal `gorm:"column:unit_price;type:numeric(12,2)"`
	DiscountPercent decimal.NullDecimal `gorm:"column:discount_percent;type:numeric(5,2)"`
	TaxID           *uuid.UUID          `gorm:"column:tax_id;type:uuid"`
	Tax             *Tax                `gorm:"foreignKey:TaxID"`

	Discountable bool `gorm:"column:discountable;not null;default:true"`

	// Measurements, group-inherited when unset.
	Width  decimal.NullDecimal `gorm:"column:width;type:numeric(10,3)"`
	Height decimal.NullDecimal `gorm:"column:height;type:numeric(10,3)"`
	Depth  decimal.NullDecimal `gorm:"column:depth;type:numeric(10,3)"`
	Weight decimal.NullDecimal `gorm:"column:weight;type:numeric(10,3)"`

	// Group configuration: attributes a variant may combine.
	AvailableAttributes []Attribute `gorm:"many2many:product_available_attributes"`

	// Variant configuration: one value per attribute.
	AttributeValues []AttributeValue `gorm:"foreignKey:ProductID"`

	Modifiers []Modifier `gorm:"many2many:product_modifiers"`
	Flags     []Flag     `gorm:"many2many:product_flags"`

	Attachments []Attachment `gorm:"foreignKey:ProductID"`
	Relations   []Relation   `gorm:"foreignKey:BaseID"`

	// Quantity nil means always available; zero means out of stock.
	Quantity *int `gorm:"column:quantity"`

	Active    bool      `gorm:"column:active;not null;default:true"`
	Published time.Time `gorm:"column:published;not null"`

	// Position orders a group and its variants together; derived from the
	// published timestamp on save.
	Position int64 `gorm:"column:position;not null;default:0;index"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns the primary key app-side so sqlite tests and postgres
// behave identically.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Published.IsZero() {
		p.Published = time.Now().UTC()
	}
	return nil
}

// IsSingle reports whether the product is a standalone sellable item.
func (p *Product) IsSingle() bool { return p.Kind == enums.ProductKindSingle }

// IsGroup reports whether the product is a variant-holding template.
func (p *Product) IsGroup() bool { return p.Kind == enums.ProductKindGroup }

// IsVariant reports whether the product belongs to a group.
func (p *Product) IsVariant() bool { return p.Kind == enums.ProductKindVariant }
