package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmptyChoiceLabel is the display sentinel for the synthetic empty choice a
// nullable attribute contributes.
const EmptyChoiceLabel = "-"

// Attribute is a named dimension (e.g. "Color") variants combine over.
type Attribute struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Code string    `gorm:"column:code;uniqueIndex;not null"`
	Name string    `gorm:"column:name;not null"`

	// Template optionally names a custom render template for admin UIs.
	Template string `gorm:"column:template"`

	// Nullable permits an "empty" choice, sorted first.
	Nullable bool `gorm:"column:nullable;not null;default:false"`

	Active   bool  `gorm:"column:active;not null;default:true"`
	Position int64 `gorm:"column:position;not null;default:0"`

	Choices []AttributeChoice `gorm:"foreignKey:AttributeID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attribute) TableName() string { return "attributes" }

func (a *Attribute) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Key is the attribute code with hyphens folded to underscores, usable as a
// map key or template identifier.
func (a *Attribute) Key() string {
	return strings.ReplaceAll(a.Code, "-", "_")
}

// ChoiceSet returns the ordered choices, prepending the synthetic empty
// choice when the attribute is nullable.
func (a *Attribute) ChoiceSet() []AttributeChoice {
	if !a.Nullable {
		return a.Choices
	}
	set := make([]AttributeChoice, 0, len(a.Choices)+1)
	set = append(set, AttributeChoice{AttributeID: a.ID, Value: ""})
	return append(set, a.Choices...)
}

// AttributeChoice is one selectable value of an attribute. The zero-valued
// choice (empty Value, nil ID) stands in for "no selection" on nullable
// attributes.
type AttributeChoice struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AttributeID uuid.UUID `gorm:"column:attribute_id;type:uuid;not null;uniqueIndex:idx_attribute_choice_value"`
	Name        string    `gorm:"column:name"`
	Value       string    `gorm:"column:value;uniqueIndex:idx_attribute_choice_value"`
	FileURL     string    `gorm:"column:file_url"`
	Position    int64     `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AttributeChoice) TableName() string { return "attribute_choices" }

func (c *AttributeChoice) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Label is the display name for the choice, falling back to the raw value
// and then the empty sentinel.
func (c *AttributeChoice) Label() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Value != "" {
		return c.Value
	}
	return EmptyChoiceLabel
}

// AttributeValue binds one attribute (and optionally one of its choices) to
// exactly one variant product.
type AttributeValue struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AttributeID uuid.UUID `gorm:"column:attribute_id;type:uuid;not null;uniqueIndex:idx_attribute_value_product"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_attribute_value_product"`

	// ChoiceID is nil when the attribute is nullable and no choice was made.
	ChoiceID *uuid.UUID       `gorm:"column:choice_id;type:uuid"`
	Choice   *AttributeChoice `gorm:"foreignKey:ChoiceID"`

	Attribute *Attribute `gorm:"foreignKey:AttributeID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AttributeValue) TableName() string { return "attribute_values" }

func (v *AttributeValue) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Value returns the bound choice value, empty when no choice is set.
func (v *AttributeValue) Value() string {
	if v.Choice == nil {
		return ""
	}
	return v.Choice.Value
}

// Label returns the display label for the bound choice.
func (v *AttributeValue) Label() string {
	if v.Choice == nil {
		return EmptyChoiceLabel
	}
	return v.Choice.Label()
}
