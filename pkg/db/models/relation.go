package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Relation cross-links two top-level products ("up-sell", "cross-sell"...).
// Variants never participate; they inherit relations from their group.
type Relation struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	BaseID uuid.UUID `gorm:"column:base_id;type:uuid;not null;uniqueIndex:idx_relation_triple"`

	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_relation_triple"`
	Product   *Product  `gorm:"foreignKey:ProductID"`

	Kind string `gorm:"column:kind;uniqueIndex:idx_relation_triple"`

	Position int64 `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Relation) TableName() string { return "relations" }

func (r *Relation) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
