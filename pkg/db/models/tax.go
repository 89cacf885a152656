package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tax is a named tax percentage applied on top of the discounted unit price.
type Tax struct {
	ID      uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name    string          `gorm:"column:name;not null"`
	Percent decimal.Decimal `gorm:"column:percent;type:numeric(5,2);not null"`

	Position int64 `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Tax) TableName() string { return "taxes" }

func (t *Tax) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
