package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flag marks products or categorizations with a reusable badge. Flags form a
// tree; a flag is only considered active when its parent chain is active.
type Flag struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Code string    `gorm:"column:code;uniqueIndex;not null"`
	Name string    `gorm:"column:name;not null"`

	ParentID *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Parent   *Flag      `gorm:"foreignKey:ParentID"`

	Active bool `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Flag) TableName() string { return "flags" }

func (f *Flag) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
