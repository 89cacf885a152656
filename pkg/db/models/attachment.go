package models

import (
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// Attachment is a media file or external URL attached to a product. Exactly
// one of FileKey or URL must be set; file storage itself is supplied by the
// surrounding platform.
type Attachment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`

	Kind enums.AttachmentKind `gorm:"column:kind;not null;default:image"`

	FileKey string `gorm:"column:file_key"`
	URL     string `gorm:"column:url"`

	Position int64 `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attachment) TableName() string { return "attachments" }

func (a *Attachment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Source returns the stored file key when present, else the external URL.
func (a *Attachment) Source() string {
	if a.FileKey != "" {
		return a.FileKey
	}
	return a.URL
}

// Label derives a display name from the source path.
func (a *Attachment) Label() string {
	return path.Base(a.Source())
}
