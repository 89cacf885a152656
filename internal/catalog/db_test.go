package catalog

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Tax{},
		&models.Flag{},
		&models.Category{},
		&models.Brand{},
		&models.Manufacturer{},
		&models.Attribute{},
		&models.AttributeChoice{},
		&models.Product{},
		&models.AttributeValue{},
		&models.Modifier{},
		&models.ModifierCondition{},
		&models.DiscountCode{},
		&models.Attachment{},
		&models.Relation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
