package categorization

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:categorization_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Tax{},
		&models.Flag{},
		&models.Modifier{},
		&models.ModifierCondition{},
		&models.DiscountCode{},
		&models.Category{},
		&models.Brand{},
		&models.Manufacturer{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// seedCategoryTree builds root -> child -> grandchild with the tax on the
// root only.
func seedCategoryTree(t *testing.T, conn *gorm.DB) (root, child, grandchild *models.Category) {
	t.Helper()

	tax := &models.Tax{Name: "Standard", Percent: decimal.NewFromInt(20)}
	if err := conn.Create(tax).Error; err != nil {
		t.Fatalf("seed tax: %v", err)
	}

	root = &models.Category{Name: "Electronics", Slug: "electronics", Active: true, TaxID: &tax.ID}
	if err := conn.Create(root).Error; err != nil {
		t.Fatalf("seed root: %v", err)
	}
	child = &models.Category{Name: "Phones", Slug: "phones", Active: true, ParentID: &root.ID}
	if err := conn.Create(child).Error; err != nil {
		t.Fatalf("seed child: %v", err)
	}
	grandchild = &models.Category{Name: "Smartphones", Slug: "smartphones", Active: true, ParentID: &child.ID}
	if err := conn.Create(grandchild).Error; err != nil {
		t.Fatalf("seed grandchild: %v", err)
	}
	return root, child, grandchild
}

func TestCategoryTaxPercentInheritsFromAncestors(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	root, _, grandchild := seedCategoryTree(t, conn)

	percent, err := repo.CategoryTaxPercent(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("tax percent: %v", err)
	}
	if !percent.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected inherited 20, got %s", percent)
	}

	percent, err = repo.CategoryTaxPercent(ctx, root.ID)
	if err != nil {
		t.Fatalf("tax percent: %v", err)
	}
	if !percent.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected own 20, got %s", percent)
	}
}

func TestCategoryTaxPercentZeroWithoutChain(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	orphan := &models.Category{Name: "Misc", Slug: "misc", Active: true}
	if err := conn.Create(orphan).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	percent, err := repo.CategoryTaxPercent(ctx, orphan.ID)
	if err != nil {
		t.Fatalf("tax percent: %v", err)
	}
	if !percent.IsZero() {
		t.Fatalf("expected zero, got %s", percent)
	}

	_, err = repo.CategoryTaxPercent(ctx, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategoryPath(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	_, _, grandchild := seedCategoryTree(t, conn)

	path, err := repo.CategoryPath(ctx, grandchild)
	if err != nil {
		t.Fatalf("category path: %v", err)
	}
	if path != "electronics/phones/smartphones" {
		t.Fatalf("unexpected path: %q", path)
	}
}

func TestIsCategoryActiveGatesOnAncestors(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	_, child, grandchild := seedCategoryTree(t, conn)

	active, err := repo.IsCategoryActive(ctx, grandchild)
	if err != nil {
		t.Fatalf("is active: %v", err)
	}
	if !active {
		t.Fatal("expected fully active chain")
	}

	if err := conn.Model(child).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate child: %v", err)
	}
	active, err = repo.IsCategoryActive(ctx, grandchild)
	if err != nil {
		t.Fatalf("is active: %v", err)
	}
	if active {
		t.Fatal("expected inactive ancestor to gate the node")
	}
}

func TestCategoryTreeModifierIDsUnionsActiveAncestors(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	root, _, grandchild := seedCategoryTree(t, conn)

	rootPromo := &models.Modifier{Code: "root-promo", Name: "Root promo", Kind: enums.ModifierKindStandard, Active: true}
	nodePromo := &models.Modifier{Code: "node-promo", Name: "Node promo", Kind: enums.ModifierKindStandard, Active: true}
	retired := &models.Modifier{Code: "retired", Name: "Retired", Kind: enums.ModifierKindStandard, Active: true}
	for _, modifier := range []*models.Modifier{rootPromo, nodePromo, retired} {
		if err := conn.Create(modifier).Error; err != nil {
			t.Fatalf("seed modifier: %v", err)
		}
	}
	if err := conn.Model(retired).Update("active", false).Error; err != nil {
		t.Fatalf("retire modifier: %v", err)
	}

	if err := conn.Model(root).Association("Modifiers").Append(rootPromo, retired); err != nil {
		t.Fatalf("attach root modifiers: %v", err)
	}
	if err := conn.Model(grandchild).Association("Modifiers").Append(nodePromo); err != nil {
		t.Fatalf("attach node modifier: %v", err)
	}

	ids, err := repo.CategoryTreeModifierIDs(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("tree modifier ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 active modifiers, got %d", len(ids))
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[rootPromo.ID] || !seen[nodePromo.ID] {
		t.Fatalf("expected root and node promos, got %v", ids)
	}
}

func TestCategoryTreeFlagsDedupes(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	root, child, grandchild := seedCategoryTree(t, conn)

	shared := &models.Flag{Code: "eco", Name: "Eco friendly", Active: true}
	if err := conn.Create(shared).Error; err != nil {
		t.Fatalf("seed flag: %v", err)
	}
	if err := conn.Model(root).Association("Flags").Append(shared); err != nil {
		t.Fatalf("attach root flag: %v", err)
	}
	if err := conn.Model(child).Association("Flags").Append(shared); err != nil {
		t.Fatalf("attach child flag: %v", err)
	}

	flags, err := repo.CategoryTreeFlags(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("tree flags: %v", err)
	}
	if len(flags) != 1 || flags[0].Code != "eco" {
		t.Fatalf("expected single deduped flag, got %+v", flags)
	}
}

func TestBrandTreeModifierIDs(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	parent := &models.Brand{Name: "Umbrella", Slug: "umbrella", Active: true}
	if err := conn.Create(parent).Error; err != nil {
		t.Fatalf("seed parent brand: %v", err)
	}
	brand := &models.Brand{Name: "Sub", Slug: "sub", Active: true, ParentID: &parent.ID}
	if err := conn.Create(brand).Error; err != nil {
		t.Fatalf("seed brand: %v", err)
	}

	promo := &models.Modifier{Code: "brand-promo", Name: "Brand promo", Kind: enums.ModifierKindStandard, Active: true}
	if err := conn.Create(promo).Error; err != nil {
		t.Fatalf("seed modifier: %v", err)
	}
	if err := conn.Model(parent).Association("Modifiers").Append(promo); err != nil {
		t.Fatalf("attach modifier: %v", err)
	}

	ids, err := repo.BrandTreeModifierIDs(ctx, brand.ID)
	if err != nil {
		t.Fatalf("brand tree modifier ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != promo.ID {
		t.Fatalf("expected parent brand promo, got %v", ids)
	}
}
