package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db"
	"github.com/mzubak/shopcore-backend/pkg/db/models"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

func seedListedProduct(t *testing.T, conn *gorm.DB, code string, price int64, categoryID *string) *models.Product {
	t.Helper()

	product := &models.Product{
		Code:      code,
		Name:      code,
		Slug:      code,
		Kind:      enums.ProductKindSingle,
		Active:    true,
		UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product %s: %v", code, err)
	}
	if categoryID != nil {
		if err := conn.Model(product).Update("category_id", *categoryID).Error; err != nil {
			t.Fatalf("categorize %s: %v", code, err)
		}
	}
	return product
}

func TestListProductsFiltersByCategorySlug(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	phones := &models.Category{Name: "Phones", Slug: "phones", Active: true}
	if err := conn.Create(phones).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	phonesID := phones.ID.String()

	phone := seedListedProduct(t, conn, "phone", 100, &phonesID)
	seedListedProduct(t, conn, "laptop", 500, nil)

	products, err := repo.ListProducts(ctx, ListFilter{Categories: []string{"phones"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 || products[0].ID != phone.ID {
		t.Fatalf("expected only the categorized product, got %+v", products)
	}
}

func TestListProductsFlagsAllMustMatch(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	phone := seedListedProduct(t, conn, "phone", 100, nil)
	laptop := seedListedProduct(t, conn, "laptop", 500, nil)

	eco := &models.Flag{Code: "eco", Name: "Eco friendly", Active: true}
	fresh := &models.Flag{Code: "new", Name: "New arrival", Active: true}
	for _, flag := range []*models.Flag{eco, fresh} {
		if err := conn.Create(flag).Error; err != nil {
			t.Fatalf("seed flag: %v", err)
		}
	}
	if err := conn.Model(phone).Association("Flags").Append(eco, fresh); err != nil {
		t.Fatalf("flag phone: %v", err)
	}
	if err := conn.Model(laptop).Association("Flags").Append(eco); err != nil {
		t.Fatalf("flag laptop: %v", err)
	}

	products, err := repo.ListProducts(ctx, ListFilter{Flags: []string{"eco"}})
	if err != nil {
		t.Fatalf("list eco: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected both eco products, got %d", len(products))
	}

	products, err = repo.ListProducts(ctx, ListFilter{Flags: []string{"eco", "new"}})
	if err != nil {
		t.Fatalf("list eco+new: %v", err)
	}
	if len(products) != 1 || products[0].ID != phone.ID {
		t.Fatalf("expected only the doubly-flagged product, got %+v", products)
	}
}

func TestListProductsPriceRange(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	seedListedProduct(t, conn, "cheap", 50, nil)
	mid := seedListedProduct(t, conn, "mid", 300, nil)
	seedListedProduct(t, conn, "dear", 900, nil)

	from := decimal.NewFromInt(100)
	to := decimal.NewFromInt(500)
	products, err := repo.ListProducts(ctx, ListFilter{PriceFrom: &from, PriceTo: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 || products[0].ID != mid.ID {
		t.Fatalf("expected the mid-priced product, got %+v", products)
	}
}

func TestListProductsModifierFilteringGate(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	phone := seedListedProduct(t, conn, "phone", 100, nil)
	seedListedProduct(t, conn, "laptop", 500, nil)

	plain := &models.Modifier{Code: "plain", Name: "Plain", Kind: enums.ModifierKindStandard, Active: true}
	conditioned := &models.Modifier{
		Code: "conditioned", Name: "Conditioned", Kind: enums.ModifierKindStandard, Active: true,
		Conditions: []models.ModifierCondition{{
			Path:  "price-gt",
			Value: decimal.NewNullDecimal(decimal.NewFromInt(50)),
		}},
	}
	for _, modifier := range []*models.Modifier{plain, conditioned} {
		if err := conn.Create(modifier).Error; err != nil {
			t.Fatalf("seed modifier: %v", err)
		}
	}
	if err := conn.Model(phone).Association("Modifiers").Append(plain, conditioned); err != nil {
		t.Fatalf("attach modifiers: %v", err)
	}

	products, err := repo.ListProducts(ctx, ListFilter{Modifiers: []string{"plain"}})
	if err != nil {
		t.Fatalf("list plain: %v", err)
	}
	if len(products) != 1 || products[0].ID != phone.ID {
		t.Fatalf("expected the modified product, got %+v", products)
	}

	// Conditioned modifiers are not filterable, so the query short-circuits.
	products, err = repo.ListProducts(ctx, ListFilter{Modifiers: []string{"conditioned"}})
	if err != nil {
		t.Fatalf("list conditioned: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no products for a non-filterable code, got %d", len(products))
	}
}

func TestListProductsAttributeFilterMatchesVariants(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)
	svc := NewService(db.NewWithConn(conn), repo, nil)

	seeded, _ := seedGroupWithColors(t, conn, "Black", "White")
	group, err := repo.LoadGroup(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("load group: %v", err)
	}
	if _, err := svc.CreateAllVariants(ctx, group); err != nil {
		t.Fatalf("create variants: %v", err)
	}

	products, err := repo.ListProducts(ctx, ListFilter{Attributes: []AttributeFilter{{Code: "color", Value: "black"}}})
	if err != nil {
		t.Fatalf("list black: %v", err)
	}
	if len(products) != 1 || products[0].ID != seeded.ID {
		t.Fatalf("expected the owning group, got %+v", products)
	}

	products, err = repo.ListProducts(ctx, ListFilter{Attributes: []AttributeFilter{{Code: "color", Value: "purple"}}})
	if err != nil {
		t.Fatalf("list purple: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no match for an unused value, got %d", len(products))
	}
}
