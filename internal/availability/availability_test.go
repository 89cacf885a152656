package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

type stubValidator struct {
	valid bool
}

func (s stubValidator) IsValid(context.Context, *models.Product) (bool, error) {
	return s.valid, nil
}

func intPtr(v int) *int { return &v }

func TestIsAvailableWithStock(t *testing.T) {
	t.Parallel()

	checker := NewChecker(nil)
	product := &models.Product{
		ID:       uuid.New(),
		Kind:     enums.ProductKindSingle,
		Quantity: intPtr(3),
	}

	ok, remaining, err := checker.IsAvailable(context.Background(), product, 2, nil)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if !ok || remaining != 1 {
		t.Fatalf("expected (true, 1), got (%v, %d)", ok, remaining)
	}

	ok, remaining, err = checker.IsAvailable(context.Background(), product, 4, nil)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if ok || remaining != -1 {
		t.Fatalf("expected (false, -1), got (%v, %d)", ok, remaining)
	}
}

func TestIsAvailableCountsCartReservation(t *testing.T) {
	t.Parallel()

	checker := NewChecker(nil)
	product := &models.Product{
		ID:       uuid.New(),
		Kind:     enums.ProductKindSingle,
		Quantity: intPtr(3),
	}

	cart := &models.Cart{
		ID: uuid.New(),
		Items: []models.CartItem{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 5},
		},
	}

	ok, remaining, err := checker.IsAvailable(context.Background(), product, 2, cart)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if !ok || remaining != 0 {
		t.Fatalf("expected (true, 0) with one reserved, got (%v, %d)", ok, remaining)
	}

	ok, _, err = checker.IsAvailable(context.Background(), product, 3, cart)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if ok {
		t.Fatal("expected reservation to exhaust the stock")
	}
}

func TestIsAvailableUnlimitedWhenQuantityNil(t *testing.T) {
	t.Parallel()

	checker := NewChecker(nil)
	product := &models.Product{ID: uuid.New(), Kind: enums.ProductKindSingle}

	ok, remaining, err := checker.IsAvailable(context.Background(), product, 40, nil)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if !ok {
		t.Fatal("expected unlimited product to be available")
	}
	if remaining != Unlimited-40 {
		t.Fatalf("expected remaining %d, got %d", Unlimited-40, remaining)
	}
}

func TestGroupIsNeverAvailable(t *testing.T) {
	t.Parallel()

	checker := NewChecker(nil)
	group := &models.Product{ID: uuid.New(), Kind: enums.ProductKindGroup, Quantity: intPtr(10)}

	ok, _, err := checker.IsAvailable(context.Background(), group, 1, nil)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if ok {
		t.Fatal("groups are templates and must not be purchasable")
	}
}

func TestVariantAvailabilityFollowsValidity(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	variant := &models.Product{
		ID:       uuid.New(),
		Kind:     enums.ProductKindVariant,
		GroupID:  &groupID,
		Quantity: intPtr(5),
	}

	valid := NewChecker(stubValidator{valid: true})
	ok, _, err := valid.IsAvailable(context.Background(), variant, 1, nil)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if !ok {
		t.Fatal("expected valid variant to be available")
	}

	invalid := NewChecker(stubValidator{valid: false})
	ok, _, err = invalid.IsAvailable(context.Background(), variant, 1, nil)
	if err != nil {
		t.Fatalf("is available: %v", err)
	}
	if ok {
		t.Fatal("expected invalidated variant to be unavailable")
	}
}

func TestAvailabilitySlotNeverExpiresSoon(t *testing.T) {
	t.Parallel()

	checker := NewChecker(nil).WithClock(func() time.Time {
		return time.Date(2500, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	product := &models.Product{ID: uuid.New(), Kind: enums.ProductKindSingle, Quantity: intPtr(1)}

	slots, err := checker.Availability(context.Background(), product)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Until.After(time.Date(2500, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected far-future slot, got %s", slots[0].Until)
	}
}
