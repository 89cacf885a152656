package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mzubak/shopcore-backend/internal/catalog"
	"github.com/mzubak/shopcore-backend/pkg/db/models"
)

// Unlimited is the sentinel stock figure an always-available product
// compares against.
const Unlimited = 100000

// farFuture bounds availability slots; time-boxed availability is a modifier
// concern, not a stock concern.
var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// Slot is one availability window: a stock figure (or unlimited) valid until
// the given instant.
type Slot struct {
	Quantity  int
	Unlimited bool
	Until     time.Time
}

// VariantValidator reports whether a variant is still among its group's
// valid variants.
type VariantValidator interface {
	IsValid(ctx context.Context, variant *models.Product) (bool, error)
}

// CatalogValidator answers variant validity from the catalog combinator.
type CatalogValidator struct {
	repo *catalog.Repository
}

// NewCatalogValidator builds the catalog-backed validator.
func NewCatalogValidator(repo *catalog.Repository) *CatalogValidator {
	return &CatalogValidator{repo: repo}
}

// IsValid loads the variant's group and checks membership of the
// valid-variant list.
func (v *CatalogValidator) IsValid(ctx context.Context, variant *models.Product) (bool, error) {
	if variant.GroupID == nil {
		return false, nil
	}
	group, err := v.repo.LoadGroup(ctx, *variant.GroupID)
	if err != nil {
		return false, err
	}
	for _, valid := range group.Variants() {
		if valid.ID == variant.ID {
			return true, nil
		}
	}
	return false, nil
}

// Checker computes stock availability with group/variant kind rules and
// cart reservations.
type Checker struct {
	variants VariantValidator
	now      func() time.Time
}

// NewChecker builds an availability checker. variants may be nil when
// variant validity does not need re-checking (trusted callers).
func NewChecker(variants VariantValidator) *Checker {
	return &Checker{variants: variants, now: time.Now}
}

// WithClock fixes the checker's notion of "now". Test hook.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Availability returns the product's availability slots. A group reports
// zero (not directly purchasable), as does a variant that fell out of its
// group's valid-variant list.
func (c *Checker) Availability(ctx context.Context, product *models.Product) ([]Slot, error) {
	slot := Slot{Until: farFuture}

	switch {
	case product.IsGroup():
		// zero
	case product.IsVariant():
		valid := true
		if c.variants != nil {
			var err error
			valid, err = c.variants.IsValid(ctx, product)
			if err != nil {
				return nil, err
			}
		}
		if valid {
			slot = stockSlot(product)
		}
	default:
		slot = stockSlot(product)
	}

	return []Slot{slot}, nil
}

func stockSlot(product *models.Product) Slot {
	if product.Quantity == nil {
		return Slot{Unlimited: true, Until: farFuture}
	}
	return Slot{Quantity: *product.Quantity, Until: farFuture}
}

// IsAvailable reports whether the requested quantity can be satisfied. A
// supplied cart adds its reservation of this exact product to the request.
// remaining is the stock figure minus the requested quantity and can go
// negative, letting callers report how many are left.
func (c *Checker) IsAvailable(ctx context.Context, product *models.Product, quantity int, cart *models.Cart) (bool, int, error) {
	if cart != nil {
		quantity += ReservedQuantity(cart, product.ID)
	}

	slots, err := c.Availability(ctx, product)
	if err != nil {
		return false, 0, err
	}

	slot := slots[0]
	number := slot.Quantity
	if slot.Unlimited {
		number = Unlimited
	}

	available := number >= quantity && c.now().Before(slot.Until)
	return available, number - quantity, nil
}

// ReservedQuantity sums the cart's line quantities for the product.
func ReservedQuantity(cart *models.Cart, productID uuid.UUID) int {
	total := 0
	for _, item := range cart.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}
