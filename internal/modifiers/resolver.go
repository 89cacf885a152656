package modifiers

import (
	"context"

	"github.com/google/uuid"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
)

// TreeModifierSource aggregates modifier ids over a categorization tree
// (the node plus its ancestors), deduped.
type TreeModifierSource interface {
	CategoryTreeModifierIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	BrandTreeModifierIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	ManufacturerTreeModifierIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// Resolver collects the modifiers that touch a product: its own, plus the
// group's for variants, plus the categorization trees' for everything else.
type Resolver struct {
	repo  *Repository
	trees TreeModifierSource
}

// NewResolver builds a resolver. trees may be nil when categorization
// modifiers are not wired.
func NewResolver(repo *Repository, trees TreeModifierSource) *Resolver {
	return &Resolver{repo: repo, trees: trees}
}

// ForProduct returns the active modifiers applicable to the product, deduped
// and in position order. The product's group association must be loaded for
// variants.
func (r *Resolver) ForProduct(ctx context.Context, product *models.Product) ([]models.Modifier, error) {
	productIDs := []uuid.UUID{product.ID}
	if product.IsVariant() && product.GroupID != nil {
		productIDs = append(productIDs, *product.GroupID)
	}

	ids, err := r.repo.ProductModifierIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	if !product.IsVariant() && r.trees != nil {
		target := product
		if target.CategoryID != nil {
			treeIDs, err := r.trees.CategoryTreeModifierIDs(ctx, *target.CategoryID)
			if err != nil {
				return nil, err
			}
			ids = append(ids, treeIDs...)
		}
		if target.BrandID != nil {
			treeIDs, err := r.trees.BrandTreeModifierIDs(ctx, *target.BrandID)
			if err != nil {
				return nil, err
			}
			ids = append(ids, treeIDs...)
		}
		if target.ManufacturerID != nil {
			treeIDs, err := r.trees.ManufacturerTreeModifierIDs(ctx, *target.ManufacturerID)
			if err != nil {
				return nil, err
			}
			ids = append(ids, treeIDs...)
		}
	}

	return r.repo.FindActiveByIDs(ctx, dedupe(ids))
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
