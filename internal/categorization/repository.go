package categorization

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
)

// maxTreeDepth caps ancestor walks so a corrupted parent cycle cannot spin
// forever.
const maxTreeDepth = 64

// Repository reads the category, brand and manufacturer trees. Ancestors are
// resolved with recursive parent lookups over the adjacency list.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindCategory loads one category with its tax.
func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("Tax").First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return nil, err
	}
	return &category, nil
}

// CategoryAncestors walks the parent chain bottom-up, nearest parent first.
func (r *Repository) CategoryAncestors(ctx context.Context, category *models.Category) ([]models.Category, error) {
	var ancestors []models.Category
	parentID := category.ParentID
	for depth := 0; parentID != nil && depth < maxTreeDepth; depth++ {
		parent, err := r.FindCategory(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, *parent)
		parentID = parent.ParentID
	}
	return ancestors, nil
}

// IsCategoryActive reports whether the category and its whole parent chain
// are active.
func (r *Repository) IsCategoryActive(ctx context.Context, category *models.Category) (bool, error) {
	if !category.Active {
		return false, nil
	}
	ancestors, err := r.CategoryAncestors(ctx, category)
	if err != nil {
		return false, err
	}
	for _, ancestor := range ancestors {
		if !ancestor.Active {
			return false, nil
		}
	}
	return true, nil
}

// CategoryPath returns the slash-joined slug path from the root to the
// category.
func (r *Repository) CategoryPath(ctx context.Context, category *models.Category) (string, error) {
	ancestors, err := r.CategoryAncestors(ctx, category)
	if err != nil {
		return "", err
	}
	slugs := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		slugs = append(slugs, ancestors[i].Slug)
	}
	slugs = append(slugs, category.Slug)
	return strings.Join(slugs, "/"), nil
}

// CategoryTaxPercent resolves the effective tax for a category: its own tax
// when set, else the nearest ancestor's, else zero. Implements the price
// engine's categorization contract.
func (r *Repository) CategoryTaxPercent(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	category, err := r.FindCategory(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if category.Tax != nil {
		return category.Tax.Percent, nil
	}
	ancestors, err := r.CategoryAncestors(ctx, category)
	if err != nil {
		return decimal.Zero, err
	}
	for _, ancestor := range ancestors {
		if ancestor.Tax != nil {
			return ancestor.Tax.Percent, nil
		}
	}
	return decimal.Zero, nil
}

// CategoryTreeModifierIDs unions the active modifier ids of the category and
// its ancestors, deduped. The caller orders the loaded modifiers.
func (r *Repository) CategoryTreeModifierIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	category, err := r.FindCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	nodeIDs := []uuid.UUID{category.ID}
	ancestors, err := r.CategoryAncestors(ctx, category)
	if err != nil {
		return nil, err
	}
	for _, ancestor := range ancestors {
		nodeIDs = append(nodeIDs, ancestor.ID)
	}
	return r.activeModifierIDs(ctx, "category_modifiers", "category_id", nodeIDs)
}

// CategoryTreeFlags returns the active flags across the category and its
// ancestors, deduped.
func (r *Repository) CategoryTreeFlags(ctx context.Context, id uuid.UUID) ([]models.Flag, error) {
	category, err := r.FindCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	nodeIDs := []uuid.UUID{category.ID}
	ancestors, err := r.CategoryAncestors(ctx, category)
	if err != nil {
		return nil, err
	}
	for _, ancestor := range ancestors {
		nodeIDs = append(nodeIDs, ancestor.ID)
	}
	return r.activeFlags(ctx, "category_flags", "category_id", nodeIDs)
}

// BrandTreeModifierIDs mirrors CategoryTreeModifierIDs for brands.
func (r *Repository) BrandTreeModifierIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	nodeIDs, err := r.brandChainIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.activeModifierIDs(ctx, "brand_modifiers", "brand_id", nodeIDs)
}

// ManufacturerTreeModifierIDs mirrors CategoryTreeModifierIDs for
// manufacturers.
func (r *Repository) ManufacturerTreeModifierIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	nodeIDs, err := r.manufacturerChainIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.activeModifierIDs(ctx, "manufacturer_modifiers", "manufacturer_id", nodeIDs)
}

func (r *Repository) brandChainIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, 4)
	next := &id
	for depth := 0; next != nil && depth < maxTreeDepth; depth++ {
		var brand models.Brand
		if err := r.db.WithContext(ctx).First(&brand, "id = ?", *next).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "brand not found")
			}
			return nil, err
		}
		ids = append(ids, brand.ID)
		next = brand.ParentID
	}
	return ids, nil
}

func (r *Repository) manufacturerChainIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, 4)
	next := &id
	for depth := 0; next != nil && depth < maxTreeDepth; depth++ {
		var manufacturer models.Manufacturer
		if err := r.db.WithContext(ctx).First(&manufacturer, "id = ?", *next).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "manufacturer not found")
			}
			return nil, err
		}
		ids = append(ids, manufacturer.ID)
		next = manufacturer.ParentID
	}
	return ids, nil
}

func (r *Repository) activeModifierIDs(ctx context.Context, joinTable, column string, nodeIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Table(joinTable).
		Joins("JOIN modifiers ON modifiers.id = "+joinTable+".modifier_id").
		Where(joinTable+"."+column+" IN ?", nodeIDs).
		Where("modifiers.active = ?", true).
		Pluck(joinTable+".modifier_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return dedupeIDs(ids), nil
}

func (r *Repository) activeFlags(ctx context.Context, joinTable, column string, nodeIDs []uuid.UUID) ([]models.Flag, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	var flags []models.Flag
	err := r.db.WithContext(ctx).Model(&models.Flag{}).
		Joins("JOIN "+joinTable+" ON "+joinTable+".flag_id = flags.id").
		Where(joinTable+"."+column+" IN ?", nodeIDs).
		Where("flags.active = ?", true).
		Find(&flags).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(flags))
	deduped := make([]models.Flag, 0, len(flags))
	for _, flag := range flags {
		if !seen[flag.ID] {
			seen[flag.ID] = true
			deduped = append(deduped, flag)
		}
	}
	return deduped, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
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
