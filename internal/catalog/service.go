package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/pkg/db"
	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
	"github.com/mzubak/shopcore-backend/pkg/metrics"
	"github.com/mzubak/shopcore-backend/pkg/text"
)

// Service exposes catalog management operations.
type Service interface {
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	CreateVariant(ctx context.Context, group *Group, combo Combination) (*models.Product, error)
	CreateAllVariants(ctx context.Context, group *Group) ([]*models.Product, error)
	DeleteVariant(ctx context.Context, group *Group, id uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Code        string            `validate:"required"`
	Name        string            `validate:"required"`
	Slug        string            `validate:"omitempty"`
	Caption     string            `validate:"omitempty"`
	Description string            `validate:"omitempty"`
	Kind        enums.ProductKind `validate:"required"`

	GroupID        *uuid.UUID
	CategoryID     *uuid.UUID
	BrandID        *uuid.UUID
	ManufacturerID *uuid.UUID
	TaxID          *uuid.UUID

	UnitPrice       *decimal.Decimal `validate:"omitempty"`
	DiscountPercent *decimal.Decimal `validate:"omitempty"`
	Discountable    *bool
	Quantity        *int `validate:"omitempty,min=0"`

	AvailableAttributeIDs []uuid.UUID
	Active                bool
}

type service struct {
	client   *db.Client
	repo     *Repository
	metrics  *metrics.EngineMetrics
	validate *validator.Validate
	now      func() time.Time
}

// NewService builds the catalog service on top of the repository.
func NewService(client *db.Client, repo *Repository, engineMetrics *metrics.EngineMetrics) Service {
	return &service{
		client:   client,
		repo:     repo,
		metrics:  engineMetrics,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *service) GetGroup(ctx context.Context, id uuid.UUID) (*Group, error) {
	return s.repo.LoadGroup(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product input")
	}

	slug := input.Slug
	if slug == "" {
		slug = text.Slugify(input.Name)
	}

	product := &models.Product{
		Code:           input.Code,
		Name:           input.Name,
		Slug:           slug,
		Caption:        input.Caption,
		Description:    input.Description,
		Kind:           input.Kind,
		GroupID:        input.GroupID,
		CategoryID:     input.CategoryID,
		BrandID:        input.BrandID,
		ManufacturerID: input.ManufacturerID,
		TaxID:          input.TaxID,
		Quantity:       input.Quantity,
		Active:         input.Active,
		Discountable:   true,
		Published:      s.now().UTC(),
	}
	if input.Discountable != nil {
		product.Discountable = *input.Discountable
	}
	if input.UnitPrice != nil {
		product.UnitPrice = decimal.NewNullDecimal(*input.UnitPrice)
	}
	if input.DiscountPercent != nil {
		product.DiscountPercent = decimal.NewNullDecimal(*input.DiscountPercent)
	}
	for _, attrID := range input.AvailableAttributeIDs {
		product.AvailableAttributes = append(product.AvailableAttributes, models.Attribute{ID: attrID})
	}

	if err := ValidateProduct(product, false); err != nil {
		return nil, err
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product.Position = s.derivePosition(ctx, repo, product.Published)
		if err := repo.CreateProduct(ctx, product); err != nil {
			if pkgerrors.IsDuplicate(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product code already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// SaveProduct cleans and persists a product. Position is derived from the
// published timestamp; variants adopt their group's position, and saving a
// variant under a single-kind product promotes that product to a group.
func (s *service) SaveProduct(ctx context.Context, product *models.Product) error {
	variantCount, err := s.repo.CountVariants(ctx, product.ID)
	if err != nil {
		return err
	}
	if err := ValidateProduct(product, variantCount > 0); err != nil {
		return err
	}

	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if product.IsVariant() {
			group, err := repo.FindByID(ctx, *product.GroupID)
			if err != nil {
				return err
			}
			product.Position = group.Position
			if group.IsSingle() {
				if err := repo.UpdateKind(ctx, group.ID, enums.ProductKindGroup); err != nil {
					return err
				}
			}
			return repo.SaveProduct(ctx, product)
		}

		// Keep the position stable when the published timestamp is unchanged.
		if stored, err := repo.FindByID(ctx, product.ID); err == nil {
			if stored.Published.Unix() == product.Published.Unix() {
				return repo.SaveProduct(ctx, product)
			}
		} else if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
			return err
		}

		product.Position = s.derivePosition(ctx, repo, product.Published)
		if err := repo.SaveProduct(ctx, product); err != nil {
			return err
		}
		if product.IsGroup() {
			return repo.UpdateVariantPositions(ctx, product.ID, product.Position)
		}
		return nil
	})
}

// derivePosition packs the published timestamp into a unique ordering value:
// second resolution times 1000, incremented when products share the second.
func (s *service) derivePosition(ctx context.Context, repo *Repository, published time.Time) int64 {
	base := published.Unix() * 1000
	if max, ok, err := repo.MaxPositionInRange(ctx, base, base+1000); err == nil && ok {
		return max + 1
	}
	return base
}

func (s *service) CreateVariant(ctx context.Context, group *Group, combo Combination) (*models.Product, error) {
	var variant *models.Product
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		variant, _, err = s.createVariant(ctx, s.repo.WithTx(tx), group, combo)
		return err
	})
	if err != nil {
		return nil, err
	}
	group.Invalidate()
	return variant, nil
}

// CreateAllVariants materializes every combination lacking a variant inside
// one transaction, so partial variant sets are never visible.
func (s *service) CreateAllVariants(ctx context.Context, group *Group) ([]*models.Product, error) {
	var created []*models.Product
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, combo := range group.Combinations() {
			if combo.VariantID != nil {
				continue
			}
			variant, isNew, err := s.createVariant(ctx, repo, group, combo)
			if err != nil {
				return err
			}
			if isNew {
				created = append(created, variant)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	group.Invalidate()
	return created, nil
}

// createVariant materializes one combination. Idempotent: an existing
// variant for the combination or its derived code is returned as is, and a
// duplicate-key race resolves to the winning row.
func (s *service) createVariant(ctx context.Context, repo *Repository, group *Group, combo Combination) (*models.Product, bool, error) {
	if combo.VariantID != nil {
		variant, err := repo.FindByID(ctx, *combo.VariantID)
		return variant, false, err
	}

	slug := combo.Slug
	for n := 1; ; n++ {
		exists, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return nil, false, err
		}
		if !exists {
			break
		}
		slug = fmt.Sprintf("%s-%d", combo.Slug, n)
	}

	code := combo.Code
	if code == "" {
		count, err := repo.CountVariants(ctx, group.Product.ID)
		if err != nil {
			return nil, false, err
		}
		for n := count + 1; ; n++ {
			code = fmt.Sprintf("%s-%d", group.Product.Code, n)
			exists, err := repo.CodeExists(ctx, code)
			if err != nil {
				return nil, false, err
			}
			if !exists {
				break
			}
		}
	}

	if existing, err := repo.FindVariantByCode(ctx, group.Product.ID, code); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	groupID := group.Product.ID
	variant := &models.Product{
		Code:         code,
		Name:         combo.Name,
		Slug:         slug,
		Kind:         enums.ProductKindVariant,
		GroupID:      &groupID,
		Discountable: group.Product.Discountable,
		Position:     group.Product.Position,
		Published:    s.now().UTC(),
	}
	if err := repo.CreateProduct(ctx, variant); err != nil {
		if pkgerrors.IsDuplicate(err) {
			// Lost the creation race: the committed row is the variant.
			existing, lookupErr := repo.FindVariantByCode(ctx, group.Product.ID, code)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	values := make([]models.AttributeValue, 0, len(combo.Attributes))
	for _, v := range combo.Attributes {
		value := models.AttributeValue{
			AttributeID: v.AttributeID,
			ProductID:   variant.ID,
		}
		if !(v.Value == "" && v.Nullable) {
			value.ChoiceID = v.ChoiceID
		}
		values = append(values, value)
	}
	if err := ValidateVariantValues(values); err != nil {
		return nil, false, err
	}
	if err := repo.CreateAttributeValues(ctx, values); err != nil {
		return nil, false, err
	}

	s.metrics.IncVariantCreated(group.Product.Code)
	return variant, true, nil
}

func (s *service) DeleteVariant(ctx context.Context, group *Group, id uuid.UUID) error {
	if err := s.repo.DeleteVariant(ctx, id); err != nil {
		return err
	}
	group.Invalidate()
	return nil
}
