package cart

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzubak/shopcore-backend/internal/availability"
	"github.com/mzubak/shopcore-backend/internal/catalog"
	"github.com/mzubak/shopcore-backend/internal/modifiers"
	"github.com/mzubak/shopcore-backend/internal/pricing"
	"github.com/mzubak/shopcore-backend/pkg/db"
	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/metrics"
)

// Service is the cart workflow surface.
type Service interface {
	Create(ctx context.Context, customerID *uuid.UUID) (*models.Cart, error)
	Get(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	ApplyCode(ctx context.Context, cartID uuid.UUID, code string) (*models.Cart, error)
}

// AddItemInput carries one add-to-cart request.
type AddItemInput struct {
	CartID    uuid.UUID `validate:"required"`
	ProductID uuid.UUID `validate:"required"`
	Quantity  int       `validate:"required,gt=0"`
}

type service struct {
	client       *db.Client
	repo         *Repository
	products     *catalog.Repository
	checker      *availability.Checker
	resolver     *modifiers.Resolver
	modifierRepo *modifiers.Repository
	engine       *modifiers.Engine
	taxes        pricing.CategorizationProvider
	metrics      *metrics.EngineMetrics
	validate     *validator.Validate
	now          func() time.Time
}

// NewService wires the cart workflows.
func NewService(
	client *db.Client,
	repo *Repository,
	products *catalog.Repository,
	checker *availability.Checker,
	resolver *modifiers.Resolver,
	modifierRepo *modifiers.Repository,
	engine *modifiers.Engine,
	taxes pricing.CategorizationProvider,
	engineMetrics *metrics.EngineMetrics,
) Service {
	return &service{
		client:       client,
		repo:         repo,
		products:     products,
		checker:      checker,
		resolver:     resolver,
		modifierRepo: modifierRepo,
		engine:       engine,
		taxes:        taxes,
		metrics:      engineMetrics,
		validate:     validator.New(),
		now:          time.Now,
	}
}

func (s *service) Create(ctx context.Context, customerID *uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{CustomerID: customerID}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Get(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	return s.repo.FindByID(ctx, cartID)
}

// AddItem checks availability against current stock plus the cart's existing
// reservation, then merges into an existing line or opens a new one.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.Cart, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid add item input")
	}

	cart, err := s.repo.FindByID(ctx, input.CartID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	ok, _, err := s.checker.IsAvailable(ctx, product, input.Quantity, cart)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.Validation(pkgerrors.KeyProductUnavailable)
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindItem(ctx, cart.ID, product.ID)
		if err != nil {
			return err
		}
		if item == nil {
			item = &models.CartItem{CartID: cart.ID, ProductID: product.ID}
		}
		item.Quantity += input.Quantity
		return repo.SaveItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.requote(ctx, cart.ID)
}

// UpdateItemQuantity sets the line quantity outright; zero removes the line.
// The availability check covers only the increase over the cart's current
// hold.
func (s *service) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(ctx, cartID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if delta := quantity - item.Quantity; delta > 0 {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		ok, _, err := s.checker.IsAvailable(ctx, product, delta, cart)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.Validation(pkgerrors.KeyProductUnavailable)
		}
	}

	item.Quantity = quantity
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return s.requote(ctx, cartID)
}

func (s *service) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*models.Cart, error) {
	if err := s.repo.DeleteItem(ctx, cartID, productID); err != nil {
		return nil, err
	}
	return s.requote(ctx, cartID)
}

func (s *service) Clear(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	if err := s.repo.ClearItems(ctx, cartID); err != nil {
		return nil, err
	}
	return s.requote(ctx, cartID)
}

// ApplyCode validates the discount code, attaches it to the cart and bumps
// its use counter, both in one transaction. Re-applying an already attached
// code is a no-op requote, not a second redemption.
func (s *service) ApplyCode(ctx context.Context, cartID uuid.UUID, code string) (*models.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	discountCode, err := s.modifierRepo.FindDiscountCode(ctx, code)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.Validation(pkgerrors.KeyCodeInvalid)
		}
		return nil, err
	}
	if !discountCode.IsValidAt(s.now()) {
		return nil, pkgerrors.Validation(pkgerrors.KeyCodeInvalid)
	}

	attached, err := s.repo.HasCode(ctx, cartID, code)
	if err != nil {
		return nil, err
	}
	if attached {
		return s.requote(ctx, cartID)
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.AttachCode(ctx, &models.CartDiscountCode{CartID: cart.ID, Code: code}); err != nil {
			return err
		}
		return s.modifierRepo.WithTx(tx).UseDiscountCode(ctx, code, 1)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncCodeRedeemed(code)

	return s.requote(ctx, cartID)
}

// requote recomputes every line total and the cart total from scratch: sell
// price per unit times quantity, then item modifiers, then cart-kind
// modifiers over the sum.
func (s *service) requote(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	prices := pricing.NewEngine(s.taxes)
	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart.Total = decimal.Zero
		cart.ExtraRows = nil

		for i := range cart.Items {
			item := &cart.Items[i]
			if item.Product == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart item product not loaded")
			}

			price, err := prices.Price(ctx, item.Product)
			if err != nil {
				return err
			}
			item.LineTotal = price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			item.ExtraRows = nil

			mods, err := s.resolver.ForProduct(ctx, item.Product)
			if err != nil {
				return err
			}
			s.engine.ApplyToCartItem(item, cart, mods)

			if err := repo.SaveItem(ctx, item); err != nil {
				return err
			}
			cart.Total = cart.Total.Add(item.LineTotal)
		}

		cartMods, err := s.modifierRepo.CartModifiers(ctx)
		if err != nil {
			return err
		}
		s.engine.ApplyToCart(cart, cartMods)

		return repo.SaveTotals(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}
