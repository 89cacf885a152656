package modifiers

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

func TestValidateModifierDiscountMustBeNegative(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		modifier models.Modifier
		wantErr  bool
	}{
		{
			name: "negative percent ok",
			modifier: models.Modifier{
				Kind:    enums.ModifierKindDiscount,
				Percent: decimal.NewNullDecimal(decimal.NewFromInt(-10)),
			},
		},
		{
			name: "positive percent rejected",
			modifier: models.Modifier{
				Kind:    enums.ModifierKindDiscount,
				Percent: decimal.NewNullDecimal(decimal.NewFromInt(10)),
			},
			wantErr: true,
		},
		{
			name: "zero percent rejected",
			modifier: models.Modifier{
				Kind:    enums.ModifierKindDiscount,
				Percent: decimal.NewNullDecimal(decimal.Zero),
			},
			wantErr: true,
		},
		{
			name: "negative amount ok",
			modifier: models.Modifier{
				Kind:   enums.ModifierKindDiscount,
				Amount: decimal.NewFromInt(-50),
			},
		},
		{
			name: "positive amount rejected",
			modifier: models.Modifier{
				Kind:   enums.ModifierKindDiscount,
				Amount: decimal.NewFromInt(50),
			},
			wantErr: true,
		},
		{
			name: "standard kind unconstrained",
			modifier: models.Modifier{
				Kind:   enums.ModifierKindStandard,
				Amount: decimal.NewFromInt(50),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateModifier(&tc.modifier)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr {
				typed := pkgerrors.As(err)
				if typed == nil || typed.Message() != pkgerrors.KeyDiscountNotNegative {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestValidateCondition(t *testing.T) {
	t.Parallel()

	if err := ValidateCondition(&models.ModifierCondition{Path: ConditionPriceLessThan}); err != nil {
		t.Fatalf("unexpected error for known path: %v", err)
	}

	err := ValidateCondition(&models.ModifierCondition{})
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != pkgerrors.KeyNoConditionPath {
		t.Fatalf("expected missing-path error, got %v", err)
	}

	err = ValidateCondition(&models.ModifierCondition{Path: "no-such-condition"})
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != pkgerrors.KeyUnknownConditionPath {
		t.Fatalf("expected unknown-path error, got %v", err)
	}
}

func TestRegisterConditionExtendsRegistry(t *testing.T) {
	registered := Condition{
		Name: "Always",
		Item: func(*models.CartItem, decimal.Decimal) bool { return true },
	}
	RegisterCondition("always", registered)

	if _, ok := ResolveCondition("always"); !ok {
		t.Fatal("expected registered condition to resolve")
	}
	if err := ValidateCondition(&models.ModifierCondition{Path: "always"}); err != nil {
		t.Fatalf("registered path must validate: %v", err)
	}
}
