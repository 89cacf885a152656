package catalog

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

func TestValidateRelation(t *testing.T) {
	t.Parallel()

	single := &models.Product{ID: uuid.New(), Kind: enums.ProductKindSingle}
	other := &models.Product{ID: uuid.New(), Kind: enums.ProductKindGroup}
	variant := &models.Product{ID: uuid.New(), Kind: enums.ProductKindVariant}

	relation := &models.Relation{BaseID: single.ID, ProductID: other.ID, Kind: "cross-sell"}
	if err := ValidateRelation(relation, single, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	self := &models.Relation{BaseID: single.ID, ProductID: single.ID}
	typed := pkgerrors.As(ValidateRelation(self, single, single))
	if typed == nil || typed.Message() != pkgerrors.KeyRelationSelf {
		t.Fatalf("expected self-relation key, got %v", typed)
	}

	withVariant := &models.Relation{BaseID: single.ID, ProductID: variant.ID}
	typed = pkgerrors.As(ValidateRelation(withVariant, single, variant))
	if typed == nil || typed.Message() != pkgerrors.KeyRelationHasVariant {
		t.Fatalf("expected variant-relation key, got %v", typed)
	}

	baseVariant := &models.Relation{BaseID: variant.ID, ProductID: single.ID}
	typed = pkgerrors.As(ValidateRelation(baseVariant, variant, single))
	if typed == nil || typed.Message() != pkgerrors.KeyRelationHasVariant {
		t.Fatalf("expected variant-relation key, got %v", typed)
	}
}
