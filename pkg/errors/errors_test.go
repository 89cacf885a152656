package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorCodeAndMessage(t *testing.T) {
	err := New(CodeValidation, KeyVariantNoGroup)
	if err.Code() != CodeValidation {
		t.Fatalf("unexpected code %q", err.Code())
	}
	if err.Message() != KeyVariantNoGroup {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "VALIDATION_ERROR: variant_no_group" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "redis unavailable")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be discoverable")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestIsDuplicate(t *testing.T) {
	if !IsDuplicate(stdErrors.New("UNIQUE constraint failed: products.code")) {
		t.Fatalf("expected sqlite unique violation to be classified")
	}
	if !IsDuplicate(stdErrors.New(`duplicate key value violates unique constraint "products_code_key"`)) {
		t.Fatalf("expected postgres message to be classified")
	}
	if IsDuplicate(stdErrors.New("connection refused")) {
		t.Fatalf("did not expect classification")
	}
	if IsDuplicate(nil) {
		t.Fatalf("nil is not a duplicate")
	}
}
