package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataConflictIsBadRequest(t *testing.T) {
	meta := MetadataFor(CodeConflict)
	if meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected conflict to map to 400, got %d", meta.HTTPStatus)
	}
}

func TestMetadataDomainRuleIsBadRequest(t *testing.T) {
	meta := MetadataFor(CodeDomainRule)
	if meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected domain rule to map to 400, got %d", meta.HTTPStatus)
	}
}

func TestMetadataUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected fallback to 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeInternal, cause, "wrapped")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to match cause")
	}
	if err.Code() != CodeInternal {
		t.Fatalf("expected internal code, got %s", err.Code())
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	typed := New(CodeNotFound, "property not found")
	wrapped := fmt.Errorf("handler: %w", typed)

	got := As(wrapped)
	if got == nil {
		t.Fatal("expected typed error")
	}
	if got.Code() != CodeNotFound {
		t.Fatalf("expected not found code, got %s", got.Code())
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if As(errors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(CodeDependency, cause, "lookup user")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected chain with cause, got %v", d.Chain)
	}
}
