package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorKindMatching(t *testing.T) {
	err := DataUnavailable("no bars for %s", "SPY")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("kind match failed: %v", err)
	}
	if errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("cross-kind match must fail: %v", err)
	}

	wrapped := fmt.Errorf("analyze SPY: %w", err)
	if !errors.Is(wrapped, ErrDataUnavailable) {
		t.Fatalf("wrapped kind match failed: %v", wrapped)
	}
	if KindOf(wrapped) != KindDataUnavailable {
		t.Fatalf("KindOf(wrapped) = %q", KindOf(wrapped))
	}
}

func TestModelUnavailableUnwraps(t *testing.T) {
	cause := errors.New("read artifact: no such file")
	err := ModelUnavailable(cause)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("kind match failed: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must survive wrapping: %v", err)
	}
}

func TestKindOfUntypedError(t *testing.T) {
	if k := KindOf(errors.New("plain")); k != "" {
		t.Fatalf("untyped error must have no kind, got %q", k)
	}
	if k := KindOf(nil); k != "" {
		t.Fatalf("nil error must have no kind, got %q", k)
	}
}
