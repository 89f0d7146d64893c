package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCategory(t *testing.T) {
	t.Parallel()

	err := NewTypedError(ValidationError, "invalid input", nil)
	if !IsCategory(err, ValidationError) {
		t.Fatalf("expected validation category match")
	}
	if IsCategory(err, NotFoundError) {
		t.Fatalf("expected not-found category mismatch")
	}

	wrapped := errors.New("wrap: " + err.Error())
	if IsCategory(wrapped, ValidationError) {
		t.Fatalf("plain wrapped string error must not match typed category")
	}

	joined := errors.Join(err, errors.New("other"))
	if !IsCategory(joined, ValidationError) {
		t.Fatalf("expected category match through errors.Join")
	}
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", NewTypedError(CastError, "could not cast", nil))
	category, ok := CategoryOf(err)
	if !ok || category != CastError {
		t.Fatalf("expected CastError, got %q (ok=%t)", category, ok)
	}

	if _, ok := CategoryOf(errors.New("plain")); ok {
		t.Fatalf("expected plain error to have no category")
	}
	if _, ok := CategoryOf(nil); ok {
		t.Fatalf("expected nil error to have no category")
	}
}

func TestIsDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "invalid_path", err: NewTypedError(InvalidPathError, "bad", nil), want: true},
		{name: "invalid_event", err: NewTypedError(InvalidEventError, "bad", nil), want: true},
		{name: "transport", err: NewTypedError(TransportError, "down", nil), want: false},
		{name: "untyped", err: errors.New("plain"), want: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got := IsDomainError(test.err); got != test.want {
				t.Fatalf("expected %t, got %t", test.want, got)
			}
		})
	}
}

func TestTypedErrorMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	if got := NewTypedError(InternalError, "failed", cause).Error(); got != "failed: boom" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := NewTypedError(InternalError, "", nil).Error(); got != string(InternalError) {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(NewTypedError(InternalError, "failed", cause), cause) {
		t.Fatalf("expected cause to unwrap")
	}
}
