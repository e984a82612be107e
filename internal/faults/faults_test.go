package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestFaultError(t *testing.T) {
	f := Precondition("missing API key")
	want := "precondition: missing API key"
	if f.Error() != want {
		t.Errorf("Error() = %q, want %q", f.Error(), want)
	}

	cause := errors.New("connection refused")
	tf := Transport("ai request failed", cause)
	want = "transport: ai request failed: connection refused"
	if tf.Error() != want {
		t.Errorf("Error() = %q, want %q", tf.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	f := Format("bad json", cause)

	if !errors.Is(f, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	wrapped := fmt.Errorf("scenario generation: %w", f)
	var got *Fault
	if !errors.As(wrapped, &got) {
		t.Fatal("errors.As should find the Fault through a %w chain")
	}
	if got.Category != CategoryFormat {
		t.Errorf("category = %q, want %q", got.Category, CategoryFormat)
	}
}

func TestIsMatchesOnCategory(t *testing.T) {
	f := Transport("request failed", nil)
	if !errors.Is(f, &Fault{Category: CategoryTransport}) {
		t.Error("faults of the same category should match")
	}
	if errors.Is(f, &Fault{Category: CategoryFormat}) {
		t.Error("faults of different categories should not match")
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"precondition", Precondition("empty"), CategoryPrecondition},
		{"transport", Transport("net", nil), CategoryTransport},
		{"format", Format("json", nil), CategoryFormat},
		{"wrapped", fmt.Errorf("outer: %w", Format("json", nil)), CategoryFormat},
		{"plain error", errors.New("plain"), CategoryInternal},
		{"nil cause internal", Internal("odd", nil), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.want {
				t.Errorf("CategoryOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
