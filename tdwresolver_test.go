package tdwresolver

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestResolve_InvalidDIDFormat(t *testing.T) {
	_, err := Resolve(context.Background(), "not-a-did", nil)
	if err == nil {
		t.Fatal("expected an error for an invalid did string")
	}
	if !Is(err, InvalidDIDFormat) {
		t.Errorf("expected InvalidDIDFormat, got %v", err)
	}
}

func TestNew_BuildsUsableResolver(t *testing.T) {
	r := New(nil, nil, zerolog.Nop())
	if r == nil {
		t.Fatal("expected non-nil resolver")
	}
	if _, err := r.Resolve(context.Background(), "not-a-did", nil); err == nil {
		t.Fatal("expected an error for an invalid did string")
	}
}
