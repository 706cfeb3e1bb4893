package canonical

import (
	"strings"
	"testing"
)

func TestCanonicalize_SortsKeys(t *testing.T) {
	v := map[string]interface{}{"b": 1, "a": 2}
	out, err := Canonicalize(v)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if string(out) != `{"a":2,"b":1}` {
		t.Errorf("expected sorted-key canonical form, got: %s", out)
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	v := map[string]interface{}{"name": "test", "value": 3}
	out1, err := Canonicalize(v)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	out2, err := Canonicalize(v)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if string(out1) != string(out2) {
		t.Errorf("expected deterministic output, got %s vs %s", out1, out2)
	}
}

func TestHash_UsesBase58(t *testing.T) {
	h, err := Hash(map[string]interface{}{"a": 1})
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h == "" {
		t.Fatal("expected non-empty hash")
	}
	for _, c := range h {
		if strings.ContainsRune("0OIl", c) {
			t.Errorf("hash contains non-base58 character %q: %s", c, h)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	v := map[string]interface{}{"x": "y", "z": 9}
	h1, err := Hash(v)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	h2, err := Hash(v)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h1 != h2 {
		t.Errorf("expected deterministic hash, got %s vs %s", h1, h2)
	}
}

func TestHash_DifferentInputsDifferentHashes(t *testing.T) {
	h1, err := Hash(map[string]interface{}{"a": 1})
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	h2, err := Hash(map[string]interface{}{"a": 2})
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h1 == h2 {
		t.Error("expected different inputs to hash differently")
	}
}

func TestAssertPlaceholderSafe_DoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("AssertPlaceholderSafe panicked: %v", r)
		}
	}()
	AssertPlaceholderSafe()
}
