package did

import (
	"testing"

	"github.com/stackdump/tdw-resolver/internal/errs"
)

func TestParse_NoPortNoPath(t *testing.T) {
	id, err := Parse("did:tdw:abc123:example.com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.SCID != "abc123" || id.Host != "example.com" || id.Port != nil || id.Path != "" {
		t.Errorf("unexpected identifier: %+v", id)
	}
	if got := id.LogURL(); got != "https://example.com/.well-known/did.jsonl" {
		t.Errorf("unexpected log URL: %s", got)
	}
}

func TestParse_PortAndPath(t *testing.T) {
	id, err := Parse("did:tdw:abc123:example.com:8080/users/alice")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.SCID != "abc123" || id.Host != "example.com" || id.Path != "users/alice" {
		t.Errorf("unexpected identifier: %+v", id)
	}
	if id.Port == nil || *id.Port != 8080 {
		t.Errorf("expected port 8080, got %+v", id.Port)
	}
	if got := id.LogURL(); got != "https://example.com:8080/users/alice/did.jsonl" {
		t.Errorf("unexpected log URL: %s", got)
	}
	if got := id.PathURL("whois"); got != "https://example.com:8080/users/alice/whois" {
		t.Errorf("unexpected sibling URL: %s", got)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"did:tdw:abc123:example.com",
		"did:tdw:abc123:example.com:8080",
		"did:tdw:abc123:example.com:8080/users/alice",
		"did:tdw:abc123:example.com/a/b/c",
	} {
		id, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", raw, err)
		}
		if got := id.String(); got != raw {
			t.Errorf("round trip mismatch: Parse(%q).String() = %q", raw, got)
		}
	}
}

func TestParse_InvalidFormats(t *testing.T) {
	for _, raw := range []string{
		"did:web:example.com",
		"did:tdw:example.com",
		"did:tdw:abc123",
		"tdw:abc123:example.com",
	} {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("expected error parsing %q", raw)
			continue
		}
		if !errs.Is(err, errs.InvalidDIDFormat) {
			t.Errorf("expected InvalidDIDFormat for %q, got %v", raw, err)
		}
	}
}
