package didlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stackdump/tdw-resolver/internal/errs"
)

func TestFetch_ParsesNonBlankLines(t *testing.T) {
	body := `{"versionId":"1-h1","versionTime":1000,"parameters":{"method":"did:tdw:0.4"},"state":{"id":"did:tdw:x:example.com"},"proof":[]}

{"versionId":"2-h2","versionTime":2000,"parameters":{"method":"did:tdw:0.4"},"state":{"id":"did:tdw:x:example.com"},"proof":[]}
`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	entries, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].VersionID != "1-h1" || entries[1].VersionID != "2-h2" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errs.Is(err, errs.ResolutionFailed) {
		t.Errorf("expected ResolutionFailed, got %v", err)
	}
}

func TestFetch_MalformedLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json}\n"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errs.Is(err, errs.InvalidDIDLog) {
		t.Errorf("expected InvalidDIDLog, got %v", err)
	}
}

func TestProofPurpose_RejectsUnknown(t *testing.T) {
	var p Proof
	err := json.Unmarshal([]byte(`{"type":"t","verificationMethod":"vm","proofValue":"v","proofPurpose":"somethingElse"}`), &p)
	if err == nil {
		t.Fatal("expected unmarshal to fail for unknown proofPurpose")
	}
}

func TestProofPurpose_AcceptsKnown(t *testing.T) {
	var p Proof
	err := json.Unmarshal([]byte(`{"type":"t","verificationMethod":"vm","proofValue":"v","proofPurpose":"authentication"}`), &p)
	if err != nil {
		t.Fatalf("expected unmarshal to succeed: %v", err)
	}
	if p.ProofPurpose != ProofPurposeAuthentication {
		t.Errorf("expected authentication, got %s", p.ProofPurpose)
	}
}

func TestDocument_RoundTripsUnknownFields(t *testing.T) {
	raw := []byte(`{"id":"did:tdw:x:example.com","@context":["https://www.w3.org/ns/did/v1"],"extraField":{"nested":true}}`)
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	id, err := doc.ID()
	if err != nil || id != "did:tdw:x:example.com" {
		t.Errorf("unexpected id: %v, err: %v", id, err)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var roundTripped map[string]json.RawMessage
	if err := json.Unmarshal(out, &roundTripped); err != nil {
		t.Fatalf("unmarshal round-tripped output failed: %v", err)
	}
	if _, ok := roundTripped["extraField"]; !ok {
		t.Error("expected extraField to survive round trip")
	}
}

func TestDocument_Deactivated_DefaultsFalse(t *testing.T) {
	doc := Document{"id": json.RawMessage(`"did:tdw:x:example.com"`)}
	deactivated, err := doc.Deactivated()
	if err != nil {
		t.Fatalf("Deactivated failed: %v", err)
	}
	if deactivated {
		t.Error("expected deactivated to default to false")
	}
}
