// Package didlog defines the wire types for a did:tdw log — entries,
// parameters deltas, the DID Document, and proof records — and the fetcher
// that retrieves and deserializes a log from its HTTPS location.
package didlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/stackdump/tdw-resolver/internal/errs"
)

// ProofPurpose is a closed variant: only these two purposes are accepted, so
// the deserializer rejects an unknown purpose outright rather than passing
// it through as an opaque string (per spec design note on closed variants).
type ProofPurpose string

const (
	ProofPurposeAuthentication  ProofPurpose = "authentication"
	ProofPurposeAssertionMethod ProofPurpose = "assertionMethod"
)

func (p *ProofPurpose) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch ProofPurpose(s) {
	case ProofPurposeAuthentication, ProofPurposeAssertionMethod:
		*p = ProofPurpose(s)
		return nil
	default:
		return fmt.Errorf("didlog: unknown proofPurpose %q", s)
	}
}

// Proof is a single proof record attached to a log entry. Cryptographic
// validation of proofValue is out of scope; only structural presence is
// checked elsewhere (internal/verify).
type Proof struct {
	Type               string       `json:"type"`
	Created            int64        `json:"created"`
	VerificationMethod string       `json:"verificationMethod"`
	ProofPurpose       ProofPurpose `json:"proofPurpose"`
	ProofValue         string       `json:"proofValue"`
	Challenge          string       `json:"challenge,omitempty"`
}

// Parameters is the delta an entry declares over the active parameter
// state. Pointer/nil-slice fields distinguish "absent, inherit" from
// "present, replace" — required by the reducer's replace-if-present rules.
type Parameters struct {
	Method        string   `json:"method"`
	SCID          *string  `json:"scid,omitempty"`
	UpdateKeys    []string `json:"updateKeys,omitempty"`
	Prerotation   *bool    `json:"prerotation,omitempty"`
	NextKeyHashes []string `json:"nextKeyHashes,omitempty"`
	Portable      *bool    `json:"portable,omitempty"`
	Deactivated   *bool    `json:"deactivated,omitempty"`
	TTL           *uint64  `json:"ttl,omitempty"`
}

// Document is the DID Document carried in an entry's "state" field. It is
// backed by the raw decoded object so that fields this resolver doesn't
// interpret still round-trip byte-faithfully into the hash preimage —
// dropping an unrecognized field would silently change the entry's content
// hash and reject an otherwise-valid log.
type Document map[string]json.RawMessage

// VerificationMethod is a decoded view of one verificationMethod entry;
// accessed via Document.VerificationMethods, never stored separately from
// the raw Document.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// Service is a decoded view of one service entry.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

func (d Document) field(name string, out interface{}) error {
	raw, ok := d[name]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// ID returns the document's "id" field.
func (d Document) ID() (string, error) {
	var id string
	if err := d.field("id", &id); err != nil {
		return "", fmt.Errorf("didlog: decode document id: %w", err)
	}
	return id, nil
}

// Context returns the document's "@context" field.
func (d Document) Context() ([]string, error) {
	var ctx []string
	if err := d.field("@context", &ctx); err != nil {
		return nil, fmt.Errorf("didlog: decode document @context: %w", err)
	}
	return ctx, nil
}

// Deactivated returns the document's "deactivated" field, defaulting to
// false when absent.
func (d Document) Deactivated() (bool, error) {
	var deactivated bool
	if err := d.field("deactivated", &deactivated); err != nil {
		return false, fmt.Errorf("didlog: decode document deactivated: %w", err)
	}
	return deactivated, nil
}

// VerificationMethods returns the document's "verificationMethod" array.
func (d Document) VerificationMethods() ([]VerificationMethod, error) {
	var vms []VerificationMethod
	if err := d.field("verificationMethod", &vms); err != nil {
		return nil, fmt.Errorf("didlog: decode verificationMethod: %w", err)
	}
	return vms, nil
}

// Services returns the document's "service" array.
func (d Document) Services() ([]Service, error) {
	var svcs []Service
	if err := d.field("service", &svcs); err != nil {
		return nil, fmt.Errorf("didlog: decode service: %w", err)
	}
	return svcs, nil
}

// Entry is one line of a did:tdw log. LastVersionId is deliberately absent
// here — per the data model it is never serialized, and is instead threaded
// explicitly between orchestrator steps as the predecessor linkage.
//
// Proof has no "omitempty": the hash preimage for an entry with no proofs
// yet (proof = []) must marshal as "proof":[], not an omitted key, and this
// struct doubles as that preimage once callers zero it out (internal/verify).
type Entry struct {
	VersionID   string     `json:"versionId"`
	VersionTime int64      `json:"versionTime"`
	Parameters  Parameters `json:"parameters"`
	State       Document   `json:"state"`
	Proof       []Proof    `json:"proof"`
}

// Fetcher retrieves a did:tdw log resource and deserializes its entries.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher builds a Fetcher around client. A nil client falls back to
// http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{Client: client}
}

// Fetch issues a GET to url, treats any non-2xx response as
// errs.ResolutionFailed, and deserializes each non-blank line of the body
// as an Entry. Malformed JSON on any line is errs.InvalidDIDLog.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.UrlError, url, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.RequestError, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.New(errs.ResolutionFailed, fmt.Sprintf("%s: status %d", url, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.RequestError, "read response body", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, errs.Wrap(errs.InvalidDIDLog, "decode log entry", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.InvalidDIDLog, "scan log body", err)
	}

	return entries, nil
}
