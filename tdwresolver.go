// Package tdwresolver resolves did:tdw identifiers: given an identifier
// string and an optional version selector, it fetches the identifier's
// append-only log, verifies it end to end (hash chain, genesis
// self-certification, version sequencing, pre-rotation discipline), and
// returns the DID Document effective at the requested point.
//
// This is the thin library facade over internal/resolve.Orchestrator,
// mirroring the original source's lib.rs::resolve free function over its
// Resolver struct.
package tdwresolver

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/stackdump/tdw-resolver/internal/cache"
	"github.com/stackdump/tdw-resolver/internal/didlog"
	"github.com/stackdump/tdw-resolver/internal/errs"
	"github.com/stackdump/tdw-resolver/internal/resolve"
)

// Re-exported so callers can branch on error kind without importing
// internal/errs directly.
type (
	ErrorKind = errs.Kind
	Error     = errs.Error
)

const (
	InvalidDIDFormat                     = errs.InvalidDIDFormat
	ResolutionFailed                     = errs.ResolutionFailed
	InvalidDIDLog                        = errs.InvalidDIDLog
	InvalidProof                         = errs.InvalidProof
	InvalidVersionId                     = errs.InvalidVersionId
	InvalidVersionNumber                 = errs.InvalidVersionNumber
	InvalidEntryHash                     = errs.InvalidEntryHash
	InvalidVersionTime                   = errs.InvalidVersionTime
	FutureVersionTime                    = errs.FutureVersionTime
	InvalidSCID                          = errs.InvalidSCID
	VersionNotFound                      = errs.VersionNotFound
	NoDocumentFound                      = errs.NoDocumentFound
	CannotDeactivatePreRotation          = errs.CannotDeactivatePreRotation
	CannotEnablePortabilityAfterCreation = errs.CannotEnablePortabilityAfterCreation
	KeyNotPreRotated                     = errs.KeyNotPreRotated
	MissingNextKeyHashes                 = errs.MissingNextKeyHashes
)

// Options selects which version of a DID Document to resolve.
type Options = resolve.Options

// Metadata describes the circumstances of a resolution call.
type Metadata = resolve.Metadata

// Result is the outcome of a successful resolution: the selected DID
// Document plus metadata about the call.
type Result = resolve.Result

// Is reports whether err is a tagged error of the given kind.
func Is(err error, kind ErrorKind) bool {
	return errs.Is(err, kind)
}

// Resolver wraps the collaborators a resolve call needs. The zero value is
// not usable; build one with New.
type Resolver struct {
	orchestrator *resolve.Orchestrator
}

// New builds a Resolver using httpClient for log fetches (http.DefaultClient
// if nil), c as an optional on-disk log cache (nil disables caching), and
// logger for structured per-step tracing (zerolog.Nop() if zero value).
func New(httpClient *http.Client, c *cache.Cache, logger zerolog.Logger) *Resolver {
	fetcher := didlog.NewFetcher(httpClient)
	return &Resolver{orchestrator: resolve.NewOrchestrator(fetcher, c, logger)}
}

// Resolve runs the full did:tdw resolution pipeline for rawDID.
func (r *Resolver) Resolve(ctx context.Context, rawDID string, opts *Options) (*Result, error) {
	return r.orchestrator.Resolve(ctx, rawDID, opts)
}

// Resolve is the package-level convenience form of Resolver.Resolve, using
// http.DefaultClient, no cache, and a no-op logger — the equivalent of the
// original source's standalone resolve_did function.
func Resolve(ctx context.Context, rawDID string, opts *Options) (*Result, error) {
	return New(http.DefaultClient, nil, zerolog.Nop()).Resolve(ctx, rawDID, opts)
}
