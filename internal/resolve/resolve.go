// Package resolve drives the end-to-end did:tdw resolution pipeline: fetch
// the log, verify and reduce it entry by entry, and select the document
// effective for the caller's version selector. It is the orchestrator
// component; every check it performs is delegated to internal/verify and
// internal/params so this package stays pure sequencing and bookkeeping.
package resolve

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stackdump/tdw-resolver/internal/cache"
	"github.com/stackdump/tdw-resolver/internal/did"
	"github.com/stackdump/tdw-resolver/internal/didlog"
	"github.com/stackdump/tdw-resolver/internal/errs"
	"github.com/stackdump/tdw-resolver/internal/params"
	"github.com/stackdump/tdw-resolver/internal/verify"
)

// ContentType is the media type of a resolved DID Document.
const ContentType = "application/did+json"

// ProcessedEntry is one verified, reduced entry in a resolution's history.
type ProcessedEntry struct {
	VersionID   string
	VersionTime time.Time
	Document    didlog.Document
}

// Options selects which version of a DID Document to resolve. If both
// VersionID and VersionTime are set, VersionID wins.
type Options struct {
	VersionID   string
	VersionTime *time.Time
}

// Metadata describes the circumstances of a resolution call.
type Metadata struct {
	ContentType   string
	Retrieved     time.Time
	Duration      time.Duration
	VersionsCount int
	Error         string
}

// Result is the outcome of a successful resolution.
type Result struct {
	Document didlog.Document
	Metadata Metadata
}

// Orchestrator owns the collaborators a resolve call needs: a log fetcher,
// an optional cache, a logger, and a clock. Orchestrator holds no
// call-local state — every resolve call constructs its own reducer and
// processed history — so one Orchestrator is safe to share and reuse
// across concurrent calls.
type Orchestrator struct {
	Fetcher *didlog.Fetcher
	Cache   *cache.Cache
	Logger  zerolog.Logger
	Now     func() time.Time
}

// NewOrchestrator builds an Orchestrator with the given fetcher. A nil
// cache disables caching; a zero-value logger discards log events. The
// clock is set to time.Now, and a nil Now also falls back to time.Now.
func NewOrchestrator(fetcher *didlog.Fetcher, c *cache.Cache, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Fetcher: fetcher,
		Cache:   c,
		Logger:  logger,
		Now:     time.Now,
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Resolve runs the full pipeline for rawDID and returns the document
// selected by opts, or the first error any pipeline step produces.
func (o *Orchestrator) Resolve(ctx context.Context, rawDID string, opts *Options) (*Result, error) {
	identifier, err := did.Parse(rawDID)
	if err != nil {
		return nil, err
	}
	return o.resolveAgainstLogURL(ctx, rawDID, identifier.LogURL(), opts)
}

// resolveAgainstLogURL is Resolve with the log URL supplied explicitly
// instead of derived from rawDID, so tests can point at an httptest server
// while still exercising the full SCID-bearing identifier.
func (o *Orchestrator) resolveAgainstLogURL(ctx context.Context, rawDID, logURL string, opts *Options) (*Result, error) {
	start := o.now()
	correlationID := uuid.NewString()
	log := o.Logger.With().Str("correlation_id", correlationID).Str("did", rawDID).Logger()

	identifier, err := did.Parse(rawDID)
	if err != nil {
		return nil, err
	}

	entries, err := o.fetchEntries(ctx, logURL, log)
	if err != nil {
		return nil, err
	}

	history, err := o.processEntries(entries, identifier, log)
	if err != nil {
		return nil, err
	}

	selected, err := selectVersion(history, opts)
	if err != nil {
		return nil, err
	}

	retrieved := o.now()
	return &Result{
		Document: selected.Document,
		Metadata: Metadata{
			ContentType:   ContentType,
			Retrieved:     retrieved,
			Duration:      retrieved.Sub(start),
			VersionsCount: len(history),
		},
	}, nil
}

func (o *Orchestrator) fetchEntries(ctx context.Context, logURL string, log zerolog.Logger) ([]didlog.Entry, error) {
	if o.Cache != nil {
		return o.Cache.Fetch(ctx, logURL, func(ctx context.Context) ([]didlog.Entry, error) {
			return o.Fetcher.Fetch(ctx, logURL)
		})
	}
	return o.Fetcher.Fetch(ctx, logURL)
}

// processEntries runs the per-entry pipeline in the published order: reduce
// parameters, verify version sequence, verify entry hash, verify time, on
// genesis verify SCID, enforce pre-rotation, verify proof structure, commit.
func (o *Orchestrator) processEntries(entries []didlog.Entry, identifier *did.Identifier, log zerolog.Logger) ([]ProcessedEntry, error) {
	reducer := params.NewReducer()
	history := make([]ProcessedEntry, 0, len(entries))
	var previousVersionID string
	var previousVersionTime *int64

	for i, entry := range entries {
		k := i + 1

		prevActive := reducer.Active()
		nextActive, err := reducer.Fold(k, entry.Parameters)
		if err != nil {
			return nil, err
		}

		if err := verify.SequenceNumber(entry.VersionID, k); err != nil {
			return nil, err
		}

		linkage := previousVersionID
		if k == 1 {
			linkage = identifier.SCID
		}
		if err := verify.EntryHash(entry, linkage, log); err != nil {
			return nil, err
		}

		if err := verify.Time(entry.VersionTime, previousVersionTime, o.now()); err != nil {
			return nil, err
		}

		if k == 1 {
			if err := verify.SCID(entry, identifier.SCID, log); err != nil {
				return nil, err
			}
		}

		if err := params.CheckPreRotation(k, prevActive, nextActive, entry.Parameters); err != nil {
			return nil, err
		}

		if err := verify.ProofStructure(entry.Proof); err != nil {
			return nil, err
		}

		history = append(history, ProcessedEntry{
			VersionID:   entry.VersionID,
			VersionTime: time.Unix(entry.VersionTime, 0).UTC(),
			Document:    entry.State,
		})

		previousVersionID = entry.VersionID
		vt := entry.VersionTime
		previousVersionTime = &vt

		log.Debug().Int("k", k).Str("version_id", entry.VersionID).Msg("entry committed")
	}

	return history, nil
}

// selectVersion implements the version selector: by versionId (exact
// match), by versionTime (latest entry at or before t), or latest.
func selectVersion(history []ProcessedEntry, opts *Options) (*ProcessedEntry, error) {
	if opts != nil && opts.VersionID != "" {
		for i := range history {
			if history[i].VersionID == opts.VersionID {
				return &history[i], nil
			}
		}
		return nil, errs.New(errs.VersionNotFound, opts.VersionID)
	}

	if opts != nil && opts.VersionTime != nil {
		var best *ProcessedEntry
		for i := range history {
			if !history[i].VersionTime.After(*opts.VersionTime) {
				best = &history[i]
			}
		}
		if best == nil {
			return nil, errs.New(errs.VersionNotFound, opts.VersionTime.String())
		}
		return best, nil
	}

	if len(history) == 0 {
		return nil, errs.New(errs.NoDocumentFound, "")
	}
	return &history[len(history)-1], nil
}
