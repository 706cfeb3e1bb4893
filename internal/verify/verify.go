// Package verify implements the per-entry integrity checks of a did:tdw
// log: content-hash chaining, genesis self-certification, version/time
// sequencing, and proof structure. Each check is a pure function over
// didlog types so the orchestrator (internal/resolve) can sequence them
// without this package knowing about fetching or reduction.
package verify

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stackdump/tdw-resolver/internal/canonical"
	"github.com/stackdump/tdw-resolver/internal/didlog"
	"github.com/stackdump/tdw-resolver/internal/errs"
)

func init() {
	canonical.AssertPlaceholderSafe()
}

// ParseVersionNumber splits a versionId of the form "<n>-<hash>" into its
// integer prefix and hash suffix.
func ParseVersionNumber(versionID string) (int, string, error) {
	nStr, hash, ok := strings.Cut(versionID, "-")
	if !ok || hash == "" {
		return 0, "", errs.New(errs.InvalidVersionId, versionID)
	}
	n, err := strconv.Atoi(nStr)
	if err != nil || n < 1 {
		return 0, "", errs.New(errs.InvalidVersionId, versionID)
	}
	return n, hash, nil
}

// hashPreimage returns the entry with proof cleared and versionId replaced
// by the predecessor linkage, ready for canonicalization and hashing. The
// caller supplies the linkage (SCID for entry 1, the prior entry's full
// versionId otherwise) since Entry never carries it as a field.
func hashPreimage(entry didlog.Entry, linkage string) didlog.Entry {
	copy := entry
	copy.VersionID = linkage
	copy.Proof = []didlog.Proof{}
	return copy
}

// EntryHash recomputes entry's content hash over its predecessor linkage and
// compares it against the hash suffix of its own versionId.
func EntryHash(entry didlog.Entry, linkage string, log zerolog.Logger) error {
	n, wantHash, err := ParseVersionNumber(entry.VersionID)
	if err != nil {
		return err
	}

	preimage := hashPreimage(entry, linkage)
	gotHash, err := canonical.Hash(preimage)
	if err != nil {
		return err
	}

	log.Debug().
		Int("version_number", n).
		Str("expected_hash", wantHash).
		Str("computed_hash", gotHash).
		Msg("entry hash check")

	if gotHash != wantHash {
		return errs.New(errs.InvalidEntryHash, entry.VersionID)
	}
	return nil
}

// SCID recomputes the genesis entry's self-certifying identifier by
// substituting the placeholder for both versionId and parameters.scid, and
// requires the result to equal identifierSCID.
func SCID(entry didlog.Entry, identifierSCID string, log zerolog.Logger) error {
	placeholder := canonical.Placeholder
	preimage := entry
	preimage.VersionID = placeholder
	params := preimage.Parameters
	params.SCID = &placeholder
	preimage.Parameters = params

	gotSCID, err := canonical.Hash(preimage)
	if err != nil {
		return err
	}

	log.Debug().
		Str("identifier_scid", identifierSCID).
		Str("computed_scid", gotSCID).
		Msg("genesis scid check")

	if gotSCID != identifierSCID {
		return errs.New(errs.InvalidSCID, identifierSCID)
	}
	if entry.Parameters.SCID == nil || *entry.Parameters.SCID != identifierSCID {
		return errs.New(errs.InvalidSCID, identifierSCID)
	}
	return nil
}

// SequenceNumber requires the versionId's integer prefix to equal k, the
// reducer's 1-indexed entry counter.
func SequenceNumber(versionID string, k int) error {
	n, _, err := ParseVersionNumber(versionID)
	if err != nil {
		return err
	}
	if n != k {
		return errs.New(errs.InvalidVersionNumber, versionID)
	}
	return nil
}

// Time enforces strictly increasing versionTime across entries and rejects
// any versionTime in the future of now.
func Time(versionTime int64, previous *int64, now time.Time) error {
	if versionTime > now.Unix() {
		return errs.New(errs.FutureVersionTime, strconv.FormatInt(versionTime, 10))
	}
	if previous != nil && versionTime <= *previous {
		return errs.New(errs.InvalidVersionTime, strconv.FormatInt(versionTime, 10))
	}
	return nil
}

// ProofStructure requires a non-empty proof list whose first element has
// non-empty verificationMethod and proofValue. Cryptographic authenticity is
// out of scope; only structural presence is checked here.
func ProofStructure(proofs []didlog.Proof) error {
	if len(proofs) == 0 {
		return errs.New(errs.InvalidProof, "empty proof list")
	}
	first := proofs[0]
	if first.VerificationMethod == "" {
		return errs.New(errs.InvalidProof, "missing verificationMethod")
	}
	if first.ProofValue == "" {
		return errs.New(errs.InvalidProof, "missing proofValue")
	}
	return nil
}
