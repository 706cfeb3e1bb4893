// Package params implements the active-parameter state machine: folding
// each log entry's declared parameter delta into the state that is active
// at that point in the log, per the transition rules in the parameter
// reducer component.
package params

import (
	"github.com/stackdump/tdw-resolver/internal/canonical"
	"github.com/stackdump/tdw-resolver/internal/didlog"
	"github.com/stackdump/tdw-resolver/internal/errs"
)

// Active is the parameter state in effect after folding some prefix of the
// log's entries. It is replaced wholesale on every transition, never
// mutated in place, so a caller holding a reference to a prior Active is
// unaffected by later reductions.
type Active struct {
	Method        string
	SCID          string
	UpdateKeys    []string
	Prerotation   bool
	NextKeyHashes []string
	Portable      bool
	Deactivated   bool
	TTL           uint64
}

// Reducer folds entries into an Active state one at a time, in log order.
type Reducer struct {
	state Active
	k     int
}

// NewReducer returns a Reducer with no entries folded yet.
func NewReducer() *Reducer {
	return &Reducer{}
}

// Active returns the state as of the last successfully folded entry.
func (r *Reducer) Active() Active {
	return r.state
}

// Fold applies entry k's parameter delta (k is 1-indexed: genesis is 1) to
// the active state, in the field order the reducer's transition table
// specifies, and returns the resulting state. It does not mutate the
// receiver's state until every rule passes, so a rejected entry leaves the
// reducer's previously-active state untouched.
func (r *Reducer) Fold(k int, delta didlog.Parameters) (Active, error) {
	next := r.state

	next.Method = delta.Method

	if delta.SCID != nil {
		if k == 1 {
			if *delta.SCID == "" {
				return Active{}, errs.New(errs.InvalidSCID, "genesis scid must be non-empty")
			}
			next.SCID = *delta.SCID
		} else if next.SCID != "" && *delta.SCID != next.SCID {
			return Active{}, errs.New(errs.InvalidSCID, "scid reasserted with a different value")
		} else if next.SCID == "" {
			next.SCID = *delta.SCID
		}
	}

	if delta.UpdateKeys != nil {
		next.UpdateKeys = delta.UpdateKeys
	}

	if delta.Prerotation != nil {
		if r.state.Prerotation && !*delta.Prerotation {
			return Active{}, errs.New(errs.CannotDeactivatePreRotation, "prerotation")
		}
		next.Prerotation = *delta.Prerotation
	}

	if delta.NextKeyHashes != nil {
		next.NextKeyHashes = delta.NextKeyHashes
	}

	if k == 1 {
		// Genesis always establishes the write-once value, even when the
		// entry omits portable entirely — an omitted genesis value means
		// portable is fixed at false, not "not yet decided".
		next.Portable = false
		if delta.Portable != nil {
			next.Portable = *delta.Portable
		}
	} else if delta.Portable != nil && *delta.Portable != r.state.Portable {
		return Active{}, errs.New(errs.CannotEnablePortabilityAfterCreation, "portable")
	}

	if delta.Deactivated != nil {
		next.Deactivated = *delta.Deactivated
	}

	if delta.TTL != nil {
		next.TTL = *delta.TTL
	}

	r.state = next
	r.k = k
	return next, nil
}

// CheckPreRotation enforces §4.8's pre-rotation discipline: when next's
// prerotation flag is active and the entry declares updateKeys, every key
// must have been pre-committed (by hash) in prev's nextKeyHashes, and the
// entry must declare its own non-empty nextKeyHashes. It is a distinct
// pipeline step from Fold (called later, after genesis SCID verification)
// so per-entry error ordering matches the orchestrator's published sequence.
// The genesis entry is exempt from the predecessor-commitment check.
func CheckPreRotation(k int, prev, next Active, delta didlog.Parameters) error {
	if !next.Prerotation || delta.UpdateKeys == nil {
		return nil
	}
	if k > 1 {
		committed := make(map[string]struct{}, len(prev.NextKeyHashes))
		for _, h := range prev.NextKeyHashes {
			committed[h] = struct{}{}
		}
		for _, key := range delta.UpdateKeys {
			h, err := canonical.Hash(key)
			if err != nil {
				return err
			}
			if _, ok := committed[h]; !ok {
				return errs.New(errs.KeyNotPreRotated, key)
			}
		}
	}
	if len(delta.NextKeyHashes) == 0 {
		return errs.New(errs.MissingNextKeyHashes, "")
	}
	return nil
}
