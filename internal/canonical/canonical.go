// Package canonical implements the JCS canonicalization and multihash
// hashing primitives that every DID Log integrity check is built on: RFC
// 8785 canonical JSON, SHA2-256, multihash framing, base58 text encoding.
//
// This supersedes the teacher repo's pkg/canonical (a hand-rolled
// sorted-map JSON encoder good enough for map[string]interface{} but not a
// full RFC 8785 implementation — no numeric normalization, no escaping
// rules) by delegating to gowebpki/jcs, and folds in the multihash+base58
// step the teacher's internal/seal performed for JSON-LD sealing.
package canonical

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
	"github.com/mr-tron/base58"
	mh "github.com/multiformats/go-multihash"

	"github.com/stackdump/tdw-resolver/internal/errs"
)

// Placeholder is substituted for a genesis entry's versionId and
// parameters.scid when recomputing its self-certifying identifier. Base58
// excludes '{' and '}', so a legitimately-encoded SCID can never collide
// with it — AssertPlaceholderSafe documents and checks that invariant.
const Placeholder = "{SCID}"

// digestLength is the SHA2-256 digest length in bytes, passed to mh.Sum
// alongside the mh.SHA2_256 function code.
const digestLength = 32

// AssertPlaceholderSafe panics if Placeholder could ever be produced by a
// legitimate base58 encoding, which would break genesis self-certification.
// Called once from the verify package's init so a corrupted build fails
// loudly instead of silently accepting forged SCIDs.
func AssertPlaceholderSafe() {
	if _, err := base58.Decode(Placeholder); err == nil {
		panic("canonical: SCID placeholder decodes as valid base58, invariant violated")
	}
}

// Canonicalize serializes v to JSON and reduces it to RFC 8785 canonical
// form: lexicographically sorted object keys, minimal number formatting, no
// insignificant whitespace.
func Canonicalize(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(errs.CanonicalizeError, "marshal value", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, errs.Wrap(errs.CanonicalizeError, "jcs transform", err)
	}
	return out, nil
}

// Hash canonicalizes v, hashes the result with SHA2-256, wraps it as a
// multihash (code 0x12, length 0x20), and returns the base58 text encoding
// of that multihash.
func Hash(v interface{}) (string, error) {
	canon, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	sum, err := mh.Sum(canon, mh.SHA2_256, digestLength)
	if err != nil {
		return "", errs.Wrap(errs.MultihashError, "wrap sha2-256 digest", err)
	}
	return base58.Encode([]byte(sum)), nil
}
