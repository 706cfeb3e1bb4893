// Package errs defines the closed set of error kinds a did:tdw resolution
// can fail with. Every boundary in the resolver — parsing, fetching,
// canonicalizing, verifying, reducing, selecting — returns one of these so
// callers can branch on Kind instead of matching error strings.
package errs

import (
	"errors"
	"fmt"
)

// Kind tags an Error with the taxonomy entry it belongs to.
type Kind string

const (
	InvalidDIDFormat                     Kind = "InvalidDIDFormat"
	ResolutionFailed                     Kind = "ResolutionFailed"
	InvalidDIDLog                        Kind = "InvalidDIDLog"
	InvalidLogEntry                      Kind = "InvalidLogEntry"
	InvalidProof                         Kind = "InvalidProof"
	InvalidVersionId                     Kind = "InvalidVersionId"
	InvalidVersionNumber                 Kind = "InvalidVersionNumber"
	InvalidEntryHash                     Kind = "InvalidEntryHash"
	InvalidVersionTime                   Kind = "InvalidVersionTime"
	FutureVersionTime                    Kind = "FutureVersionTime"
	InvalidSCID                          Kind = "InvalidSCID"
	VersionNotFound                      Kind = "VersionNotFound"
	NoDocumentFound                      Kind = "NoDocumentFound"
	CannotDeactivatePreRotation          Kind = "CannotDeactivatePreRotation"
	CannotEnablePortabilityAfterCreation Kind = "CannotEnablePortabilityAfterCreation"
	KeyNotPreRotated                     Kind = "KeyNotPreRotated"
	MissingNextKeyHashes                 Kind = "MissingNextKeyHashes"
	RequestError                         Kind = "RequestError"
	UrlError                             Kind = "UrlError"
	JsonError                            Kind = "JsonError"
	Base58DecodeError                    Kind = "Base58DecodeError"
	CanonicalizeError                    Kind = "CanonicalizeError"
	MultihashError                       Kind = "MultihashError"
)

// Error is the concrete type every resolver boundary returns.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a kind-tagged error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a kind-tagged error around a lower-level cause, in the
// fmt.Errorf("...: %w", err) style the rest of this codebase uses.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err (or anything it wraps) is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
