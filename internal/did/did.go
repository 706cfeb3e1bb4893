// Package did parses did:tdw identifiers and derives the HTTPS URLs used to
// fetch a DID's log and its sibling resources.
package did

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stackdump/tdw-resolver/internal/errs"
)

const (
	scheme       = "did"
	method       = "tdw"
	wellKnownDir = ".well-known"
	logFile      = "did.jsonl"
)

// Identifier is the parsed form of a did:tdw string: scid, host, an
// optional port, and an optional slash-joined path with no leading slash.
type Identifier struct {
	SCID string
	Host string
	Port *uint16
	Path string
}

// Parse validates and decomposes a did:tdw identifier string.
//
// Grammar: did:tdw:<scid>:<host>[:<port>][/<path>]. Everything after the
// scid is rejoined on ':' before being split once on the first '/', so a
// path component containing ':' does not get mistaken for a port.
func Parse(raw string) (*Identifier, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 4 || parts[0] != scheme || parts[1] != method {
		return nil, errs.New(errs.InvalidDIDFormat, raw)
	}

	scid := parts[2]
	if scid == "" {
		return nil, errs.New(errs.InvalidDIDFormat, raw)
	}

	hostAndRest := strings.Join(parts[3:], ":")

	hostAndPort, path, _ := strings.Cut(hostAndRest, "/")

	host, portStr, hasPort := strings.Cut(hostAndPort, ":")
	if host == "" {
		return nil, errs.New(errs.InvalidDIDFormat, raw)
	}

	id := &Identifier{SCID: scid, Host: host, Path: path}

	if hasPort {
		n, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil || n == 0 {
			return nil, errs.New(errs.InvalidDIDFormat, raw)
		}
		port := uint16(n)
		id.Port = &port
	}

	return id, nil
}

// String reproduces the canonical did:tdw text form of the identifier.
func (id *Identifier) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s:%s:%s", scheme, method, id.SCID, id.Host)
	if id.Port != nil {
		fmt.Fprintf(&b, ":%d", *id.Port)
	}
	if id.Path != "" {
		fmt.Fprintf(&b, "/%s", id.Path)
	}
	return b.String()
}

func (id *Identifier) hostAndPort() string {
	if id.Port != nil {
		return fmt.Sprintf("%s:%d", id.Host, *id.Port)
	}
	return id.Host
}

// LogURL returns the HTTPS location of the identifier's did.jsonl log.
func (id *Identifier) LogURL() string {
	if id.Path != "" {
		return fmt.Sprintf("https://%s/%s/%s", id.hostAndPort(), id.Path, logFile)
	}
	return fmt.Sprintf("https://%s/%s/%s", id.hostAndPort(), wellKnownDir, logFile)
}

// PathURL returns the HTTPS location of a sibling resource (e.g. "whois")
// published alongside the identifier's log.
func (id *Identifier) PathURL(relative string) string {
	if id.Path != "" {
		return fmt.Sprintf("https://%s/%s/%s", id.hostAndPort(), id.Path, relative)
	}
	return fmt.Sprintf("https://%s/%s", id.hostAndPort(), relative)
}
