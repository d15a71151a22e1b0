// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// Principal identifies an actor that reads or writes documents: the
// document author, a collaborator a document is shared with, or the
// Public pseudo-principal that applies to everyone.
//
// The canonical form is a lowercased, dot-stripped email-style string:
// "First.Last@example.com" and "firstlast@example.com" are the same
// principal. Dots are significant after the '@'. Principal is an
// immutable value type; the zero value is not valid — use IsZero.
type Principal struct {
	name string
}

// Public is the pseudo-principal matched by the "acl-Public" field. A
// permission granted to Public applies to every principal that has no
// more specific grant.
var Public = Principal{name: "Public"}

// ParsePrincipal validates and normalizes a raw principal string.
// Email-style names are lowercased and have dots removed from the local
// part; "Public" (any case) parses to the Public pseudo-principal.
func ParsePrincipal(raw string) (Principal, error) {
	if raw == "" {
		return Principal{}, fmt.Errorf("empty principal")
	}
	if strings.EqualFold(raw, "Public") {
		return Public, nil
	}
	return Principal{name: normalize(raw)}, nil
}

// MustParsePrincipal is like ParsePrincipal but panics on error.
func MustParsePrincipal(raw string) Principal {
	p, err := ParsePrincipal(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParsePrincipal(%q): %v", raw, err))
	}
	return p
}

// normalize lowercases and strips dots from the local part so that
// gmail-style address variants map to one principal. ACL field names
// are derived from this form, so it must be deterministic.
func normalize(raw string) string {
	lowered := strings.ToLower(raw)
	at := strings.LastIndexByte(lowered, '@')
	if at < 0 {
		return strings.ReplaceAll(lowered, ".", "")
	}
	return strings.ReplaceAll(lowered[:at], ".", "") + lowered[at:]
}

// String returns the canonical principal name.
func (p Principal) String() string { return p.name }

// IsZero reports whether the Principal is the zero value.
func (p Principal) IsZero() bool { return p.name == "" }

// IsPublic reports whether this is the Public pseudo-principal.
func (p Principal) IsPublic() bool { return p.name == Public.name }

// AclFieldName returns the document field name that stores this
// principal's permission grant, e.g. "acl-alice@example.com".
func (p Principal) AclFieldName() string { return "acl-" + p.name }

// MarshalText implements encoding.TextMarshaler.
func (p Principal) MarshalText() ([]byte, error) {
	if p.name == "" {
		return nil, nil
	}
	return []byte(p.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value.
func (p *Principal) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*p = Principal{}
		return nil
	}
	parsed, err := ParsePrincipal(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
