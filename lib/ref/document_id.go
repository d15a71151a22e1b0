// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DocumentID is the stable, globally unique identifier of a document.
// It is assigned once at creation and never changes: aliases, delegates,
// and clones each get a fresh ID, and every cross-document reference
// (proxy fields, clone maps, expanded-layout keys) is expressed in terms
// of it.
//
// The canonical text form is 32 lowercase hex characters (16 random
// bytes). DocumentID is an immutable value type; the zero value is not a
// valid ID — use IsZero to check.
type DocumentID struct {
	id string
}

// NewDocumentID returns a freshly generated random document ID.
func NewDocumentID() DocumentID {
	var raw [16]byte
	// crypto/rand.Read never fails on supported platforms; it aborts
	// the process instead of returning partial entropy.
	if _, err := rand.Read(raw[:]); err != nil {
		panic("ref: reading random bytes: " + err.Error())
	}
	return DocumentID{id: hex.EncodeToString(raw[:])}
}

// ParseDocumentID validates and wraps a raw document ID string. The
// input must be exactly 32 lowercase hex characters.
func ParseDocumentID(raw string) (DocumentID, error) {
	if raw == "" {
		return DocumentID{}, fmt.Errorf("empty document ID")
	}
	if len(raw) != 32 {
		return DocumentID{}, fmt.Errorf("document ID must be 32 hex characters, got %d: %q", len(raw), raw)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return DocumentID{}, fmt.Errorf("document ID must be lowercase hex: %q", raw)
		}
	}
	return DocumentID{id: raw}, nil
}

// MustParseDocumentID is like ParseDocumentID but panics on error. Use
// in tests and static initialization where the input is known-valid.
func MustParseDocumentID(raw string) DocumentID {
	id, err := ParseDocumentID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseDocumentID(%q): %v", raw, err))
	}
	return id
}

// String returns the canonical 32-character hex form.
func (d DocumentID) String() string { return d.id }

// IsZero reports whether the DocumentID is the zero value (uninitialized).
func (d DocumentID) IsZero() bool { return d.id == "" }

// MarshalText implements encoding.TextMarshaler for JSON, YAML, and
// other text-based serialization formats.
func (d DocumentID) MarshalText() ([]byte, error) {
	if d.id == "" {
		return nil, nil
	}
	return []byte(d.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value (unset document ID).
func (d *DocumentID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = DocumentID{}
		return nil
	}
	parsed, err := ParseDocumentID(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
