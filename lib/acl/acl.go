// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package acl defines the ordered access-control levels a document can
// grant a principal, and the mapping between those levels and the
// string values stored in acl-* fields.
//
// Levels form a strict order: Private < ReadOnly < AddOnly < Edit <
// Admin. Unset sits outside the order and means "inherit from the
// prototype chain"; the effective-level evaluation in lib/document
// resolves it. Which level applies when the whole chain is Unset is
// configuration (lib/config), not a constant of this package.
package acl

import "fmt"

// Level is a document permission level.
type Level int

const (
	// Unset means no grant at this document; inherit from the proto.
	Unset Level = iota
	// Private hides the document entirely from non-owners: no
	// enumerable fields, no writes.
	Private
	// ReadOnly permits reads but no mutation.
	ReadOnly
	// AddOnly permits appending to list fields but no other mutation.
	AddOnly
	// Edit permits field writes.
	Edit
	// Admin permits field writes and ACL changes.
	Admin
)

// String returns the level's name as stored in acl-* field values.
func (l Level) String() string {
	switch l {
	case Unset:
		return "Unset"
	case Private:
		return "None"
	case ReadOnly:
		return "View"
	case AddOnly:
		return "Add"
	case Edit:
		return "Edit"
	case Admin:
		return "Admin"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// ParseLevel maps an acl-* field value to its level. The names are
// protocol constants shared with the remote store; "Not Shared" is a
// legacy spelling of "None" still present in old documents.
func ParseLevel(value string) (Level, error) {
	switch value {
	case "Unset":
		return Unset, nil
	case "None", "Not Shared":
		return Private, nil
	case "View":
		return ReadOnly, nil
	case "Add":
		return AddOnly, nil
	case "Edit":
		return Edit, nil
	case "Admin":
		return Admin, nil
	default:
		return Unset, fmt.Errorf("acl: unknown permission value %q", value)
	}
}

// AtLeast reports whether l grants at least the access of minimum.
// Unset is never sufficient for any minimum above Unset.
func (l Level) AtLeast(minimum Level) bool {
	if l == Unset {
		return minimum == Unset
	}
	return l >= minimum
}

// CanWrite reports whether the level permits field writes.
func (l Level) CanWrite() bool { return l == Edit || l == Admin }

// CanAdd reports whether the level permits appending to list fields.
func (l Level) CanAdd() bool { return l == AddOnly || l.CanWrite() }

// MarshalText implements encoding.TextMarshaler so levels serialize as
// their field-value names in YAML configuration and JSON output.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
