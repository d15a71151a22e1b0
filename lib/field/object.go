// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"errors"

	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// ErrAlreadyOwned is returned by Bind when an object field is assigned
// to a second document while still owned by a first. The caller either
// made a programming error or should Copy the field before assigning.
var ErrAlreadyOwned = errors.New("field: object field is already owned by another document")

// Object is an independently-owned, copyable value. Exactly one
// document owns an object field at a time: assignment binds the field
// to the document, removal releases it, and binding an owned field to a
// different document fails with ErrAlreadyOwned.
type Object interface {
	Field

	// Owner returns the ID of the owning document, or the zero ID if
	// the field is unowned.
	Owner() ref.DocumentID

	// Bind records doc as the owner. Binding an already-owned field to
	// a different document returns ErrAlreadyOwned; rebinding to the
	// same owner is a no-op.
	Bind(doc ref.DocumentID) error

	// Release clears the owner, making the field assignable again.
	Release()

	// Copy returns a deep, unowned duplicate of this field.
	Copy() Object
}

// owned implements the ownership half of Object and is embedded by
// every object-field kind.
type owned struct {
	owner ref.DocumentID
}

// Owner implements Object.
func (o *owned) Owner() ref.DocumentID { return o.owner }

// Bind implements Object.
func (o *owned) Bind(doc ref.DocumentID) error {
	if !o.owner.IsZero() && o.owner != doc {
		return ErrAlreadyOwned
	}
	o.owner = doc
	return nil
}

// Release implements Object.
func (o *owned) Release() { o.owner = ref.DocumentID{} }

// CopyField returns a deep copy of f when it is an object field, and f
// itself otherwise (primitives are immutable and reference fields are
// shared by design).
func CopyField(f Field) Field {
	if object, ok := f.(Object); ok {
		return object.Copy()
	}
	return f
}
