// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// List is an ordered collection of fields. Lists most commonly hold
// references (a collection's children, a document's aliases) but may
// hold any field kind. The list owns its object-field elements
// transitively through its own document owner.
type List struct {
	owned
	elems []Field
}

// NewList returns a list holding the given elements.
func NewList(elems ...Field) *List {
	l := &List{}
	l.elems = append(l.elems, elems...)
	return l
}

// FieldKind implements Field.
func (*List) FieldKind() Kind { return KindList }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// At returns the element at index i, or nil if out of range.
func (l *List) At(i int) Field {
	if i < 0 || i >= len(l.elems) {
		return nil
	}
	return l.elems[i]
}

// Elements returns the backing slice. Callers must not mutate it;
// use Append, Insert, and RemoveAt for modification.
func (l *List) Elements() []Field { return l.elems }

// Append adds elements at the end of the list.
func (l *List) Append(elems ...Field) { l.elems = append(l.elems, elems...) }

// Insert places elem at index i, shifting later elements right. An
// out-of-range index clamps to the nearest end.
func (l *List) Insert(i int, elem Field) {
	if i < 0 {
		i = 0
	}
	if i > len(l.elems) {
		i = len(l.elems)
	}
	l.elems = append(l.elems, nil)
	copy(l.elems[i+1:], l.elems[i:])
	l.elems[i] = elem
}

// RemoveAt deletes the element at index i. Out-of-range indexes are
// ignored.
func (l *List) RemoveAt(i int) {
	if i < 0 || i >= len(l.elems) {
		return
	}
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
}

// IndexOfRef returns the index of the first element referencing id
// (directly or through a proxy), or -1.
func (l *List) IndexOfRef(id ref.DocumentID) int {
	for i, elem := range l.elems {
		if r, ok := elem.(Ref); ok && r.RefID() == id {
			return i
		}
	}
	return -1
}

// RefIDs returns the document IDs of all reference elements, in order.
// Non-reference elements are skipped.
func (l *List) RefIDs() []ref.DocumentID {
	var ids []ref.DocumentID
	for _, elem := range l.elems {
		if r, ok := elem.(Ref); ok {
			ids = append(ids, r.RefID())
		}
	}
	return ids
}

// Copy implements Object. Object-field elements are deep-copied;
// reference elements are shared (a copied list still points at the
// same documents).
func (l *List) Copy() Object {
	duplicate := &List{elems: make([]Field, len(l.elems))}
	for i, elem := range l.elems {
		duplicate.elems[i] = CopyField(elem)
	}
	return duplicate
}
