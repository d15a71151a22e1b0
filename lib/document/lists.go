// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"fmt"

	"github.com/docgraph-foundation/docgraph/lib/field"
)

// AddToList appends a reference to target onto doc's list field key,
// creating the list when absent. AddOnly is sufficient: growing a
// collection's membership is the one write permitted below Edit. An
// inherited list is copied onto doc first, so the prototype's list is
// never mutated. Adding a document the list already references is a
// no-op.
func (s *Store) AddToList(doc *Document, key string, target *Document, first bool) error {
	if !doc.ownedByCaller() && !doc.effectiveLevel().CanAdd() {
		return fmt.Errorf("add to %q on %s: %w", key, doc.id, ErrPermissionDenied)
	}

	list, err := doc.ownListSlot(key)
	if err != nil {
		return err
	}
	if list.IndexOfRef(target.id) >= 0 {
		return nil
	}
	if first {
		list.Insert(0, field.NewProxyTo(target))
	} else {
		list.Append(field.NewProxyTo(target))
	}
	doc.emitDelta(key, list)
	return nil
}

// RemoveFromList removes the reference to target from doc's list field
// key. Removal shrinks the collection, so it requires Edit. Removing a
// document the list does not reference is a no-op.
func (s *Store) RemoveFromList(doc *Document, key string, target *Document) error {
	if !doc.ownedByCaller() && !doc.effectiveLevel().CanWrite() {
		return fmt.Errorf("remove from %q on %s: %w", key, doc.id, ErrPermissionDenied)
	}

	raw, ok := doc.fields[key]
	if !ok {
		return nil
	}
	list, ok := raw.(*field.List)
	if !ok {
		return fmt.Errorf("remove from %q on %s: slot holds %s, not a list",
			key, doc.id, raw.FieldKind())
	}
	index := list.IndexOfRef(target.id)
	if index < 0 {
		return nil
	}
	list.RemoveAt(index)
	doc.emitDelta(key, list)
	return nil
}

// ownListSlot returns doc's own list at key, installing one when the
// slot is absent. An inherited list is copied down first (writes never
// mutate the prototype); a slot holding a non-list is an error.
func (d *Document) ownListSlot(key string) (*field.List, error) {
	if raw, ok := d.fields[key]; ok {
		list, ok := raw.(*field.List)
		if !ok {
			return nil, fmt.Errorf("list op on %q of %s: slot holds %s, not a list",
				key, d.id, raw.FieldKind())
		}
		return list, nil
	}

	var list *field.List
	if inherited, ok := d.Get(key).AsList(); ok {
		list = inherited.Copy().(*field.List)
	} else {
		list = field.NewList()
	}
	if err := list.Bind(d.id); err != nil {
		return nil, fmt.Errorf("list op on %q of %s: %w", key, d.id, err)
	}
	d.fields[key] = list
	return list, nil
}
