// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"

	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// ProtoID returns the ID of the document's prototype, or the zero ID.
func (d *Document) ProtoID() ref.DocumentID { return d.protoID }

// SetProto links proto as the document's single parent. A nil proto
// clears the link.
func (d *Document) SetProto(proto *Document) {
	if proto == nil {
		d.protoID = ref.DocumentID{}
	} else {
		d.protoID = proto.id
	}
	// Inherited grants may have changed.
	d.store.bumpACLGeneration()
}

// protoDocument returns the prototype's arena record, or nil when the
// document has no prototype or it has not been fetched yet.
func (d *Document) protoDocument() *Document {
	if d.protoID.IsZero() {
		return nil
	}
	proto, err := d.store.Lookup(d.protoID)
	if err != nil {
		return nil
	}
	return proto
}

// IsPrototype reports whether the document is flagged as a prototype —
// a terminal node for data-document resolution.
func (d *Document) IsPrototype() bool {
	return d.GetIgnoreProto("isPrototype").BoolOr(false)
}

// IsBaseProto reports whether the document is a base prototype: a
// terminal, shared, system document that is never cloned, only
// referenced.
func (d *Document) IsBaseProto() bool {
	return d.GetIgnoreProto("baseProto").BoolOr(false)
}

// GetProto resolves the data document: it walks doc → proto → ... and
// returns the first node flagged isPrototype, or the last node of the
// chain when none is. The walk is depth-capped; a violated acyclicity
// invariant logs and returns the original document rather than looping
// forever (the returned error is ErrCyclicPrototype in that case).
func (d *Document) GetProto() (*Document, error) {
	node := d
	for steps := 0; steps <= d.store.config.Documents.PrototypeDepthLimit; steps++ {
		if node.IsPrototype() {
			return node, nil
		}
		proto := node.protoDocument()
		if proto == nil {
			return node, nil
		}
		node = proto
	}
	d.store.logger.Warn("cyclic prototype chain detected", "doc", d.id.String())
	return d, ErrCyclicPrototype
}

// DataDocument is GetProto with the cycle fallback applied: callers
// that have no error channel get the original document back.
func (d *Document) DataDocument() *Document {
	data, err := d.GetProto()
	if err != nil {
		return d
	}
	return data
}

// GetAllPrototypes returns the chain doc, proto, proto's proto, ...
// in order, stopping at the depth limit.
func (d *Document) GetAllPrototypes() []*Document {
	var chain []*Document
	for node, steps := d, 0; node != nil && steps <= d.store.config.Documents.PrototypeDepthLimit; steps++ {
		chain = append(chain, node)
		node = node.protoDocument()
	}
	return chain
}

// AreProtosEqual reports whether two documents match directly or
// through their prototype chains: identical, either's resolved data
// document is the other, or both resolve to the same data document.
// Two documents with equal content but distinct identity are never
// equal unless related by the proto chain.
func AreProtosEqual(doc, other *Document) bool {
	if doc == nil || other == nil {
		return false
	}
	if doc == other {
		return true
	}
	docProto := doc.DataDocument()
	otherProto := other.DataDocument()
	return docProto == other || otherProto == doc || docProto == otherProto
}

// MakeDelegate creates a new document whose prototype is doc: it
// inherits every unset field and can override any of them locally.
func (s *Store) MakeDelegate(doc *Document, title string) *Document {
	delegate := s.NewDocument()
	delegate.SetProto(doc)
	if title != "" {
		// Delegate creation is a system operation; the title write is
		// not subject to the target's ACL (the delegate is brand new
		// and owned by the session principal).
		_ = delegate.Set("title", field.String(title))
	}
	return delegate
}

// MakeAlias creates a lightweight stand-in for doc: a delegate sharing
// its data. Aliasing a non-prototype document that already delegates
// someone else copies instead, so the alias does not chain delegates.
// The alias records aliasOf and is registered in the data document's
// "aliases" list.
func (s *Store) MakeAlias(doc *Document) *Document {
	var alias *Document
	if !doc.IsPrototype() && doc.protoDocument() != nil {
		alias = s.MakeCopy(doc, false)
	} else {
		alias = s.MakeDelegate(doc, "")
	}
	// An alias of a document with its own layout document gets its own
	// alias of that layout, so layout overrides stay per-alias.
	if layout, ok := alias.GetDocument(alias.LayoutKey()); ok && layout != alias {
		_ = alias.Set(alias.LayoutKey(), s.MakeAlias(layout))
	}
	_ = alias.Set("aliasOf", field.NewProxyTo(doc))
	data := doc.DataDocument()
	_ = s.AddToList(data, "aliases", alias, false)
	return alias
}

// MakeCopy duplicates doc's own fields into a fresh document. Object
// fields are deep-copied, reference fields shared, computed fields
// copied as formulas, and expanded-template-layout slots dropped. The
// copy's author is the session principal. When the store is configured
// with NewDocumentsPrivate, the copy starts unshared.
func (s *Store) MakeCopy(doc *Document, copyProto bool) *Document {
	copied := s.NewDocument()
	exclusions := doc.cloneExclusions()
	for _, key := range doc.Keys() {
		if exclusions[key] {
			continue
		}
		value := doc.raw(key)
		switch typed := value.(type) {
		case *field.Proxy:
			if strings.Contains(key, expandedLayoutMarker) {
				continue // expanded template fields stay per-document
			}
			copied.fields[key] = typed.Copy().(field.Field)
		case *field.Computed:
			copied.fields[key] = typed.Copy().(field.Field)
		case field.Object:
			duplicate := typed.Copy()
			_ = duplicate.Bind(copied.id)
			copied.fields[key] = duplicate
		default:
			copied.fields[key] = value
		}
	}
	if copyProto {
		if proto := doc.protoDocument(); proto != nil {
			copied.SetProto(s.MakeCopy(proto, false))
		}
	} else {
		copied.protoID = doc.protoID
	}
	if s.config.Permissions.NewDocumentsPrivate {
		_ = copied.Set("acl-"+ref.Public.String(), field.String("None"))
	}
	return copied
}

// cloneExclusions returns the set of field names the clone and copy
// operations skip: the document's own cloneFieldFilter list when
// present, else the configured default.
func (d *Document) cloneExclusions() map[string]bool {
	excluded := make(map[string]bool)
	if list, ok := d.Get("cloneFieldFilter").AsList(); ok {
		for _, element := range list.Elements() {
			if name, ok := field.Of(element).AsString(); ok {
				excluded[name] = true
			}
		}
		return excluded
	}
	for _, name := range d.store.config.Documents.CloneExclusions {
		excluded[name] = true
	}
	return excluded
}
