// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docgraph-foundation/docgraph/lib/acl"
	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// DefaultLayoutKey is the field holding a document's layout unless the
// document's own "layoutKey" field overrides it.
const DefaultLayoutKey = "layout"

// Document is a dynamic, prototype-linked key/value record. All
// instances live in exactly one Store's arena and are addressed
// elsewhere by ID.
type Document struct {
	id     ref.DocumentID
	author ref.Principal
	store  *Store

	fields map[string]field.Field

	// protoID links the single parent document the record inherits
	// unset fields from. Zero means no prototype.
	protoID ref.DocumentID

	// cloneOf records the source document when this record was
	// produced by the clone engine.
	cloneOf ref.DocumentID

	aclCache aclCacheEntry

	// cachedUpdates holds deferred remote writes, keyed by field name.
	// See delta.go.
	cachedUpdates map[string]func()

	// updatingFromServer suppresses delta emission and write-permission
	// checks while an incoming remote update is applied.
	updatingFromServer bool
}

// ID returns the document's stable identifier.
func (d *Document) ID() ref.DocumentID { return d.id }

// Author returns the principal that created the document.
func (d *Document) Author() ref.Principal { return d.author }

// CloneOf returns the ID of the document this record was cloned from,
// or the zero ID.
func (d *Document) CloneOf() ref.DocumentID { return d.cloneOf }

// Store returns the owning store.
func (d *Document) Store() *Store { return d.store }

// FieldKind implements field.Field: a document stored directly in a
// slot is a reference field.
func (d *Document) FieldKind() field.Kind { return field.KindDocument }

// RefID implements field.Ref.
func (d *Document) RefID() ref.DocumentID { return d.id }

// String renders the document for logs. Private documents render
// without their title.
func (d *Document) String() string {
	if d.effectiveLevel() == acl.Private && !d.ownedByCaller() {
		return "Doc(-inaccessible-)"
	}
	return fmt.Sprintf("Doc(%s)", d.Get("title").StringOr(d.id.String()))
}

// ownedByCaller reports whether the session principal authored this
// document. Owners bypass Private hiding and write denial.
func (d *Document) ownedByCaller() bool {
	return !d.author.IsZero() && d.author == d.store.principal
}

// Keys returns the document's own field keys, sorted. If the
// document's effective level is Private and the caller is not the
// owner, there are no enumerable fields.
func (d *Document) Keys() []string {
	if d.effectiveLevel() == acl.Private && !d.ownedByCaller() {
		return nil
	}
	keys := make([]string, 0, len(d.fields))
	for key := range d.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// AllKeys returns the union of own and inherited field keys, sorted.
func (d *Document) AllKeys() []string {
	seen := make(map[string]bool)
	for doc, steps := d, 0; doc != nil && steps <= d.store.config.Documents.PrototypeDepthLimit; steps++ {
		for _, key := range doc.Keys() {
			seen[key] = true
		}
		doc = doc.protoDocument()
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the document has an own field named key (and the
// caller may see it).
func (d *Document) Has(key string) bool {
	if d.effectiveLevel() == acl.Private && !d.ownedByCaller() {
		return false
	}
	_, ok := d.fields[key]
	return ok
}

// raw returns the own slot value with no ACL gating, proxy
// dereferencing, or prototype fallback. The clone engine and the
// export walker iterate raw slots.
func (d *Document) raw(key string) field.Field { return d.fields[key] }

// Get returns the field for key: the own slot if present, else the
// prototype chain's. Absence is a first-class result. A slot holding a
// lazy reference triggers background resolution and reports Pending
// until it completes.
func (d *Document) Get(key string) field.Result {
	return d.get(key, false, 0)
}

// GetIgnoreProto is Get without the prototype-chain fallback.
func (d *Document) GetIgnoreProto(key string) field.Result {
	return d.get(key, true, 0)
}

func (d *Document) get(key string, ignoreProto bool, depth int) field.Result {
	if depth > d.store.config.Documents.PrototypeDepthLimit {
		d.store.logger.Warn("prototype chain exceeds depth limit during get",
			"doc", d.id.String(), "key", key)
		return field.Absent
	}
	if d.effectiveLevel() == acl.Private && !d.ownedByCaller() {
		return field.Absent
	}

	if value, ok := d.fields[key]; ok {
		return d.deref(value)
	}
	if ignoreProto {
		return field.Absent
	}
	proto := d.protoDocument()
	if proto == nil {
		if !d.protoID.IsZero() {
			// The prototype itself is still being fetched; inherited
			// lookups cannot be answered yet.
			d.store.resolveInBackground(d.protoID)
			return field.Pending
		}
		return field.Absent
	}
	if proto.effectiveLevel() == acl.Private && !proto.ownedByCaller() {
		return field.Absent
	}
	return proto.get(key, false, depth+1)
}

// deref surfaces proxy slots as their resolved documents. An
// unresolved proxy kicks off background resolution and reports
// Pending; a failed one reports Absent.
func (d *Document) deref(value field.Field) field.Result {
	proxy, ok := value.(*field.Proxy)
	if !ok {
		return field.Of(value)
	}
	if resolved, ok := proxy.Resolved(); ok {
		return field.Of(resolved)
	}
	if target, err := d.store.Lookup(proxy.RefID()); err == nil {
		proxy.Fill(target)
		return field.Of(field.Ref(target))
	}
	if proxy.Failed() {
		return field.Absent
	}
	d.store.resolveInBackground(proxy.RefID())
	return field.Pending
}

// GetDocument returns the document referenced by key, resolving
// proxies, or (nil, false) when the slot is absent, pending, or holds
// a non-reference.
func (d *Document) GetDocument(key string) (*Document, bool) {
	reference, ok := d.Get(key).AsRef()
	if !ok {
		return nil, false
	}
	return d.store.documentFor(reference)
}

// documentFor maps a reference field to the arena document it stands
// for.
func (s *Store) documentFor(reference field.Ref) (*Document, bool) {
	if doc, ok := reference.(*Document); ok {
		return doc, true
	}
	doc, err := s.Lookup(reference.RefID())
	if err != nil {
		return nil, false
	}
	return doc, true
}

// Set writes the field on this document itself — never implicitly onto
// the prototype. It enforces access control (below Edit is rejected
// with ErrPermissionDenied unless the caller owns the document, and
// acl* fields additionally require Admin), object-field single
// ownership, and ACL-cache maintenance: writing
// any key with the "acl" prefix re-derives the cached effective level
// synchronously. A nil value deletes the slot.
func (d *Document) Set(key string, value field.Field) error {
	return d.set(key, value, false)
}

// Delete removes the document's own slot for key. Equivalent to
// Set(key, nil).
func (d *Document) Delete(key string) error {
	return d.set(key, nil, false)
}

// setFromServer applies a remote value, bypassing the permission check
// and delta emission.
func (d *Document) setFromServer(key string, value field.Field) error {
	return d.set(key, value, true)
}

func (d *Document) set(key string, value field.Field, fromServer bool) error {
	if !fromServer && !d.ownedByCaller() && !d.updatingFromServer {
		level := d.effectiveLevel()
		if strings.HasPrefix(key, "acl") {
			// Changing who can see or edit the document is reserved for
			// Admin; Edit covers ordinary fields only.
			if level != acl.Admin {
				return fmt.Errorf("set %q on %s: %w", key, d.id, ErrPermissionDenied)
			}
		} else if !level.CanWrite() {
			return fmt.Errorf("set %q on %s: %w", key, d.id, ErrPermissionDenied)
		}
	}

	current := d.fields[key]
	if value == nil && current == nil {
		return nil
	}

	// Documents assigned directly into slots are stored behind lazy
	// proxies so slots always hold IDs, not owning pointers.
	if target, ok := value.(*Document); ok {
		if proxy, ok := current.(*field.Proxy); ok && proxy.RefID() == target.id {
			return nil // already references this document
		}
		value = field.NewProxyTo(target)
	}
	if current == value && value != nil {
		return nil
	}

	if object, ok := value.(field.Object); ok {
		if err := object.Bind(d.id); err != nil {
			return fmt.Errorf("set %q on %s: %w", key, d.id, err)
		}
	}
	if object, ok := current.(field.Object); ok {
		object.Release()
	}

	if value == nil {
		delete(d.fields, key)
	} else {
		d.fields[key] = value
	}

	if strings.HasPrefix(key, "acl") {
		d.store.bumpACLGeneration()
		d.refreshACLCache()
	}
	if key == "PARAMS" || key == "resolvedDataDoc" {
		// Expansions bound to this document's old parameters are stale.
		d.store.invalidateExpansions(d)
	}

	if !fromServer && !d.updatingFromServer {
		d.emitDelta(key, value)
	}
	return nil
}

// SetInPlace writes key where it currently lives: on this document if
// it has an own slot (or no prototype), otherwise on the prototype
// when the prototype defines it or defaultToProto asks for it.
func (d *Document) SetInPlace(key string, value field.Field, defaultToProto bool) error {
	proto := d.protoDocument()
	onSelf := d.Has(key)
	onProto := proto != nil && proto.Has(key)
	if onSelf || proto == nil || (!onProto && !defaultToProto) {
		return d.Set(key, value)
	}
	return proto.Set(key, value)
}

// SetOnPrototype writes key on the document's prototype — or on the
// document itself when it is its own prototype (carries isPrototype).
func (d *Document) SetOnPrototype(key string, value field.Field) error {
	target := d
	if !d.Has("isPrototype") {
		if proto := d.protoDocument(); proto != nil {
			target = proto
		}
	}
	return target.Set(key, value)
}

// Assign copies the given fields onto the document, mirroring a bulk
// field projection. Nil values delete slots unless skipNils is set.
func (d *Document) Assign(fields map[string]field.Field, skipNils bool) error {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := fields[key]
		if value == nil && skipNils {
			continue
		}
		if err := d.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// LayoutKey returns the field name holding this document's layout.
func (d *Document) LayoutKey() string {
	if key, ok := d.Get("layoutKey").AsString(); ok && key != "" {
		return key
	}
	if key := d.store.config.Documents.LayoutKey; key != "" {
		return key
	}
	return DefaultLayoutKey
}
