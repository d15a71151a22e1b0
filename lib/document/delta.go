// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"sort"
	"strings"

	"github.com/docgraph-foundation/docgraph/lib/acl"
	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// Delta is the field diff exchanged with the network-sync collaborator:
// wire-serialized assignments and deletions keyed by "fields.<key>".
type Delta struct {
	Set   map[string]any  `json:"$set,omitempty"`
	Unset map[string]bool `json:"$unset,omitempty"`
}

// fieldPathPrefix prefixes every delta key.
const fieldPathPrefix = "fields."

// UpdateSink receives the deltas produced by local field writes.
// Implementations forward them to whatever sync transport the embedding
// application uses.
type UpdateSink interface {
	SendUpdate(doc *Document, delta Delta)
}

// emitDelta forwards one local write to the sink as a single-entry
// delta. Remote-originated writes never reach here.
func (d *Document) emitDelta(key string, value field.Field) {
	if d.store.sink == nil {
		return
	}
	var delta Delta
	if value == nil {
		delta.Unset = map[string]bool{fieldPathPrefix + key: true}
	} else {
		delta.Set = map[string]any{fieldPathPrefix + key: field.ToWire(value)}
	}
	d.store.sink.SendUpdate(d, delta)
}

// ApplyDelta applies an incoming remote diff authored by author.
//
// Values go through wire deserialization before assignment; an entry
// that fails to deserialize is dropped with a warning and the previous
// field value stays intact. Writes to acl* fields re-derive the cached
// effective level, and a Private-to-visible transition re-applies every
// previously deferred update and refetches the full record.
//
// Two classes of update are deferred instead of applied: any update to
// a document that is Private to the session principal, and updates to
// configured playground fields authored by someone else. Deferred
// updates are keyed by field name — a newer update for the same field
// replaces the older one — and run at the next flush point.
func (d *Document) ApplyDelta(delta Delta, author ref.Principal) {
	wasPrivate := d.effectiveLevel() == acl.Private && !d.ownedByCaller()

	keys := make([]string, 0, len(delta.Set)+len(delta.Unset))
	for path := range delta.Set {
		keys = append(keys, path)
	}
	for path := range delta.Unset {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		key, ok := strings.CutPrefix(path, fieldPathPrefix)
		if !ok {
			d.store.logger.Warn("delta entry outside fields namespace dropped",
				"doc", d.id.String(), "path", path)
			continue
		}

		var value field.Field
		if raw, isSet := delta.Set[path]; isSet {
			decoded, err := field.FromWire(raw)
			if err != nil {
				d.store.logger.Warn("undeserializable delta value dropped",
					"doc", d.id.String(), "key", key, "err", err)
				continue
			}
			value = decoded
		}

		if d.shouldDefer(key, author, wasPrivate) {
			d.addCachedUpdate(key, value)
			continue
		}
		d.applyRemote(key, value)
	}

	if wasPrivate && d.effectiveLevel() != acl.Private {
		// Sharing was just granted. Updates suppressed while Private are
		// replayed, and the full record is refetched in case suppressed
		// deltas were never delivered at all.
		d.FlushCachedUpdates()
		d.store.resolveInBackground(d.id)
	}
}

// shouldDefer reports whether an incoming write to key must be cached
// instead of applied. ACL fields are always applied immediately: they
// are the sharing grants that end the deferral.
func (d *Document) shouldDefer(key string, author ref.Principal, private bool) bool {
	if strings.HasPrefix(key, "acl") {
		return false
	}
	if private {
		return true
	}
	if author.IsZero() || author == d.store.principal {
		return false
	}
	for _, name := range d.store.config.Sync.PlaygroundFields {
		if name == key {
			return true
		}
	}
	return false
}

func (d *Document) applyRemote(key string, value field.Field) {
	d.updatingFromServer = true
	defer func() { d.updatingFromServer = false }()
	if err := d.setFromServer(key, value); err != nil {
		d.store.logger.Warn("remote update failed",
			"doc", d.id.String(), "key", key, "err", err)
	}
}

func (d *Document) addCachedUpdate(key string, value field.Field) {
	if d.cachedUpdates == nil {
		d.cachedUpdates = make(map[string]func())
	}
	d.cachedUpdates[key] = func() { d.applyRemote(key, value) }
}

// RunCachedUpdate applies and discards the deferred update for key, if
// any.
func (d *Document) RunCachedUpdate(key string) {
	update, ok := d.cachedUpdates[key]
	if !ok {
		return
	}
	delete(d.cachedUpdates, key)
	update()
}

// FlushCachedUpdates applies every deferred update in field-name order.
func (d *Document) FlushCachedUpdates() {
	keys := make([]string, 0, len(d.cachedUpdates))
	for key := range d.cachedUpdates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		d.RunCachedUpdate(key)
	}
}

// HasCachedUpdate reports whether a deferred update is pending for key.
func (d *Document) HasCachedUpdate(key string) bool {
	_, ok := d.cachedUpdates[key]
	return ok
}
