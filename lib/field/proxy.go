// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// Proxy is a reference field that holds a target document's ID and
// defers fetching the full record until first access. The store fills
// in the cache when resolution completes; until then, reads through the
// proxy report Pending.
//
// A prefetch proxy carries the same data but asks the store to resolve
// it eagerly on registration, and is exempt from single-owner
// enforcement (layout templates are deliberately shared by many
// documents through prefetch proxies).
type Proxy struct {
	owned
	fieldID  ref.DocumentID
	cache    Ref
	failed   bool
	prefetch bool
}

// NewProxy returns a lazy reference to the document with the given ID.
func NewProxy(id ref.DocumentID) *Proxy { return &Proxy{fieldID: id} }

// NewProxyTo returns a lazy reference to an already-resolved document.
func NewProxyTo(target Ref) *Proxy {
	return &Proxy{fieldID: target.RefID(), cache: target}
}

// NewPrefetchProxy returns an eager reference to an already-resolved
// document. The cache is populated immediately, so reads through the
// proxy never report Pending.
func NewPrefetchProxy(target Ref) *Proxy {
	return &Proxy{fieldID: target.RefID(), cache: target, prefetch: true}
}

// FieldKind implements Field.
func (*Proxy) FieldKind() Kind { return KindProxy }

// RefID implements Ref.
func (p *Proxy) RefID() ref.DocumentID { return p.fieldID }

// Prefetch reports whether this proxy wants eager resolution.
func (p *Proxy) Prefetch() bool { return p.prefetch }

// Resolved returns the cached referenced document, or (nil, false) if
// resolution has not completed or failed.
func (p *Proxy) Resolved() (Ref, bool) {
	if p.cache == nil {
		return nil, false
	}
	return p.cache, true
}

// Failed reports whether a completed resolution found no document.
func (p *Proxy) Failed() bool { return p.failed }

// Fill records the outcome of a resolution. A nil target marks the
// proxy failed; subsequent reads report absence rather than retrying.
func (p *Proxy) Fill(target Ref) {
	if target == nil {
		p.failed = true
		return
	}
	p.cache = target
	p.failed = false
}

// Bind implements Object. Prefetch proxies are freely rebindable; the
// same template reference is intentionally installed on many documents.
func (p *Proxy) Bind(doc ref.DocumentID) error {
	if p.prefetch {
		p.owner = doc
		return nil
	}
	return p.owned.Bind(doc)
}

// Copy implements Object. The copy shares the resolution cache (it
// points at the same document) but is unowned.
func (p *Proxy) Copy() Object {
	return &Proxy{fieldID: p.fieldID, cache: p.cache, failed: p.failed, prefetch: p.prefetch}
}
