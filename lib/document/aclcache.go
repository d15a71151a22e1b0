// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"github.com/docgraph-foundation/docgraph/lib/acl"
	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// aclCacheEntry caches a document's computed effective level. The
// entry is valid while the store's ACL generation has not moved and
// the session principal is unchanged; any acl* write anywhere bumps
// the generation, so a write to a parent's ACL invalidates every
// descendant's cache lazily instead of via an eager push.
type aclCacheEntry struct {
	level      acl.Level
	generation uint64
	principal  ref.Principal
	valid      bool
}

// EffectiveACL returns the document's effective access level for the
// session principal: the most specific applicable own acl-* grant
// (principal-specific over Public), inherited from the prototype chain
// when the document has none, and the configured default table when
// the whole chain is silent (author default for the author, other
// default for everyone else).
func (d *Document) EffectiveACL() acl.Level {
	return d.effectiveLevel()
}

func (d *Document) effectiveLevel() acl.Level {
	generation := d.store.currentACLGeneration()
	if d.aclCache.valid && d.aclCache.generation == generation && d.aclCache.principal == d.store.principal {
		return d.aclCache.level
	}
	level := d.computeEffectiveLevel(d.store.principal, 0)
	d.aclCache = aclCacheEntry{
		level:      level,
		generation: generation,
		principal:  d.store.principal,
		valid:      true,
	}
	return level
}

// refreshACLCache re-derives and caches the effective level
// immediately. Called synchronously by Set for acl* keys.
func (d *Document) refreshACLCache() {
	d.aclCache.valid = false
	d.effectiveLevel()
}

// computeEffectiveLevel scans the document's own grants and recurses
// into the prototype chain. ACL field reads deliberately bypass the
// visibility gate: a document's grants must be evaluable even when the
// evaluation will conclude Private.
func (d *Document) computeEffectiveLevel(principal ref.Principal, depth int) acl.Level {
	if depth > d.store.config.Documents.PrototypeDepthLimit {
		d.store.logger.Warn("cyclic prototype chain during ACL evaluation", "doc", d.id.String())
		return d.store.config.Permissions.OtherDefault
	}

	if level, ok := d.ownGrant(principal); ok {
		return level
	}
	if proto := d.protoDocument(); proto != nil {
		return proto.computeEffectiveLevel(principal, depth+1)
	}

	if !principal.IsZero() && principal == d.author {
		return d.store.config.Permissions.AuthorDefault
	}
	return d.store.config.Permissions.OtherDefault
}

// ownGrant returns the document's own applicable grant for principal.
// A principal-specific field takes precedence over acl-Public; a grant
// that parses to Unset means "inherit" and is treated as no grant.
func (d *Document) ownGrant(principal ref.Principal) (acl.Level, bool) {
	if !principal.IsZero() && !principal.IsPublic() {
		if level, ok := d.grantField(principal.AclFieldName()); ok {
			return level, true
		}
	}
	if level, ok := d.grantField(ref.Public.AclFieldName()); ok {
		return level, true
	}
	return acl.Unset, false
}

func (d *Document) grantField(name string) (acl.Level, bool) {
	raw, ok := d.fields[name]
	if !ok {
		return acl.Unset, false
	}
	value, ok := field.Of(raw).AsString()
	if !ok {
		return acl.Unset, false
	}
	level, err := acl.ParseLevel(value)
	if err != nil {
		d.store.logger.Warn("unparseable ACL grant ignored",
			"doc", d.id.String(), "field", name, "value", value)
		return acl.Unset, false
	}
	if level == acl.Unset {
		return acl.Unset, false
	}
	return level, true
}
