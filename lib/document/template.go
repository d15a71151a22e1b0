// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"

	"github.com/docgraph-foundation/docgraph/lib/field"
)

// WillExpandTemplateLayout reports whether expanding template for args
// would produce a delegate rather than returning the template itself.
// A document that declares no rendered field and carries no default
// parameters is a plain layout and never expands.
func WillExpandTemplateLayout(template *Document, args string) bool {
	if args != "" {
		return true
	}
	if template.Get("isTemplateForField").StringOr("") != "" {
		return true
	}
	return !template.Get("PARAMS").IsAbsent()
}

// ExpandTemplateLayout specializes a shared template layout for one
// target document. The delegate is cached in a deterministic slot on
// the target, so repeated requests for the same (template, target,
// args) triple return the identical document and write the slot exactly
// once.
//
// Delegate creation is deferred through the store's task queue: a
// synchronous request that misses the cache returns pending=true, and
// the delegate exists after the next Drain. Creating the delegate
// inline would let the creation itself re-read the slot being filled.
func (s *Store) ExpandTemplateLayout(template, target *Document, args string) (*Document, bool) {
	if !WillExpandTemplateLayout(template, args) {
		return template, false
	}

	expandedKey := expandedFieldKey(template, args)

	switch cached := target.GetIgnoreProto(expandedKey); {
	case cached.IsPending():
		return nil, true
	case !cached.IsAbsent():
		if delegate, ok := target.GetDocument(expandedKey); ok {
			return delegate, false
		}
	}

	// A template already bound to exactly this target with these
	// parameters is its own expansion.
	if root, ok := template.GetDocument("rootDocument"); ok && root == target {
		if template.Get("PARAMS").StringOr("") == paramsValue(args) {
			return template, false
		}
	}

	// The delegate must bind to the template's resolved data document;
	// if that reference is itself still being fetched, nothing correct
	// can be cached yet.
	if template.Get("resolvedDataDoc").IsPending() {
		return nil, true
	}

	pendingKey := target.id.String() + expandedKey
	s.mu.Lock()
	if s.pendingExpansions[pendingKey] {
		s.mu.Unlock()
		return nil, true
	}
	s.pendingExpansions[pendingKey] = true
	s.mu.Unlock()

	s.Post(func() {
		defer func() {
			// Cleared unconditionally: a failed expansion must not wedge
			// the key forever.
			s.mu.Lock()
			delete(s.pendingExpansions, pendingKey)
			s.mu.Unlock()
		}()

		delegate := s.MakeDelegate(template, "")
		name, value := splitParams(args)
		if err := delegate.Set(name, field.String(value)); err != nil {
			s.logger.Warn("template expansion failed", "template", template.id.String(), "err", err)
			return
		}
		_ = delegate.Set("rootDocument", field.NewProxyTo(target))
		_ = delegate.Set("resolvedDataDoc", field.NewProxyTo(target.DataDocument()))
		_ = delegate.Set("isExpandedTemplate", field.Boolean(true))
		if err := target.setFromServer(expandedKey, field.NewProxyTo(delegate)); err != nil {
			s.logger.Warn("caching expanded template failed",
				"target", target.id.String(), "key", expandedKey, "err", err)
		}
	})
	return nil, true
}

// splitParams maps an args string to the parameter field written on the
// delegate: "width=500" binds field "width" to "500", anything else
// binds the conventional "PARAMS" field to the whole string. The "..."
// placeholder means "expand with no arguments".
func splitParams(args string) (name, value string) {
	value = paramsValue(args)
	if name, bound, ok := strings.Cut(args, "="); ok {
		return name, bound
	}
	return "PARAMS", value
}

func paramsValue(args string) string {
	if args == "..." {
		return ""
	}
	return args
}

// invalidateExpansions drops every cached expansion of the template
// across the arena. Called when the template's binding fields change,
// so stale delegates are re-created on next expansion instead of
// served.
func (s *Store) invalidateExpansions(template *Document) {
	marker := expandedLayoutMarker + template.id.String()
	for _, doc := range s.Documents() {
		for key := range doc.fields {
			if strings.Contains(key, marker) {
				delete(doc.fields, key)
			}
		}
	}
}
