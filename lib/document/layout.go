// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"regexp"

	"github.com/docgraph-foundation/docgraph/lib/field"
)

// expandedLayoutMarker appears in every expanded-template slot key.
// Slots carrying it are per-document expansion caches and are never
// cloned or copied between documents.
const expandedLayoutMarker = "-layout["

// fieldKeyPattern extracts the rendered field name from a layout
// description string, e.g. `fieldKey={'data'}`.
var fieldKeyPattern = regexp.MustCompile(`fieldKey=\{'([^']*)'\}`)

// TemplateFieldKey returns the name of the data field a template layout
// document renders: its own isTemplateForField declaration, the
// fieldKey embedded in its layout description string, or "data".
func TemplateFieldKey(template *Document) string {
	if key, ok := template.Get("isTemplateForField").AsString(); ok && key != "" {
		return key
	}
	if description, ok := template.Get(template.LayoutKey()).AsString(); ok {
		if match := fieldKeyPattern.FindStringSubmatch(description); match != nil && match[1] != "" {
			return match[1]
		}
	}
	return "data"
}

// expandedFieldKey is the deterministic slot name an expansion of
// template with args is cached under on the target. Distinct args
// produce distinct slots.
func expandedFieldKey(template *Document, args string) string {
	key := TemplateFieldKey(template) + expandedLayoutMarker + template.ID().String()
	if args != "" {
		key += "(" + args + ")"
	}
	return key + "]"
}

// Layout resolves the document that should render doc. With an
// override template, a previously expanded delegate cached on doc wins;
// otherwise doc's own layout field; otherwise doc renders itself.
func Layout(doc *Document, override *Document) *Document {
	if override != nil {
		if expanded, ok := doc.GetDocument(expandedFieldKey(override, "")); ok {
			return expanded
		}
	}
	if layout, ok := doc.GetDocument(doc.LayoutKey()); ok {
		return layout
	}
	return doc
}

// LayoutField returns doc's own layout slot without resolving
// references, for callers that distinguish a layout description string
// from a layout document.
func LayoutField(doc *Document) field.Result {
	return doc.Get(doc.LayoutKey())
}

// SetLayout installs layout as doc's layout document. Layout documents
// are deliberately shared across many documents, so the slot holds a
// prefetch reference exempt from single-owner enforcement.
func SetLayout(doc *Document, layout *Document) error {
	return doc.Set(doc.LayoutKey(), field.NewPrefetchProxy(layout))
}
