// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"

	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
	"github.com/docgraph-foundation/docgraph/lib/richtext"
)

// CloneResult is the outcome of a graph clone: the root's clone and the
// full source-ID-to-clone map covering every document reached during
// the walk.
type CloneResult struct {
	Clone *Document
	Map   map[ref.DocumentID]*Document
}

// MakeClone deep-clones the graph reachable from doc. The clone is a
// graph morphism: any two fields of the original graph referencing the
// same document reference the same clone afterwards, and every clone
// records its source in CloneOf. Base prototypes and layout documents
// are never cloned, only referenced. Every document in the walk skips
// the field names in its own clone exclusions.
func (s *Store) MakeClone(doc *Document) *CloneResult {
	job := &cloneJob{
		store:    s,
		cloneMap: make(map[ref.DocumentID]*Document),
	}
	clone := job.clone(doc)
	job.rewriteRichText()

	if clone != doc {
		if title, ok := clone.GetIgnoreProto("title").AsString(); ok {
			clone.fields["title"] = field.String("CLONE: " + title)
		}
	}
	return &CloneResult{Clone: clone, Map: job.cloneMap}
}

// CloneMapOf walks the graph reachable from doc the way MakeClone
// would, but creates nothing: every map entry points at the original
// document. The export archive uses this to enumerate the closure of a
// root without mutating the arena.
func (s *Store) CloneMapOf(doc *Document) map[ref.DocumentID]*Document {
	job := &cloneJob{
		store:      s,
		cloneMap:   make(map[ref.DocumentID]*Document),
		dontCreate: true,
	}
	job.clone(doc)
	return job.cloneMap
}

type cloneJob struct {
	store    *Store
	cloneMap map[ref.DocumentID]*Document

	// dontCreate maps each source to itself and assigns nothing.
	dontCreate bool

	// richTextSlots are (clone, key) pairs whose payloads embed document
	// IDs; they are rewritten after the whole graph is mapped.
	richTextSlots []richTextSlot
}

type richTextSlot struct {
	doc *Document
	key string
}

func (j *cloneJob) clone(doc *Document) *Document {
	if doc.IsBaseProto() {
		return doc
	}
	if existing, ok := j.cloneMap[doc.id]; ok {
		return existing
	}

	clone := doc
	if !j.dontCreate {
		clone = j.store.NewDocument()
		clone.cloneOf = doc.id
	}
	// The map entry is installed before any recursion: a document
	// reached again through a cycle or a second field resolves to this
	// shell instead of being cloned twice.
	j.cloneMap[doc.id] = clone

	if proto := doc.protoDocument(); proto != nil {
		cloned := j.clone(proto)
		if !j.dontCreate {
			clone.protoID = cloned.id
		}
	} else if !j.dontCreate {
		clone.protoID = doc.protoID
	}

	// Each document applies its own filter; the defaults cover nodes
	// without one.
	exclusions := doc.cloneExclusions()
	layoutKey := doc.LayoutKey()
	for _, key := range doc.Keys() {
		if exclusions[key] || strings.Contains(key, expandedLayoutMarker) {
			continue
		}
		if key == layoutKey {
			// Layout documents are shared, never cloned: the slot keeps
			// referencing the original and the layout stays outside the
			// clone map.
			if !j.dontCreate {
				value := field.CopyField(doc.raw(key))
				if object, ok := value.(field.Object); ok {
					_ = object.Bind(clone.id)
				}
				clone.fields[key] = value
			}
			continue
		}
		j.cloneField(clone, key, doc.raw(key))
	}
	return clone
}

func (j *cloneJob) cloneField(clone *Document, key string, value field.Field) {
	switch typed := value.(type) {
	case field.Ref:
		cloned := j.resolveRef(typed)
		if j.dontCreate {
			return
		}
		if cloned == nil {
			// Unresolved references point outside the graph; the clone
			// keeps referencing the original.
			clone.fields[key] = field.NewProxy(typed.RefID())
			return
		}
		clone.fields[key] = field.NewProxyTo(cloned)

	case *field.List:
		if j.dontCreate {
			for _, elem := range typed.Elements() {
				if r, ok := elem.(field.Ref); ok {
					j.resolveRef(r)
				}
			}
			return
		}
		duplicate := field.NewList()
		for _, elem := range typed.Elements() {
			if r, ok := elem.(field.Ref); ok {
				if cloned := j.resolveRef(r); cloned != nil {
					duplicate.Append(field.NewProxyTo(cloned))
				} else {
					// An unresolved member points outside the graph; the
					// cloned list keeps referencing the original.
					duplicate.Append(field.NewProxy(r.RefID()))
				}
				continue
			}
			duplicate.Append(field.CopyField(elem))
		}
		_ = duplicate.Bind(clone.id)
		clone.fields[key] = duplicate

	case *field.RichText:
		if j.dontCreate {
			return
		}
		duplicate := typed.Copy().(*field.RichText)
		_ = duplicate.Bind(clone.id)
		clone.fields[key] = duplicate
		if richtext.HasReferences(duplicate.Data()) {
			j.richTextSlots = append(j.richTextSlots, richTextSlot{doc: clone, key: key})
		}

	case field.Object:
		if j.dontCreate {
			return
		}
		// Computed fields are Objects too; Copy carries the formula and
		// drops the last evaluated value.
		duplicate := typed.Copy()
		_ = duplicate.Bind(clone.id)
		clone.fields[key] = duplicate.(field.Field)

	default:
		if j.dontCreate {
			return
		}
		clone.fields[key] = value
	}
}

// resolveRef clones the referenced document when it is materialized in
// the arena. An unresolved reference points outside the graph this
// store knows about; it is left pointing at the original.
func (j *cloneJob) resolveRef(reference field.Ref) *Document {
	target, ok := j.store.documentFor(reference)
	if !ok {
		return nil
	}
	return j.clone(target)
}

// rewriteRichText is the post-pass: once the whole graph is mapped,
// every recorded payload has its embedded IDs remapped onto the clones.
// IDs outside the map keep pointing at the originals.
func (j *cloneJob) rewriteRichText() {
	mapping := func(id ref.DocumentID) (ref.DocumentID, bool) {
		clone, ok := j.cloneMap[id]
		if !ok {
			return ref.DocumentID{}, false
		}
		return clone.id, true
	}
	for _, slot := range j.richTextSlots {
		original, ok := slot.doc.raw(slot.key).(*field.RichText)
		if !ok {
			continue
		}
		rewritten := field.NewRichText(richtext.RewriteIDs(original.Data(), mapping), original.Text())
		_ = rewritten.Bind(slot.doc.id)
		slot.doc.fields[slot.key] = rewritten
	}
}
