// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package document implements the docgraph document record and the
// store that owns it: a mutable key/value record with single-parent
// prototypal field inheritance, per-field access control, lazily
// resolved cross-document references, template-layout expansion, and an
// identity-preserving deep-clone operation.
//
// # Ownership model
//
// A Store is an arena: it owns every document outright, indexed by
// stable ID. Inter-document fields hold IDs (directly or through lazy
// proxies), never owning pointers, so cyclic and self-referential
// graphs are safe — a link document can point at an anchor that points
// back. Documents are never implicitly garbage collected by this
// package; lifetime is the responsibility of whatever structure holds a
// reference to a document's ID.
//
// # Reading and writing
//
// Get returns a field.Result: a concrete value, Absent (a first-class
// outcome, never an error), or Pending when the slot holds a reference
// still being fetched. Reads consult the access-control evaluator
// first — a document whose effective level is Private has no readable
// or enumerable fields for anyone but its author — and fall back to
// the prototype chain for keys the document does not define itself.
// Set writes the document's own slot only, never the prototype's, and
// synchronously re-derives the cached effective level when the written
// key starts with "acl".
//
// # Deferred work
//
// Mutation is synchronous and single-writer. The only suspension
// points are reference resolution (async against the store's Resolver,
// deduplicated per ID) and template-delegate creation, which is posted
// to the store's task queue instead of performed re-entrantly; callers
// observe Pending and call Drain (or wait for the embedding event
// loop) to make progress. This "schedule, don't recurse" discipline is
// what keeps pathological template graphs from overflowing the stack.
package document
