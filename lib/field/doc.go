// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package field defines the closed set of value kinds a document slot
// may hold.
//
// There are three families:
//
//   - Primitives (String, Number, Boolean): immutable values copied
//     freely between documents.
//   - Object fields (List, Date, RichText, URL, Ink, Script, Computed):
//     independently-owned, copyable values. Exactly one document owns
//     an object field at a time; assigning the same instance to a
//     second document is a programming error rejected at Bind time.
//     Copy produces a deep, independently-owned duplicate.
//   - Reference fields (Proxy, and any Ref such as a document itself):
//     hold a target document's ID. A Proxy defers fetching the
//     referenced document's full record until first access; a prefetch
//     proxy is resolved eagerly when registered with a store.
//
// Slot reads produce a Result, which is a tri-state value: a concrete
// Field, Absent (a first-class outcome, never an error), or Pending
// (the slot holds a reference still being resolved). Typed accessors on
// Result return absent rather than coercing between kinds.
//
// The wire encoding (wire.go) maps every kind to and from a
// JSON-compatible form with a __type discriminator. It is shared by the
// export archive, arena snapshots, and incoming field deltas.
package field
