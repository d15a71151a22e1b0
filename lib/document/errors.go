// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import "errors"

// ErrPermissionDenied is returned by Set when the caller's effective
// access level does not permit the write. The write is a no-op; the
// document is unchanged.
var ErrPermissionDenied = errors.New("document: permission denied")

// ErrCyclicPrototype is returned when a prototype-chain walk exceeds
// the configured depth limit. The chain invariant (acyclic,
// terminating) has been violated; the operation falls back to the
// document itself rather than looping forever.
var ErrCyclicPrototype = errors.New("document: prototype chain exceeds depth limit")

// ErrUnresolvedReference is returned by resolution when no Resolver is
// configured or the referenced document cannot be fetched. Callers
// treat it as "try again later", not as corruption.
var ErrUnresolvedReference = errors.New("document: reference is not resolved")

// ErrUnknownDocument is returned by Store.Lookup for an ID with no
// arena entry.
var ErrUnknownDocument = errors.New("document: no document with that ID")
