// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides docgraph's standard CBOR encoding configuration.
//
// Docgraph uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the Zip export archive (one JSON
//     record per document plus a manifest), field deltas exchanged with
//     a remote persistence tier, and CLI --json output.
//   - CBOR for internal formats: arena snapshots written to disk and any
//     process-to-process state transfer.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every docgraph package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, which is what makes snapshot digests reproducible.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (snapshot files):
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
package codec
