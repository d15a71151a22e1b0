// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package export serializes document graphs for interchange and
// backup.
//
// Two formats are produced. The archive (Zip/ReadArchive) is the
// external interchange format: one JSON record per document reachable
// from a root, plus a manifest with per-record checksums, packed into
// a standard zip file. Reference fields are serialized as proxy stubs
// holding the target's ID, never inlined, so an archive is always
// finite even for cyclic graphs.
//
// The snapshot (WriteSnapshot/ReadSnapshot) is the internal backup
// format: the whole arena as one CBOR payload behind a fixed header
// carrying a compression tag and an integrity digest. Snapshots are
// byte-deterministic for a given arena, so equal stores produce equal
// snapshots.
package export
