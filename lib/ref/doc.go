// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable identity references for
// documents and principals. A document is addressed everywhere — proxy
// fields, clone maps, expanded-layout field keys, export manifests — by
// its DocumentID, never by pointer, so that cross-document references
// survive serialization and never keep a document alive by themselves.
//
// All constructors validate their inputs and return errors for invalid
// values. Once constructed, a ref is immutable. JSON and YAML marshaling
// use the canonical text form via encoding.TextMarshaler.
package ref
