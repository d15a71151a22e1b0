// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"fmt"
	"sort"

	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// Record is the serialized form of a document as fetched from a backing
// service or read from an archive. Field values are in wire form.
type Record struct {
	ID     ref.DocumentID `json:"id"`
	Proto  ref.DocumentID `json:"proto,omitempty"`
	Author ref.Principal  `json:"author,omitempty"`
	Fields map[string]any `json:"fields"`
}

// Resolver fetches document records the arena does not hold. A nil
// record with a nil error means the document does not exist.
type Resolver interface {
	FetchRecord(ctx context.Context, id ref.DocumentID) (*Record, error)
}

// inflightFetch tracks one outstanding fetch so concurrent callers for
// the same ID share a single request.
type inflightFetch struct {
	done chan struct{}
	doc  *Document
	err  error
}

// ResolveReference returns the document for id, fetching and
// materializing its record when the arena does not hold it. Redundant
// calls are safe: concurrent callers for the same ID share one fetch,
// and an already-materialized ID returns immediately.
func (s *Store) ResolveReference(ctx context.Context, id ref.DocumentID) (*Document, error) {
	if doc, err := s.Lookup(id); err == nil {
		return doc, nil
	}
	if s.resolver == nil {
		return nil, fmt.Errorf("resolve %s: no resolver configured: %w", id, ErrUnresolvedReference)
	}

	s.mu.Lock()
	if flight := s.inflight[id]; flight != nil {
		s.mu.Unlock()
		select {
		case <-flight.done:
			return flight.doc, flight.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	flight := &inflightFetch{done: make(chan struct{})}
	s.inflight[id] = flight
	s.mu.Unlock()

	s.finishFetch(ctx, id, flight)
	return flight.doc, flight.err
}

// resolveInBackground queues a fetch for id on the task queue, if one
// is not already queued or in flight. Reads that found a pending
// reference call this; the record exists after a Drain once the
// resolver answers.
func (s *Store) resolveInBackground(id ref.DocumentID) {
	if s.resolver == nil || id.IsZero() || s.Contains(id) {
		return
	}
	s.mu.Lock()
	if s.inflight[id] != nil {
		s.mu.Unlock()
		return
	}
	flight := &inflightFetch{done: make(chan struct{})}
	s.inflight[id] = flight
	s.mu.Unlock()

	s.Post(func() {
		s.finishFetch(context.Background(), id, flight)
		if flight.err != nil {
			s.logger.Debug("background resolution failed", "doc", id.String(), "err", flight.err)
		}
	})
}

// finishFetch performs the fetch, materializes the record, publishes
// the outcome, and retires the in-flight entry. A failed fetch is
// retriable: the entry is removed either way, so a later call asks the
// resolver again.
func (s *Store) finishFetch(ctx context.Context, id ref.DocumentID, flight *inflightFetch) {
	defer func() {
		close(flight.done)
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}()

	record, err := s.resolver.FetchRecord(ctx, id)
	if err != nil {
		flight.err = fmt.Errorf("resolve %s: %w", id, err)
		return
	}
	if record == nil {
		flight.err = fmt.Errorf("resolve %s: %w", id, ErrUnresolvedReference)
		return
	}
	flight.doc = s.materializeRecord(record)
}

// Materialize installs a record in the arena without going through a
// resolver. Snapshot restore and archive import feed records here.
func (s *Store) Materialize(record *Record) *Document {
	return s.materializeRecord(record)
}

// materializeRecord installs a fetched record in the arena. Refetching
// an ID the arena already holds overwrites the existing shell in place
// so references into it stay valid.
func (s *Store) materializeRecord(record *Record) *Document {
	doc, err := s.Lookup(record.ID)
	if err != nil {
		doc = s.NewDocumentWithID(record.ID)
	}
	doc.author = record.Author
	doc.protoID = record.Proto

	keys := make([]string, 0, len(record.Fields))
	for key := range record.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	doc.updatingFromServer = true
	for _, key := range keys {
		value, err := field.FromWire(record.Fields[key])
		if err != nil {
			s.logger.Warn("undeserializable record field dropped",
				"doc", record.ID.String(), "key", key, "err", err)
			continue
		}
		if err := doc.setFromServer(key, value); err != nil {
			s.logger.Warn("materializing record field failed",
				"doc", record.ID.String(), "key", key, "err", err)
		}
	}
	doc.updatingFromServer = false
	return doc
}

// RecordOf serializes a document's own fields to its wire record.
func RecordOf(doc *Document) *Record {
	fields := make(map[string]any, len(doc.fields))
	for key, value := range doc.fields {
		fields[key] = field.ToWire(value)
	}
	return &Record{
		ID:     doc.id,
		Proto:  doc.protoID,
		Author: doc.author,
		Fields: fields,
	}
}
