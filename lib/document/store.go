// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/docgraph-foundation/docgraph/lib/config"
	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// Options configures a Store.
type Options struct {
	// Config supplies the permission table and document defaults.
	// Nil uses config.Default().
	Config *config.Config

	// Logger receives warnings (dropped deltas, cycle fallbacks).
	// Nil discards.
	Logger *slog.Logger

	// Principal is the session identity: the author stamped on new
	// documents and the principal ACL evaluation runs for.
	Principal ref.Principal

	// Resolver fetches records for references not in the arena. Nil
	// means unresolvable references stay pending forever.
	Resolver Resolver

	// UpdateSink receives field deltas produced by local writes. Nil
	// discards them (a purely local store).
	UpdateSink UpdateSink
}

// Store is the document arena and ambient session state: it owns every
// document, tracks in-flight reference resolution and pending template
// expansions, and carries the deferred-work queue. One Store is one
// in-process authority over its document graph; its caches are scoped
// to the session and cleared by Reset at teardown.
type Store struct {
	config    *config.Config
	logger    *slog.Logger
	principal ref.Principal
	resolver  Resolver
	sink      UpdateSink

	mu    sync.Mutex
	arena map[ref.DocumentID]*Document

	// aclGeneration is bumped on every acl* field write anywhere in
	// the store. Per-document effective-level caches record the
	// generation they were computed at and recompute lazily when it
	// moves — a write to a parent's ACL invalidates all descendants
	// without an eager push.
	aclGeneration uint64

	// pendingExpansions dedups concurrent template expansion requests,
	// keyed by target ID + expanded field key + args.
	pendingExpansions map[string]bool

	tasks    []func()
	draining bool

	inflight map[ref.DocumentID]*inflightFetch
}

// NewStore returns an empty store.
func NewStore(options Options) *Store {
	cfg := options.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		config:            cfg,
		logger:            logger,
		principal:         options.Principal,
		resolver:          options.Resolver,
		sink:              options.UpdateSink,
		arena:             make(map[ref.DocumentID]*Document),
		pendingExpansions: make(map[string]bool),
		inflight:          make(map[ref.DocumentID]*inflightFetch),
	}
}

// Principal returns the session identity.
func (s *Store) Principal() ref.Principal { return s.principal }

// Config returns the store configuration.
func (s *Store) Config() *config.Config { return s.config }

// NewDocument creates an empty document with a fresh ID, stamps the
// session principal as author, and registers it in the arena.
func (s *Store) NewDocument() *Document {
	return s.NewDocumentWithID(ref.NewDocumentID())
}

// NewDocumentWithID is NewDocument with a caller-chosen ID. It is used
// when materializing fetched records and restoring snapshots, where
// identity must be preserved.
func (s *Store) NewDocumentWithID(id ref.DocumentID) *Document {
	doc := &Document{
		id:     id,
		author: s.principal,
		store:  s,
		fields: make(map[string]field.Field),
	}
	s.mu.Lock()
	s.arena[id] = doc
	s.mu.Unlock()
	return doc
}

// Lookup returns the arena entry for id, or ErrUnknownDocument.
func (s *Store) Lookup(id ref.DocumentID) (*Document, error) {
	s.mu.Lock()
	doc := s.arena[id]
	s.mu.Unlock()
	if doc == nil {
		return nil, ErrUnknownDocument
	}
	return doc, nil
}

// Contains reports whether the arena holds a document with the ID.
func (s *Store) Contains(id ref.DocumentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.arena[id] != nil
}

// Documents returns every document in the arena, sorted by ID for
// deterministic iteration (the export walker depends on this).
func (s *Store) Documents() []*Document {
	s.mu.Lock()
	docs := make([]*Document, 0, len(s.arena))
	for _, doc := range s.arena {
		docs = append(docs, doc)
	}
	s.mu.Unlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].id.String() < docs[j].id.String() })
	return docs
}

// Len returns the number of documents in the arena.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.arena)
}

// Reset tears down all session state: the arena, the pending-expansion
// set, queued tasks, in-flight fetches, and the ACL cache generation.
// Call it on sign-out so stale permissions cannot leak across sessions.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arena = make(map[ref.DocumentID]*Document)
	s.pendingExpansions = make(map[string]bool)
	s.tasks = nil
	s.inflight = make(map[ref.DocumentID]*inflightFetch)
	s.aclGeneration++
}

// bumpACLGeneration lazily invalidates every document's cached
// effective level.
func (s *Store) bumpACLGeneration() {
	s.mu.Lock()
	s.aclGeneration++
	s.mu.Unlock()
}

func (s *Store) currentACLGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aclGeneration
}

// Post queues a task for the next Drain. Work that would re-enter the
// document graph synchronously (template-delegate creation) is posted
// here instead of recursing.
func (s *Store) Post(task func()) {
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
}

// Drain runs queued tasks in FIFO order until the queue is empty,
// including tasks queued by the tasks themselves. Re-entrant calls
// return immediately; the outer Drain picks up the new work.
func (s *Store) Drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.tasks) > 0 {
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.mu.Unlock()
		task()
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}
