// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore provides in-memory implementations of the document
// backend, media catalog and default snippet registry. They back dry runs
// and tests; nothing survives the process.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"demoseed/internal/models"
)

var (
	errTxOpen   = errors.New("memstore: transaction already open")
	errNoTx     = errors.New("memstore: no open transaction")
	errNotFound = errors.New("memstore: document not found")
)

type node struct {
	id         uuid.UUID
	kind       models.DocumentKind
	path       string
	parentPath string
	createdAt  time.Time
	locales    map[string]*models.Document
}

type state struct {
	nodes        map[uuid.UUID]*node
	byPath       map[string]uuid.UUID
	publications []models.DocumentPublication
}

func newState() *state {
	return &state{
		nodes:  make(map[uuid.UUID]*node),
		byPath: make(map[string]uuid.UUID),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, n := range s.nodes {
		nc := *n
		nc.locales = make(map[string]*models.Document, len(n.locales))
		for loc, d := range n.locales {
			nc.locales[loc] = d.Clone()
		}
		c.nodes[id] = &nc
	}
	for p, id := range s.byPath {
		c.byPath[p] = id
	}
	c.publications = append(c.publications, s.publications...)
	return c
}

// Documents is an in-memory document backend. Writes go to a staged copy of
// the committed state between Begin and Commit.
type Documents struct {
	mu        sync.Mutex
	committed *state
	staged    *state
}

// NewDocuments returns an empty in-memory document backend.
func NewDocuments() *Documents {
	return &Documents{committed: newState()}
}

func (s *Documents) current() *state {
	if s.staged != nil {
		return s.staged
	}
	return s.committed
}

// FindByID returns the document in the given locale. A node without that
// locale is returned with empty localized fields.
func (s *Documents) FindByID(_ context.Context, id uuid.UUID, locale string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.current().nodes[id]
	if !ok {
		return nil, nil
	}
	return n.load(locale), nil
}

// FindByPath returns the document at a node path in the given locale.
func (s *Documents) FindByPath(_ context.Context, path, locale string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.current()
	id, ok := st.byPath[path]
	if !ok {
		return nil, nil
	}
	return st.nodes[id].load(locale), nil
}

// PathExists reports whether a node lives at path.
func (s *Documents) PathExists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.current().byPath[path]
	return ok, nil
}

// ResourceSegmentOwner returns the document using the url in the locale, or
// uuid.Nil.
func (s *Documents) ResourceSegmentOwner(_ context.Context, locale, segment string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.current().nodes {
		if d, ok := n.locales[locale]; ok && d.ResourceSegment == segment {
			return id, nil
		}
	}
	return uuid.Nil, nil
}

// Save writes the node and its locale variant.
func (s *Documents) Save(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged == nil {
		return errNoTx
	}
	n, ok := s.staged.nodes[doc.ID]
	if !ok {
		n = &node{
			id:         doc.ID,
			kind:       doc.Kind,
			path:       doc.Path,
			parentPath: doc.ParentPath,
			createdAt:  doc.CreatedAt,
			locales:    make(map[string]*models.Document),
		}
		s.staged.nodes[doc.ID] = n
		s.staged.byPath[doc.Path] = doc.ID
	}
	stored := doc.Clone()
	stored.LocaleExists = true
	n.locales[doc.Locale] = stored
	return nil
}

// Publish records a publication snapshot.
func (s *Documents) Publish(_ context.Context, pub *models.DocumentPublication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged == nil {
		return errNoTx
	}
	if _, ok := s.staged.nodes[pub.DocumentID]; !ok {
		return errNotFound
	}
	p := *pub
	p.ID = uuid.New()
	p.Structure = pub.Structure.Clone()
	s.staged.publications = append(s.staged.publications, p)
	return nil
}

// Begin opens a transaction on a copy of the committed state.
func (s *Documents) Begin(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged != nil {
		return errTxOpen
	}
	s.staged = s.committed.clone()
	return nil
}

// Commit makes the staged state the committed state.
func (s *Documents) Commit(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged == nil {
		return errNoTx
	}
	s.committed = s.staged
	s.staged = nil
	return nil
}

// Rollback discards the staged state.
func (s *Documents) Rollback(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = nil
	return nil
}

// Count returns the number of committed documents.
func (s *Documents) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.committed.nodes)
}

// Locales returns the committed locales of a document, sorted.
func (s *Documents) Locales(id uuid.UUID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.committed.nodes[id]
	if !ok {
		return nil
	}
	locales := make([]string, 0, len(n.locales))
	for loc := range n.locales {
		locales = append(locales, loc)
	}
	sort.Strings(locales)
	return locales
}

// Publications returns the committed publication snapshots of a document
// locale, oldest first.
func (s *Documents) Publications(id uuid.UUID, locale string) []models.DocumentPublication {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.DocumentPublication
	for _, p := range s.committed.publications {
		if p.DocumentID == id && p.Locale == locale {
			out = append(out, p)
		}
	}
	return out
}

func (n *node) load(locale string) *models.Document {
	if d, ok := n.locales[locale]; ok {
		return d.Clone()
	}
	return &models.Document{
		ID:            n.id,
		Kind:          n.kind,
		Path:          n.path,
		ParentPath:    n.parentPath,
		Locale:        locale,
		RedirectType:  models.RedirectTypeNone,
		WorkflowStage: models.WorkflowStageTest,
		CreatedAt:     n.createdAt,
	}
}
