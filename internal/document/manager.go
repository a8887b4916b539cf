// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package document implements a unit of work over a document backend. The
// Manager keeps an identity map of loaded documents, assigns identities and
// node paths on first persist, keeps urls unique per locale, and buffers all
// writes until Flush.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"demoseed/internal/models"
	"demoseed/internal/slug"
)

// Backend persists documents. Lookups return (nil, nil) when nothing matches.
// Writes happen between Begin and Commit; lookups made in between must see
// them.
type Backend interface {
	FindByID(ctx context.Context, id uuid.UUID, locale string) (*models.Document, error)
	FindByPath(ctx context.Context, path, locale string) (*models.Document, error)
	PathExists(ctx context.Context, path string) (bool, error)
	ResourceSegmentOwner(ctx context.Context, locale, segment string) (uuid.UUID, error)
	Save(ctx context.Context, doc *models.Document) error
	Publish(ctx context.Context, pub *models.DocumentPublication) error
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PersistOptions controls where a new document is placed.
type PersistOptions struct {
	// ParentPath is the node path of the parent. Only used on first persist.
	ParentPath string
	// NodeName overrides the node name derived from the title.
	NodeName string
}

// Manager is a document manager bound to one backend. It is not safe for
// concurrent use.
type Manager struct {
	backend  Backend
	now      func() time.Time
	identity map[string]*models.Document
	inTx     bool
}

// NewManager creates a Manager over the given backend.
func NewManager(backend Backend) *Manager {
	return &Manager{
		backend:  backend,
		now:      time.Now,
		identity: make(map[string]*models.Document),
	}
}

func idKey(id uuid.UUID, locale string) string { return "id:" + id.String() + "@" + locale }
func pathKey(p, locale string) string          { return "path:" + p + "@" + locale }

// Find loads a document by identity or node path in the given locale. A
// value that parses as a UUID is an identity; anything else is a path.
// It returns (nil, nil) if the document does not exist.
func (m *Manager) Find(ctx context.Context, identityOrPath, locale string) (*models.Document, error) {
	if id, err := uuid.Parse(identityOrPath); err == nil {
		if doc, ok := m.identity[idKey(id, locale)]; ok {
			return doc, nil
		}
		doc, err := m.backend.FindByID(ctx, id, locale)
		if err != nil {
			return nil, fmt.Errorf("find document %s: %w", id, err)
		}
		m.remember(doc)
		return doc, nil
	}

	if doc, ok := m.identity[pathKey(identityOrPath, locale)]; ok {
		return doc, nil
	}
	doc, err := m.backend.FindByPath(ctx, identityOrPath, locale)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", identityOrPath, err)
	}
	m.remember(doc)
	return doc, nil
}

// Create returns a new, unsaved document of the given kind.
func (m *Manager) Create(kind models.DocumentKind) *models.Document {
	return &models.Document{
		Kind:          kind,
		RedirectType:  models.RedirectTypeNone,
		WorkflowStage: models.WorkflowStageTest,
	}
}

// Persist writes the document's locale variant. On first persist it assigns
// the identity and the node path below opts.ParentPath.
func (m *Manager) Persist(ctx context.Context, doc *models.Document, locale string, opts PersistOptions) error {
	if err := m.begin(ctx); err != nil {
		return err
	}

	doc.Locale = locale
	if doc.RedirectType == "" {
		doc.RedirectType = models.RedirectTypeNone
	}
	if doc.WorkflowStage == "" {
		doc.WorkflowStage = models.WorkflowStageTest
	}

	if err := models.ValidateStructure(doc); err != nil {
		return fmt.Errorf("persist %q: %w", doc.Title, err)
	}

	if doc.IsNew() {
		if opts.ParentPath == "" {
			return fmt.Errorf("persist %q: parent path required for new document", doc.Title)
		}
		name := opts.NodeName
		if name == "" {
			name = slug.Generate(doc.Title)
		}
		if name == "" {
			return fmt.Errorf("persist %q: cannot derive node name", doc.Title)
		}
		nodePath, err := m.uniquePath(ctx, path.Join(opts.ParentPath, name))
		if err != nil {
			return err
		}
		doc.ID = uuid.New()
		doc.ParentPath = opts.ParentPath
		doc.Path = nodePath
		doc.CreatedAt = m.now()
	}

	if doc.ResourceSegment != "" {
		segment, err := m.uniqueSegment(ctx, doc.ID, locale, doc.ResourceSegment)
		if err != nil {
			return err
		}
		if segment != doc.ResourceSegment {
			slog.Warn("resource segment taken, using suffix",
				"locale", locale,
				"requested", doc.ResourceSegment,
				"assigned", segment,
			)
			if doc.Structure.String("url") == doc.ResourceSegment {
				doc.Structure["url"] = segment
			}
			doc.ResourceSegment = segment
		}
	}

	doc.UpdatedAt = m.now()
	if err := m.backend.Save(ctx, doc); err != nil {
		return fmt.Errorf("persist %q: %w", doc.Title, err)
	}
	doc.LocaleExists = true
	m.remember(doc)

	slog.Debug("document persisted",
		"id", doc.ID,
		"path", doc.Path,
		"locale", locale,
		"url", doc.ResourceSegment,
	)
	return nil
}

// Publish marks the document's locale variant as published and records a
// publication snapshot. The document must have been persisted.
func (m *Manager) Publish(ctx context.Context, doc *models.Document, locale string) error {
	if doc.IsNew() {
		return fmt.Errorf("publish %q: document was never persisted", doc.Title)
	}
	if err := m.begin(ctx); err != nil {
		return err
	}

	now := m.now()
	doc.Locale = locale
	doc.WorkflowStage = models.WorkflowStagePublished
	doc.PublishedAt = &now
	doc.UpdatedAt = now

	if err := m.backend.Save(ctx, doc); err != nil {
		return fmt.Errorf("publish %q: %w", doc.Title, err)
	}
	err := m.backend.Publish(ctx, &models.DocumentPublication{
		DocumentID:      doc.ID,
		Locale:          locale,
		Title:           doc.Title,
		ResourceSegment: doc.ResourceSegment,
		StructureType:   doc.StructureType,
		Structure:       doc.Structure.Clone(),
		PublishedAt:     now,
	})
	if err != nil {
		return fmt.Errorf("publish %q: %w", doc.Title, err)
	}

	slog.Debug("document published", "id", doc.ID, "locale", locale)
	return nil
}

// Flush commits all writes since the last flush.
func (m *Manager) Flush(ctx context.Context) error {
	if !m.inTx {
		return nil
	}
	if err := m.backend.Commit(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	m.inTx = false
	return nil
}

// Clear drops the identity map so subsequent finds reload from the backend.
func (m *Manager) Clear() {
	m.identity = make(map[string]*models.Document)
}

// Close discards writes that were never flushed.
func (m *Manager) Close(ctx context.Context) error {
	if !m.inTx {
		return nil
	}
	m.inTx = false
	m.Clear()
	if err := m.backend.Rollback(ctx); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func (m *Manager) begin(ctx context.Context) error {
	if m.inTx {
		return nil
	}
	if err := m.backend.Begin(ctx); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	m.inTx = true
	return nil
}

func (m *Manager) remember(doc *models.Document) {
	if doc == nil {
		return
	}
	m.identity[idKey(doc.ID, doc.Locale)] = doc
	m.identity[pathKey(doc.Path, doc.Locale)] = doc
}

// uniquePath appends -1, -2, ... to the node name until no sibling uses it.
func (m *Manager) uniquePath(ctx context.Context, want string) (string, error) {
	candidate := want
	for i := 1; ; i++ {
		exists, err := m.backend.PathExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check path %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = want + "-" + strconv.Itoa(i)
	}
}

// uniqueSegment appends -1, -2, ... to the url until no other document in the
// locale uses it.
func (m *Manager) uniqueSegment(ctx context.Context, id uuid.UUID, locale, want string) (string, error) {
	want = strings.TrimRight(want, "/")
	if want == "" {
		want = "/"
	}
	candidate := want
	for i := 1; ; i++ {
		owner, err := m.backend.ResourceSegmentOwner(ctx, locale, candidate)
		if err != nil {
			return "", fmt.Errorf("check url %s: %w", candidate, err)
		}
		if owner == uuid.Nil || owner == id {
			return candidate, nil
		}
		candidate = want + "-" + strconv.Itoa(i)
	}
}
