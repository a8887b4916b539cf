// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"demoseed/internal/memstore"
	"demoseed/internal/models"
)

func newPage(title, url string) *models.Document {
	return &models.Document{
		Kind:            models.DocumentKindPage,
		Title:           title,
		ResourceSegment: url,
		StructureType:   "default",
		Structure:       models.Structure{"title": title, "url": url},
	}
}

func TestPersistAssignsIdentityAndPath(t *testing.T) {
	backend := memstore.NewDocuments()
	m := NewManager(backend)
	ctx := context.Background()

	doc := newPage("About Us", "/about")
	if err := m.Persist(ctx, doc, "en", PersistOptions{ParentPath: "/cmf/demo/contents"}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if doc.ID == uuid.Nil {
		t.Fatal("no identity assigned")
	}
	if doc.Path != "/cmf/demo/contents/about-us" {
		t.Errorf("Path = %q", doc.Path)
	}
	if doc.Locale != "en" || !doc.LocaleExists {
		t.Errorf("locale = %q exists = %v", doc.Locale, doc.LocaleExists)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	// Not visible to others before Flush.
	if backend.Count() != 0 {
		t.Errorf("committed before flush: %d", backend.Count())
	}
	if err := m.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if backend.Count() != 1 {
		t.Errorf("Count = %d, want 1", backend.Count())
	}
}

func TestPersistNodeName(t *testing.T) {
	m := NewManager(memstore.NewDocuments())
	ctx := context.Background()

	doc := &models.Document{
		Kind:          models.DocumentKindHome,
		Title:         "Homepage",
		StructureType: "homepage",
		Structure:     models.Structure{"title": "Homepage", "url": "/"},
	}
	if err := m.Persist(ctx, doc, "en", PersistOptions{ParentPath: "/cmf/demo", NodeName: "contents"}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if doc.Path != "/cmf/demo/contents" {
		t.Errorf("Path = %q", doc.Path)
	}
}

func TestPersistRequiresParent(t *testing.T) {
	m := NewManager(memstore.NewDocuments())
	if err := m.Persist(context.Background(), newPage("Blog", "/blog"), "en", PersistOptions{}); err == nil {
		t.Error("expected error without parent path")
	}
}

func TestPersistValidatesStructure(t *testing.T) {
	tests := []struct {
		name string
		doc  *models.Document
		want error
	}{
		{"unknown type", &models.Document{Kind: models.DocumentKindPage, Title: "X", StructureType: "gallery"}, models.ErrStructureNotFound},
		{"snippet type on page", &models.Document{Kind: models.DocumentKindPage, Title: "X", StructureType: "contact"}, models.ErrStructureNotFound},
		{"missing url", &models.Document{Kind: models.DocumentKindPage, Title: "X", StructureType: "default", Structure: models.Structure{"title": "X"}}, models.ErrMissingProperty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(memstore.NewDocuments())
			err := m.Persist(context.Background(), tt.doc, "en", PersistOptions{ParentPath: "/cmf/demo/contents"})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPersistSuffixesConflicts(t *testing.T) {
	m := NewManager(memstore.NewDocuments())
	ctx := context.Background()
	opts := PersistOptions{ParentPath: "/cmf/demo/contents"}

	var docs []*models.Document
	for i := 0; i < 3; i++ {
		doc := newPage("Blog", "/blog")
		if err := m.Persist(ctx, doc, "en", opts); err != nil {
			t.Fatalf("Persist %d: %v", i, err)
		}
		docs = append(docs, doc)
	}

	wantPaths := []string{"/cmf/demo/contents/blog", "/cmf/demo/contents/blog-1", "/cmf/demo/contents/blog-2"}
	wantURLs := []string{"/blog", "/blog-1", "/blog-2"}
	for i, doc := range docs {
		if doc.Path != wantPaths[i] {
			t.Errorf("doc %d path = %q, want %q", i, doc.Path, wantPaths[i])
		}
		if doc.ResourceSegment != wantURLs[i] {
			t.Errorf("doc %d url = %q, want %q", i, doc.ResourceSegment, wantURLs[i])
		}
	}

	// The same url in another locale is free.
	de := newPage("Blog", "/blog")
	de.ID = docs[1].ID
	de.Path = docs[1].Path
	if err := m.Persist(ctx, de, "de", opts); err != nil {
		t.Fatalf("Persist de: %v", err)
	}
	if de.ResourceSegment != "/blog" {
		t.Errorf("de url = %q, want /blog", de.ResourceSegment)
	}
}

func TestFindByIdentityAndPath(t *testing.T) {
	backend := memstore.NewDocuments()
	m := NewManager(backend)
	ctx := context.Background()

	doc := newPage("Artists", "/artists")
	if err := m.Persist(ctx, doc, "en", PersistOptions{ParentPath: "/cmf/demo/contents"}); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// Served from the identity map.
	byID, err := m.Find(ctx, doc.ID.String(), "en")
	if err != nil || byID != doc {
		t.Errorf("Find by id = %p, %v; want %p", byID, err, doc)
	}

	if err := m.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	m.Clear()

	byPath, err := m.Find(ctx, "/cmf/demo/contents/artists", "en")
	if err != nil {
		t.Fatalf("Find by path: %v", err)
	}
	if byPath == nil || byPath.ID != doc.ID || byPath == doc {
		t.Errorf("Find by path after Clear = %+v", byPath)
	}

	// Exists, but not in German.
	de, err := m.Find(ctx, doc.ID.String(), "de")
	if err != nil {
		t.Fatalf("Find de: %v", err)
	}
	if de == nil || de.LocaleExists || de.Title != "" || de.Path != doc.Path {
		t.Errorf("Find de = %+v", de)
	}

	missing, err := m.Find(ctx, uuid.NewString(), "en")
	if err != nil || missing != nil {
		t.Errorf("Find unknown = %v, %v; want nil, nil", missing, err)
	}
	missing, err = m.Find(ctx, "/cmf/demo/contents/nope", "en")
	if err != nil || missing != nil {
		t.Errorf("Find unknown path = %v, %v; want nil, nil", missing, err)
	}
}

func TestPublish(t *testing.T) {
	backend := memstore.NewDocuments()
	m := NewManager(backend)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	doc := newPage("Blog", "/blog")
	if err := m.Publish(ctx, doc, "en"); err == nil {
		t.Error("expected error publishing an unsaved document")
	}

	if err := m.Persist(ctx, doc, "en", PersistOptions{ParentPath: "/cmf/demo/contents"}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if err := m.Publish(ctx, doc, "en"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !doc.IsPublished() || !doc.PublishedAt.Equal(now) {
		t.Errorf("stage %q published at %v", doc.WorkflowStage, doc.PublishedAt)
	}
	if err := m.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	pubs := backend.Publications(doc.ID, "en")
	if len(pubs) != 1 {
		t.Fatalf("publications = %d, want 1", len(pubs))
	}
	if pubs[0].Title != "Blog" || pubs[0].ResourceSegment != "/blog" || !pubs[0].PublishedAt.Equal(now) {
		t.Errorf("publication = %+v", pubs[0])
	}
}

func TestCloseRollsBack(t *testing.T) {
	backend := memstore.NewDocuments()
	m := NewManager(backend)
	ctx := context.Background()

	doc := newPage("Blog", "/blog")
	if err := m.Persist(ctx, doc, "en", PersistOptions{ParentPath: "/cmf/demo/contents"}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if err := m.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if backend.Count() != 0 {
		t.Errorf("Count = %d, want 0", backend.Count())
	}
	got, err := m.Find(ctx, doc.ID.String(), "en")
	if err != nil || got != nil {
		t.Errorf("Find after Close = %v, %v; want nil, nil", got, err)
	}

	// Closing without pending writes is a no-op.
	if err := m.Close(ctx); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
