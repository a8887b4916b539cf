// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fixture seeds the document store with demo content. A Seeder
// upserts and publishes pages, snippets and homepages in a fixed order and
// resolves references between them.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"demoseed/internal/document"
	"demoseed/internal/models"
	"demoseed/internal/slug"
)

var (
	// ErrDocumentNotFound is returned when a document that must already
	// exist is missing.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrTooManyMedia is returned when a media name is ambiguous.
	ErrTooManyMedia = models.ErrTooManyMedia
)

// DocumentManager is the unit of work the seeder writes through. Find
// returns (nil, nil) when nothing matches.
type DocumentManager interface {
	Find(ctx context.Context, identityOrPath, locale string) (*models.Document, error)
	Create(kind models.DocumentKind) *models.Document
	Persist(ctx context.Context, doc *models.Document, locale string, opts document.PersistOptions) error
	Publish(ctx context.Context, doc *models.Document, locale string) error
	Flush(ctx context.Context) error
	Clear()
	Close(ctx context.Context) error
}

// MediaCatalog looks up media by file version name.
type MediaCatalog interface {
	FindIDByName(ctx context.Context, name string) (int64, bool, error)
}

// SnippetRegistry records the default snippet of a type per webspace and
// locale.
type SnippetRegistry interface {
	Save(ctx context.Context, webspace, snippetType string, id uuid.UUID, locale string) error
}

// PageInvalidator drops rendered pages. Implementations log their own
// failures.
type PageInvalidator interface {
	InvalidatePage(ctx context.Context, locale, url string)
	InvalidateAll(ctx context.Context)
}

// Options configures a Seeder.
type Options struct {
	DefaultLocale string
	Webspace      string
	// ContentsPath is the node path of the webspace homepage, under which
	// pages are created.
	ContentsPath string
	SnippetsPath string
	// AuthorID is recorded on every page. Nil leaves it empty.
	AuthorID *uuid.UUID
}

// Result holds the identities produced by a run.
type Result struct {
	Pages     map[string]uuid.UUID // by base-locale url
	Snippets  map[string]uuid.UUID // by snippet type
	Homepage  uuid.UUID
	Published int
}

// Seeder upserts and publishes fixture records.
type Seeder struct {
	docs     DocumentManager
	media    MediaCatalog
	snippets SnippetRegistry
	pages    PageInvalidator
	opts     Options

	// pending holds default snippet registrations until the snippets they
	// name are flushed.
	pending []registration
}

type registration struct {
	snippetType string
	id          uuid.UUID
	locale      string
}

// NewSeeder creates a Seeder. pages may be nil when no page cache is used.
func NewSeeder(docs DocumentManager, media MediaCatalog, snippets SnippetRegistry, pages PageInvalidator, opts Options) *Seeder {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}
	if opts.Webspace == "" {
		opts.Webspace = "demo"
	}
	if opts.ContentsPath == "" {
		opts.ContentsPath = "/cmf/" + opts.Webspace + "/contents"
	}
	if opts.SnippetsPath == "" {
		opts.SnippetsPath = "/cmf/snippets"
	}
	return &Seeder{docs: docs, media: media, snippets: snippets, pages: pages, opts: opts}
}

// Run seeds a complete fixture set: base pages, their translations,
// snippets, the base homepage, then the remaining homepages and the
// cross-reference updates. Anything not flushed when an error occurs is
// rolled back.
func (s *Seeder) Run(ctx context.Context, set *Set) (res *Result, err error) {
	defer func() {
		if err == nil {
			return
		}
		if cerr := s.docs.Close(ctx); cerr != nil {
			slog.Error("rollback failed", "error", cerr)
		}
		s.pending = nil
	}()

	res = &Result{
		Pages:    make(map[string]uuid.UUID),
		Snippets: make(map[string]uuid.UUID),
	}

	slog.Info("seeding pages", "count", len(set.Pages))
	for _, rec := range set.Pages {
		doc, err := s.UpsertPage(ctx, rec, res.Pages)
		if err != nil {
			return nil, err
		}
		res.Pages[s.pageURL(rec)] = doc.ID
		res.Published++
	}

	slog.Info("seeding translations", "count", len(set.Translations))
	for _, rec := range set.Translations {
		if _, err := s.UpsertPage(ctx, rec, res.Pages); err != nil {
			return nil, err
		}
		res.Published++
	}

	slog.Info("seeding snippets", "count", len(set.Snippets))
	for _, sn := range set.Snippets {
		id, n, err := s.LoadSnippet(ctx, sn)
		if err != nil {
			return nil, err
		}
		res.Snippets[sn.Type] = id
		res.Published += n
	}

	for i, hp := range set.Homepages {
		if i == 1 {
			// Later homepages reference documents through the store, not
			// through the unit of work that created them.
			if err := s.Flush(ctx); err != nil {
				return nil, err
			}
			s.docs.Clear()
		}
		doc, err := s.LoadHomepage(ctx, hp)
		if err != nil {
			return nil, err
		}
		res.Homepage = doc.ID
		res.Published++
	}

	slog.Info("updating references", "count", len(set.Updates))
	for _, u := range set.Updates {
		n, err := s.UpdateReferences(ctx, u)
		if err != nil {
			return nil, err
		}
		res.Published += n
	}

	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	if s.pages != nil {
		s.pages.InvalidateAll(ctx)
	}
	return res, nil
}

// UpsertPage creates or updates a page from rec and publishes it. handles
// maps base-locale urls to identities for records that translate a page;
// it may be nil.
func (s *Seeder) UpsertPage(ctx context.Context, rec Record, handles map[string]uuid.UUID) (*models.Document, error) {
	locale := s.locale(rec.Locale)
	parent := s.absPath(rec.ParentPath)
	url := s.pageURL(rec)

	id := rec.ID
	if id == "" && rec.Translates != "" {
		h, ok := handles[rec.Translates]
		if !ok {
			return nil, fmt.Errorf("page %q: %w: no page seeded at %s", rec.Title, ErrDocumentNotFound, rec.Translates)
		}
		id = h.String()
	}

	doc, err := s.findOrCreate(ctx, id, locale, models.DocumentKindPage)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", rec.Title, err)
	}

	r := &resolver{s: s, locale: locale}
	data := map[string]any{}
	if rec.Redirect == "" {
		data, err = r.resolveMap(ctx, rec.Data)
		if err != nil {
			return nil, fmt.Errorf("page %q: %w", rec.Title, err)
		}
	}
	data["title"] = rec.Title
	data["url"] = url

	navigation := rec.NavigationContexts
	if navigation == nil {
		navigation = []string{}
	}
	structureType := rec.StructureType
	if structureType == "" {
		structureType = "default"
	}

	doc.NavigationContexts = navigation
	doc.Title = rec.Title
	doc.ResourceSegment = url
	doc.StructureType = structureType
	doc.WorkflowStage = models.WorkflowStagePublished
	doc.AuthorID = s.opts.AuthorID
	doc.Extensions = map[string]any{
		"seo":     extension(rec.SEO),
		"excerpt": extension(rec.Excerpt),
	}
	if rec.Redirect != "" {
		doc.RedirectType = models.RedirectTypeExternal
		doc.RedirectExternal = rec.Redirect
	}
	doc.Structure.Bind(data)

	if err := s.persistAndPublish(ctx, doc, locale, parent, data, r.current); err != nil {
		return nil, fmt.Errorf("page %q: %w", rec.Title, err)
	}
	return doc, nil
}

// UpsertSnippet creates or updates a snippet of snippetType from rec and
// publishes it.
func (s *Seeder) UpsertSnippet(ctx context.Context, snippetType string, rec Record) (*models.Document, error) {
	locale := s.locale(rec.Locale)

	doc, err := s.findOrCreate(ctx, rec.ID, locale, models.DocumentKindSnippet)
	if err != nil {
		return nil, fmt.Errorf("snippet %q: %w", rec.Title, err)
	}

	r := &resolver{s: s, locale: locale}
	data, err := r.resolveMap(ctx, rec.Data)
	if err != nil {
		return nil, fmt.Errorf("snippet %q: %w", rec.Title, err)
	}
	data["title"] = rec.Title

	doc.Title = rec.Title
	doc.StructureType = snippetType
	doc.WorkflowStage = models.WorkflowStagePublished
	doc.AuthorID = s.opts.AuthorID
	doc.Structure.Bind(data)

	if err := s.persistAndPublish(ctx, doc, locale, s.opts.SnippetsPath, data, r.current); err != nil {
		return nil, fmt.Errorf("snippet %q: %w", rec.Title, err)
	}
	return doc, nil
}

// LoadSnippet seeds every variant of a snippet and, when asked to, queues it
// for registration as default snippet on the next Flush. It returns the
// snippet identity and the number of variants published.
func (s *Seeder) LoadSnippet(ctx context.Context, sn Snippet) (uuid.UUID, int, error) {
	var id uuid.UUID
	for i, rec := range sn.Variants {
		if i > 0 && rec.ID == "" {
			rec.ID = id.String()
		}
		doc, err := s.UpsertSnippet(ctx, sn.Type, rec)
		if err != nil {
			return uuid.Nil, i, err
		}
		id = doc.ID

		if sn.Default {
			s.pending = append(s.pending, registration{
				snippetType: sn.Type,
				id:          doc.ID,
				locale:      s.locale(rec.Locale),
			})
		}
	}
	return id, len(sn.Variants), nil
}

// LoadHomepage binds hp to the webspace homepage and publishes it. The
// homepage is created when the webspace has none yet.
func (s *Seeder) LoadHomepage(ctx context.Context, hp Homepage) (*models.Document, error) {
	locale := s.locale(hp.Locale)

	doc, err := s.docs.Find(ctx, s.opts.ContentsPath, locale)
	if err != nil {
		return nil, fmt.Errorf("homepage %s: %w", locale, err)
	}
	if doc == nil {
		doc = s.docs.Create(models.DocumentKindHome)
	}
	if doc.Kind != models.DocumentKindHome {
		return nil, fmt.Errorf("homepage %s: document at %s is a %s, not a %s",
			locale, s.opts.ContentsPath, doc.Kind, models.DocumentKindHome)
	}

	r := &resolver{s: s, locale: locale}
	data, err := r.resolveMap(ctx, hp.Data)
	if err != nil {
		return nil, fmt.Errorf("homepage %s: %w", locale, err)
	}

	title := hp.Title
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = "Homepage"
	}
	data["title"] = title
	data["url"] = "/"

	doc.Title = title
	doc.ResourceSegment = "/"
	if doc.StructureType == "" {
		doc.StructureType = "homepage"
	}
	doc.WorkflowStage = models.WorkflowStagePublished
	doc.AuthorID = s.opts.AuthorID
	doc.Structure.Bind(data)

	opts := document.PersistOptions{
		ParentPath: path.Dir(s.opts.ContentsPath),
		NodeName:   path.Base(s.opts.ContentsPath),
	}
	if err := s.docs.Persist(ctx, doc, locale, opts); err != nil {
		return nil, fmt.Errorf("homepage %s: %w", locale, err)
	}
	if r.current {
		doc.Structure.Bind(replaceCurrent(data, doc.ID.String()).(map[string]any))
		if err := s.docs.Persist(ctx, doc, locale, opts); err != nil {
			return nil, fmt.Errorf("homepage %s: %w", locale, err)
		}
	}
	if err := s.publish(ctx, doc, locale); err != nil {
		return nil, fmt.Errorf("homepage %s: %w", locale, err)
	}
	return doc, nil
}

// Flush commits the unit of work, then registers the default snippets
// loaded since the last flush.
func (s *Seeder) Flush(ctx context.Context) error {
	if err := s.docs.Flush(ctx); err != nil {
		return err
	}
	pending := s.pending
	s.pending = nil
	for _, reg := range pending {
		if err := s.snippets.Save(ctx, s.opts.Webspace, reg.snippetType, reg.id, reg.locale); err != nil {
			return fmt.Errorf("register default snippet %s: %w", reg.snippetType, err)
		}
		slog.Debug("default snippet registered", "type", reg.snippetType, "id", reg.id, "locale", reg.locale)
	}
	return nil
}

// UpdateReferences merges u.Data into the existing document at u.Path in
// each locale and republishes it. It returns the number of variants
// published.
func (s *Seeder) UpdateReferences(ctx context.Context, u Update) (int, error) {
	target := s.absPath(u.Path)
	locales := u.Locales
	if len(locales) == 0 {
		locales = []string{s.opts.DefaultLocale}
	}

	for i, locale := range locales {
		doc, err := s.docs.Find(ctx, target, locale)
		if err != nil {
			return i, fmt.Errorf("update %s: %w", target, err)
		}
		if doc == nil || !doc.LocaleExists {
			return i, fmt.Errorf("update %s: %w in locale %s", target, ErrDocumentNotFound, locale)
		}

		r := &resolver{s: s, locale: locale}
		data, err := r.resolveMap(ctx, u.Data)
		if err != nil {
			return i, fmt.Errorf("update %s: %w", target, err)
		}
		doc.Structure.Bind(replaceCurrent(data, doc.ID.String()).(map[string]any))

		if err := s.docs.Persist(ctx, doc, locale, document.PersistOptions{}); err != nil {
			return i, fmt.Errorf("update %s: %w", target, err)
		}
		if err := s.publish(ctx, doc, locale); err != nil {
			return i, fmt.Errorf("update %s: %w", target, err)
		}
		slog.Debug("references updated", "path", target, "locale", locale)
	}
	return len(locales), nil
}

// findOrCreate loads the document with the given identity, or creates a new
// one of kind when id is empty or unknown.
func (s *Seeder) findOrCreate(ctx context.Context, id, locale string, kind models.DocumentKind) (*models.Document, error) {
	if id == "" {
		return s.docs.Create(kind), nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	doc, err := s.docs.Find(ctx, id, locale)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		slog.Debug("document not found, creating", "id", id, "locale", locale)
		return s.docs.Create(kind), nil
	}
	if doc.Kind != kind {
		return nil, fmt.Errorf("document %s is a %s, not a %s", id, doc.Kind, kind)
	}
	return doc, nil
}

// persistAndPublish persists doc, rebinds the payload once the identity is
// known if it refers to the document itself, and publishes.
func (s *Seeder) persistAndPublish(ctx context.Context, doc *models.Document, locale, parent string, data map[string]any, current bool) error {
	opts := document.PersistOptions{ParentPath: parent}
	if err := s.docs.Persist(ctx, doc, locale, opts); err != nil {
		return err
	}
	if current {
		doc.Structure.Bind(replaceCurrent(data, doc.ID.String()).(map[string]any))
		if err := s.docs.Persist(ctx, doc, locale, opts); err != nil {
			return err
		}
	}
	return s.publish(ctx, doc, locale)
}

func (s *Seeder) publish(ctx context.Context, doc *models.Document, locale string) error {
	if err := s.docs.Publish(ctx, doc, locale); err != nil {
		return err
	}
	if s.pages != nil && doc.ResourceSegment != "" {
		s.pages.InvalidatePage(ctx, locale, doc.ResourceSegment)
	}
	slog.Debug("published", "kind", doc.Kind, "title", doc.Title, "locale", locale, "url", doc.ResourceSegment)
	return nil
}

func (s *Seeder) locale(l string) string {
	if l == "" {
		return s.opts.DefaultLocale
	}
	return l
}

// absPath turns a node path relative to the contents root into an absolute
// one. Empty means the contents root itself.
func (s *Seeder) absPath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return path.Join(s.opts.ContentsPath, p)
}

// pageURL returns the record url, deriving it from the title and parent
// when omitted.
func (s *Seeder) pageURL(rec Record) string {
	if rec.URL != "" {
		return rec.URL
	}
	url := slug.Cleanup("/" + rec.Title)
	if rec.ParentPath != "" {
		url = strings.TrimPrefix(s.absPath(rec.ParentPath), s.opts.ContentsPath) + url
	}
	return url
}

func extension(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
