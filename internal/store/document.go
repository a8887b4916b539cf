// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"demoseed/internal/models"
)

var errNoTx = errors.New("no open transaction")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DocumentStore handles document persistence in PostgreSQL. Nodes live in
// the documents table, locale variants in document_locales. Writes must
// happen inside Begin/Commit; reads use the open transaction if any.
type DocumentStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewDocumentStore creates a new DocumentStore with the given database connection.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// nodeColumns lists the columns selected from documents.
const nodeColumns = `id, kind, path, parent_path, created_at`

// localeColumns lists the columns selected from document_locales.
const localeColumns = `title, resource_segment, structure_type, structure,
	extensions, navigation_contexts, redirect_type, redirect_external,
	workflow_stage, author_id, published_at, updated_at`

// FindByID retrieves a document by its UUID in the given locale. Returns nil
// if not found.
func (s *DocumentStore) FindByID(ctx context.Context, id uuid.UUID, locale string) (*models.Document, error) {
	row := s.q().QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM documents WHERE id = $1`, id)
	return s.load(ctx, row, locale)
}

// FindByPath retrieves the document at a node path in the given locale.
// Returns nil if not found.
func (s *DocumentStore) FindByPath(ctx context.Context, path, locale string) (*models.Document, error) {
	row := s.q().QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM documents WHERE path = $1`, path)
	return s.load(ctx, row, locale)
}

func (s *DocumentStore) load(ctx context.Context, row *sql.Row, locale string) (*models.Document, error) {
	d := &models.Document{
		Locale:        locale,
		RedirectType:  models.RedirectTypeNone,
		WorkflowStage: models.WorkflowStageTest,
	}
	err := row.Scan(&d.ID, &d.Kind, &d.Path, &d.ParentPath, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}

	var structure, extensions, navigation []byte
	err = s.q().QueryRowContext(ctx, `
		SELECT `+localeColumns+`
		FROM document_locales
		WHERE document_id = $1 AND locale = $2
	`, d.ID, locale).Scan(
		&d.Title, &d.ResourceSegment, &d.StructureType, &structure,
		&extensions, &navigation, &d.RedirectType, &d.RedirectExternal,
		&d.WorkflowStage, &d.AuthorID, &d.PublishedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// The node exists but has never been saved in this locale.
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document locale: %w", err)
	}

	if err := json.Unmarshal(structure, &d.Structure); err != nil {
		return nil, fmt.Errorf("decode structure: %w", err)
	}
	if err := json.Unmarshal(extensions, &d.Extensions); err != nil {
		return nil, fmt.Errorf("decode extensions: %w", err)
	}
	if err := json.Unmarshal(navigation, &d.NavigationContexts); err != nil {
		return nil, fmt.Errorf("decode navigation contexts: %w", err)
	}
	d.LocaleExists = true
	return d, nil
}

// PathExists reports whether any document lives at the node path.
func (s *DocumentStore) PathExists(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := s.q().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE path = $1)`, path,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check document path: %w", err)
	}
	return exists, nil
}

// ResourceSegmentOwner returns the ID of the document that uses the url in
// the locale, or uuid.Nil if it is free.
func (s *DocumentStore) ResourceSegmentOwner(ctx context.Context, locale, segment string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.q().QueryRowContext(ctx, `
		SELECT document_id FROM document_locales
		WHERE locale = $1 AND resource_segment = $2
	`, locale, segment).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("find resource segment owner: %w", err)
	}
	return id, nil
}

// Save upserts the document node and its locale variant.
func (s *DocumentStore) Save(ctx context.Context, d *models.Document) error {
	if s.tx == nil {
		return errNoTx
	}

	structure, err := json.Marshal(d.Structure.ToMap())
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	extensions := d.Extensions
	if extensions == nil {
		extensions = map[string]any{}
	}
	ext, err := json.Marshal(extensions)
	if err != nil {
		return fmt.Errorf("encode extensions: %w", err)
	}
	navigation := d.NavigationContexts
	if navigation == nil {
		navigation = []string{}
	}
	nav, err := json.Marshal(navigation)
	if err != nil {
		return fmt.Errorf("encode navigation contexts: %w", err)
	}

	_, err = s.tx.ExecContext(ctx, `
		INSERT INTO documents (id, kind, path, parent_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`, d.ID, d.Kind, d.Path, d.ParentPath, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	_, err = s.tx.ExecContext(ctx, `
		INSERT INTO document_locales (
			document_id, locale, title, resource_segment, structure_type,
			structure, extensions, navigation_contexts, redirect_type,
			redirect_external, workflow_stage, author_id, published_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (document_id, locale) DO UPDATE SET
			title = EXCLUDED.title,
			resource_segment = EXCLUDED.resource_segment,
			structure_type = EXCLUDED.structure_type,
			structure = EXCLUDED.structure,
			extensions = EXCLUDED.extensions,
			navigation_contexts = EXCLUDED.navigation_contexts,
			redirect_type = EXCLUDED.redirect_type,
			redirect_external = EXCLUDED.redirect_external,
			workflow_stage = EXCLUDED.workflow_stage,
			author_id = EXCLUDED.author_id,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at
	`, d.ID, d.Locale, d.Title, d.ResourceSegment, d.StructureType,
		string(structure), string(ext), string(nav), d.RedirectType,
		d.RedirectExternal, d.WorkflowStage, d.AuthorID, d.PublishedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save document locale: %w", err)
	}
	return nil
}

// Begin opens the transaction that all following writes use.
func (s *DocumentStore) Begin(ctx context.Context) error {
	if s.tx != nil {
		return errors.New("transaction already open")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	s.tx = tx
	return nil
}

// Commit commits the open transaction.
func (s *DocumentStore) Commit(_ context.Context) error {
	if s.tx == nil {
		return errNoTx
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the open transaction, if any.
func (s *DocumentStore) Rollback(_ context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Count returns the number of documents of the given kind.
func (s *DocumentStore) Count(ctx context.Context, kind models.DocumentKind) (int, error) {
	var count int
	err := s.q().QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE kind = $1`, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}
