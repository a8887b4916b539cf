// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"demoseed/internal/models"
)

// SiteSettingStore manages site configuration in the database.
type SiteSettingStore struct {
	db *sql.DB
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// Get returns a single setting by key, or the fallback if not found.
func (s *SiteSettingStore) Get(ctx context.Context, key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE key = $1`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	if val == "" {
		return fallback, nil
	}
	return val, nil
}

// Set upserts a single setting. Creates it if it doesn't exist.
func (s *SiteSettingStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// DefaultSnippetStore registers default snippets per webspace, type and
// locale as site settings.
type DefaultSnippetStore struct {
	settings *SiteSettingStore
}

// NewDefaultSnippetStore returns a registry writing through settings.
func NewDefaultSnippetStore(settings *SiteSettingStore) *DefaultSnippetStore {
	return &DefaultSnippetStore{settings: settings}
}

// Save registers id as the default snippet of snippetType.
func (s *DefaultSnippetStore) Save(ctx context.Context, webspace, snippetType string, id uuid.UUID, locale string) error {
	return s.settings.Set(ctx, models.DefaultSnippetKey(webspace, snippetType, locale), id.String())
}

// Get returns the registered default snippet, or uuid.Nil if none is set.
func (s *DefaultSnippetStore) Get(ctx context.Context, webspace, snippetType, locale string) (uuid.UUID, error) {
	val, err := s.settings.Get(ctx, models.DefaultSnippetKey(webspace, snippetType, locale), "")
	if err != nil || val == "" {
		return uuid.Nil, err
	}
	return uuid.Parse(val)
}
