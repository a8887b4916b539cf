// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"demoseed/internal/models"
)

// Snippets is an in-memory default snippet registry.
type Snippets struct {
	mu       sync.Mutex
	settings models.SiteSettings
}

// NewSnippets returns an empty registry.
func NewSnippets() *Snippets {
	return &Snippets{settings: make(models.SiteSettings)}
}

// Save registers id as the default snippet of snippetType for the webspace
// and locale.
func (s *Snippets) Save(_ context.Context, webspace, snippetType string, id uuid.UUID, locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[models.DefaultSnippetKey(webspace, snippetType, locale)] = id.String()
	return nil
}

// Get returns the registered default snippet, or uuid.Nil.
func (s *Snippets) Get(webspace, snippetType, locale string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.Parse(s.settings.Get(models.DefaultSnippetKey(webspace, snippetType, locale), ""))
	if err != nil {
		return uuid.Nil
	}
	return id
}
