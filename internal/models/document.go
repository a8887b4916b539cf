// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentKind distinguishes pages, snippets and the webspace homepage in the
// unified documents table.
type DocumentKind string

const (
	DocumentKindPage    DocumentKind = "page"
	DocumentKindSnippet DocumentKind = "snippet"
	DocumentKindHome    DocumentKind = "home"
)

// WorkflowStage represents the publishing state of one locale variant.
type WorkflowStage string

const (
	WorkflowStageTest      WorkflowStage = "test"
	WorkflowStagePublished WorkflowStage = "published"
)

// RedirectType marks a page as a plain page or a redirect.
type RedirectType string

const (
	RedirectTypeNone     RedirectType = "none"
	RedirectTypeExternal RedirectType = "external"
)

// Document is one logical content item loaded in a single locale. The ID and
// Path belong to the node and are shared by all locales; every other field
// belongs to the locale variant named by Locale.
type Document struct {
	ID         uuid.UUID    `json:"id"`
	Kind       DocumentKind `json:"kind"`
	Path       string       `json:"path"`
	ParentPath string       `json:"parent_path"`

	Locale             string         `json:"locale"`
	LocaleExists       bool           `json:"-"`
	Title              string         `json:"title"`
	ResourceSegment    string         `json:"resource_segment"`
	StructureType      string         `json:"structure_type"`
	Structure          Structure      `json:"structure"`
	Extensions         map[string]any `json:"extensions,omitempty"`
	NavigationContexts []string       `json:"navigation_contexts,omitempty"`
	RedirectType       RedirectType   `json:"redirect_type"`
	RedirectExternal   string         `json:"redirect_external,omitempty"`
	WorkflowStage      WorkflowStage  `json:"workflow_stage"`
	AuthorID           *uuid.UUID     `json:"author_id,omitempty"`
	PublishedAt        *time.Time     `json:"published_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// IsNew reports whether the document has never been persisted.
func (d *Document) IsNew() bool {
	return d.ID == uuid.Nil
}

// IsPublished returns true if the loaded locale variant is published.
func (d *Document) IsPublished() bool {
	return d.WorkflowStage == WorkflowStagePublished && d.PublishedAt != nil
}

// Clone returns a deep copy so callers can hand documents across a unit of
// work boundary without sharing payload maps.
func (d *Document) Clone() *Document {
	c := *d
	c.Structure = d.Structure.Clone()
	if d.Extensions != nil {
		c.Extensions = cloneMap(d.Extensions)
	}
	if d.NavigationContexts != nil {
		c.NavigationContexts = append([]string(nil), d.NavigationContexts...)
	}
	if d.AuthorID != nil {
		id := *d.AuthorID
		c.AuthorID = &id
	}
	if d.PublishedAt != nil {
		at := *d.PublishedAt
		c.PublishedAt = &at
	}
	return &c
}

// DocumentPublication is a snapshot of a locale variant taken when it is
// published.
type DocumentPublication struct {
	ID              uuid.UUID `json:"id"`
	DocumentID      uuid.UUID `json:"document_id"`
	Locale          string    `json:"locale"`
	Title           string    `json:"title"`
	ResourceSegment string    `json:"resource_segment"`
	StructureType   string    `json:"structure_type"`
	Structure       Structure `json:"structure"`
	PublishedAt     time.Time `json:"published_at"`
}
