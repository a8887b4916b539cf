// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"demoseed/internal/models"
)

// Media is an in-memory media catalog.
type Media struct {
	mu       sync.Mutex
	nextID   int64
	versions []models.MediaFileVersion
	owners   map[int64]int64 // file version ID -> media ID
}

// NewMedia returns a catalog pre-filled with one media item per name.
func NewMedia(names ...string) *Media {
	m := &Media{owners: make(map[int64]int64)}
	for _, name := range names {
		m.Add(name)
	}
	return m
}

// Add registers a new media item with a single file version called name and
// returns the media ID. Adding the same name twice creates a duplicate.
func (m *Media) Add(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	mediaID := m.nextID
	m.nextID++
	v := models.MediaFileVersion{ID: m.nextID, Name: name, Version: 1}
	m.versions = append(m.versions, v)
	m.owners[v.ID] = mediaID
	return mediaID
}

// FindIDByName returns the ID of the only media item with a file version
// named name. ok is false if there is none.
func (m *Media) FindIDByName(_ context.Context, name string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for _, v := range m.versions {
		if v.Name == name {
			ids = append(ids, m.owners[v.ID])
		}
	}
	switch len(ids) {
	case 0:
		return 0, false, nil
	case 1:
		return ids[0], true, nil
	default:
		return 0, false, fmt.Errorf("too many images with the name %q found: %w", name, models.ErrTooManyMedia)
	}
}

// Create registers a media item holding a single file version.
func (m *Media) Create(_ context.Context, collection string, v *models.MediaFileVersion) (*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.nextID++
	media := &models.Media{ID: m.nextID, Collection: collection, CreatedAt: now}
	m.nextID++
	file := models.MediaFile{ID: m.nextID, MediaID: media.ID, Version: v.Version}
	m.nextID++
	stored := *v
	stored.ID = m.nextID
	stored.FileID = file.ID
	stored.CreatedAt = now
	m.versions = append(m.versions, stored)
	m.owners[stored.ID] = media.ID

	file.Versions = []models.MediaFileVersion{stored}
	media.Files = []models.MediaFile{file}
	return media, nil
}
