// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"demoseed/internal/models"
)

// MediaStore handles the media catalog: media, their files, and the named
// file versions that point at objects in S3-compatible storage.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// versionColumns lists the columns selected in media_file_versions queries.
const versionColumns = `id, file_id, name, version, content_type, size_bytes,
	bucket, s3_key, created_at`

// scanVersion scans a file version row from the result set.
func scanVersion(scanner interface{ Scan(...any) error }) (*models.MediaFileVersion, error) {
	var v models.MediaFileVersion
	err := scanner.Scan(
		&v.ID, &v.FileID, &v.Name, &v.Version, &v.ContentType, &v.SizeBytes,
		&v.Bucket, &v.S3Key, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindIDByName returns the ID of the media item that has a file version
// with exactly this name. ok is false when there is none; more than one
// match is an error wrapping models.ErrTooManyMedia.
func (s *MediaStore) FindIDByName(ctx context.Context, name string) (int64, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT m.id
		FROM media m
		JOIN media_files f ON f.media_id = m.id
		JOIN media_file_versions v ON v.file_id = f.id
		WHERE v.name = $1
		LIMIT 2
	`, name)
	if err != nil {
		return 0, false, fmt.Errorf("find media by name: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, false, fmt.Errorf("scan media id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, false, fmt.Errorf("find media by name: %w", err)
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

// Create registers a media item with a single file holding one version and
// returns it with the generated IDs.
func (s *MediaStore) Create(ctx context.Context, collection string, v *models.MediaFileVersion) (*models.Media, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	defer tx.Rollback()

	m := &models.Media{Collection: collection}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO media (collection) VALUES ($1)
		RETURNING id, created_at
	`, collection).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}

	f := models.MediaFile{MediaID: m.ID, Version: v.Version}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO media_files (media_id, version) VALUES ($1, $2)
		RETURNING id
	`, f.MediaID, f.Version).Scan(&f.ID)
	if err != nil {
		return nil, fmt.Errorf("create media file: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO media_file_versions (file_id, name, version, content_type,
			size_bytes, bucket, s3_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+versionColumns,
		f.ID, v.Name, v.Version, v.ContentType, v.SizeBytes, v.Bucket, v.S3Key,
	)
	created, err := scanVersion(row)
	if err != nil {
		return nil, fmt.Errorf("create media file version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	f.Versions = []models.MediaFileVersion{*created}
	m.Files = []models.MediaFile{f}
	return m, nil
}

// ListVersions returns all file versions, ordered by name.
func (s *MediaStore) ListVersions(ctx context.Context) ([]models.MediaFileVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+`
		FROM media_file_versions
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list media versions: %w", err)
	}
	defer rows.Close()

	var items []models.MediaFileVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media version: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}
