// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Media is an asset in the media catalog. Pages reference it by its numeric
// ID; fixtures find it by the name of one of its file versions.
type Media struct {
	ID         int64       `json:"id"`
	Collection string      `json:"collection"`
	Files      []MediaFile `json:"files,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// MediaFile groups the versions of one uploaded file.
type MediaFile struct {
	ID       int64              `json:"id"`
	MediaID  int64              `json:"media_id"`
	Version  int                `json:"version"`
	Versions []MediaFileVersion `json:"versions,omitempty"`
}

// MediaFileVersion is a single stored object in S3-compatible storage.
type MediaFileVersion struct {
	ID          int64     `json:"id"`
	FileID      int64     `json:"file_id"`
	Name        string    `json:"name"`
	Version     int       `json:"version"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Bucket      string    `json:"bucket"`
	S3Key       string    `json:"s3_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsImage returns true if the file version is an image type.
func (v *MediaFileVersion) IsImage() bool {
	return strings.HasPrefix(v.ContentType, "image/")
}

// HumanSize returns a human-readable file size string.
func (v *MediaFileVersion) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case v.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(v.SizeBytes)/float64(mb))
	case v.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(v.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", v.SizeBytes)
	}
}

// ErrTooManyMedia is returned when an exact-name media lookup matches more
// than one file version.
var ErrTooManyMedia = errors.New("ambiguous media name")
