// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media imports the demo images into object storage and registers
// them in the media catalog, so fixture records can reference them by file
// name.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"demoseed/internal/models"
)

// maxFileSize caps a single imported file.
const maxFileSize = 50 << 20

// allowedTypes lists the content types accepted for import.
var allowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Uploader stores objects in the public bucket.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PublicBucket() string
}

// Catalog is the media catalog the importer registers files in.
type Catalog interface {
	FindIDByName(ctx context.Context, name string) (int64, bool, error)
	Create(ctx context.Context, collection string, v *models.MediaFileVersion) (*models.Media, error)
}

// errUnsupportedType marks a file whose sniffed type is not allowed.
var errUnsupportedType = errors.New("file type not allowed")

// Result summarizes an import. Skipped files are already in the catalog;
// rejected files are too large or of a type that is not allowed.
type Result struct {
	Imported int
	Skipped  int
	Rejected int
}

// Importer uploads files and registers them in the catalog.
type Importer struct {
	uploader   Uploader
	catalog    Catalog
	collection string
	maxSize    int64
}

// NewImporter creates an Importer that files media under collection.
func NewImporter(uploader Uploader, catalog Catalog, collection string) *Importer {
	return &Importer{uploader: uploader, catalog: catalog, collection: collection, maxSize: maxFileSize}
}

// Import walks the top level of fsys and imports every regular file whose
// name is not yet in the catalog. Objects are stored under media/<name>.
func (im *Importer) Import(ctx context.Context, fsys fs.FS) (Result, error) {
	var res Result

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return res, fmt.Errorf("read media dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		info, err := entry.Info()
		if err != nil {
			return res, fmt.Errorf("stat %s: %w", name, err)
		}
		if info.Size() > im.maxSize {
			slog.Warn("media file too large, skipped", "name", name, "size", info.Size(), "max", im.maxSize)
			res.Rejected++
			continue
		}

		_, exists, err := im.catalog.FindIDByName(ctx, name)
		if err != nil {
			return res, err
		}
		if exists {
			slog.Debug("media already imported", "name", name)
			res.Skipped++
			continue
		}

		err = im.importFile(ctx, fsys, name)
		if errors.Is(err, errUnsupportedType) {
			slog.Warn("media file type not allowed, skipped", "name", name, "error", err)
			res.Rejected++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("import %s: %w", name, err)
		}
		res.Imported++
	}
	return res, nil
}

func (im *Importer) importFile(ctx context.Context, fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if int64(len(data)) > im.maxSize {
		return fmt.Errorf("file too large (%d bytes)", len(data))
	}

	contentType := DetectContentType(name, data)
	if !allowedTypes[contentType] {
		return fmt.Errorf("%w: %q", errUnsupportedType, contentType)
	}

	key := path.Join("media", name)
	if err := im.uploader.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return err
	}

	version := &models.MediaFileVersion{
		Name:        name,
		Version:     1,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Bucket:      im.uploader.PublicBucket(),
		S3Key:       key,
	}
	if _, err := im.catalog.Create(ctx, im.collection, version); err != nil {
		if delErr := im.uploader.Delete(ctx, key); delErr != nil {
			slog.Warn("orphaned media object", "key", key, "error", delErr)
		}
		return err
	}

	slog.Info("media imported", "name", name, "type", contentType, "size", version.HumanSize())
	return nil
}

// DetectContentType sniffs the content type of a file. SVGs are recognized
// by extension since sniffing reports them as XML or text.
func DetectContentType(name string, data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(name), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		return "image/svg+xml"
	}
	return contentType
}
