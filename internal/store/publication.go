// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"demoseed/internal/models"
)

// publicationColumns lists all columns for document_publications SELECTs.
const publicationColumns = `id, document_id, locale, title, resource_segment,
	structure_type, structure, published_at`

// scanPublication scans a single document_publications row.
func scanPublication(scanner interface{ Scan(...any) error }) (*models.DocumentPublication, error) {
	var p models.DocumentPublication
	var structure []byte
	err := scanner.Scan(
		&p.ID, &p.DocumentID, &p.Locale, &p.Title, &p.ResourceSegment,
		&p.StructureType, &structure, &p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(structure, &p.Structure); err != nil {
		return nil, fmt.Errorf("decode structure: %w", err)
	}
	return &p, nil
}

// Publish records a publication snapshot inside the open transaction.
func (s *DocumentStore) Publish(ctx context.Context, pub *models.DocumentPublication) error {
	if s.tx == nil {
		return errNoTx
	}
	structure, err := json.Marshal(pub.Structure.ToMap())
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	row := s.tx.QueryRowContext(ctx, `
		INSERT INTO document_publications (
			document_id, locale, title, resource_segment, structure_type,
			structure, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+publicationColumns,
		pub.DocumentID, pub.Locale, pub.Title, pub.ResourceSegment,
		pub.StructureType, string(structure), pub.PublishedAt,
	)
	created, err := scanPublication(row)
	if err != nil {
		return fmt.Errorf("create publication: %w", err)
	}
	pub.ID = created.ID
	return nil
}

// ListPublications returns all publication snapshots of a document locale,
// newest first.
func (s *DocumentStore) ListPublications(ctx context.Context, documentID uuid.UUID, locale string) ([]*models.DocumentPublication, error) {
	rows, err := s.q().QueryContext(ctx, `
		SELECT `+publicationColumns+`
		FROM document_publications
		WHERE document_id = $1 AND locale = $2
		ORDER BY published_at DESC
	`, documentID, locale)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var pubs []*models.DocumentPublication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}
