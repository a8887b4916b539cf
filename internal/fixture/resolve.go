// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixture

import (
	"context"
	"fmt"

	"demoseed/internal/markdown"
)

// CurrentDocument stands for the identity of the document being seeded. It
// is replaced after the document's first persist.
const CurrentDocument = "__CURRENT__"

// resolver expands references in record payloads for one locale.
type resolver struct {
	s      *Seeder
	locale string
	// current is set when the payload contains CurrentDocument.
	current bool
}

// resolve returns a deep copy of v with references expanded:
//
//	{document: <path>}  identity of the document at path
//	{media: <name>}     {id: <media id>} or {id: null} when unknown
//	{markdown: <text>}  rendered HTML
func (r *resolver) resolve(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 1 {
			for key, arg := range t {
				name, ok := arg.(string)
				if !ok {
					break
				}
				switch key {
				case "document":
					return r.document(ctx, name)
				case "media":
					return r.media(ctx, name)
				case "markdown":
					html, err := markdown.ToHTML(name)
					if err != nil {
						return nil, fmt.Errorf("render markdown: %w", err)
					}
					return html, nil
				}
			}
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			rv, err := r.resolve(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = rv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			rv, err := r.resolve(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = rv
		}
		return out, nil
	case string:
		if t == CurrentDocument {
			r.current = true
		}
		return t, nil
	default:
		return v, nil
	}
}

// resolveMap resolves every value of a payload map.
func (r *resolver) resolveMap(ctx context.Context, m map[string]any) (map[string]any, error) {
	if m == nil {
		return map[string]any{}, nil
	}
	v, err := r.resolve(ctx, m)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

func (r *resolver) document(ctx context.Context, p string) (string, error) {
	abs := r.s.absPath(p)
	doc, err := r.s.docs.Find(ctx, abs, r.locale)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, abs)
	}
	return doc.ID.String(), nil
}

func (r *resolver) media(ctx context.Context, name string) (map[string]any, error) {
	id, ok, err := r.s.media.FindIDByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]any{"id": nil}, nil
	}
	return map[string]any{"id": id}, nil
}

// replaceCurrent returns a copy of v with every CurrentDocument string
// replaced by id.
func replaceCurrent(v any, id string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = replaceCurrent(e, id)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = replaceCurrent(e, id)
		}
		return out
	case string:
		if t == CurrentDocument {
			return id
		}
		return t
	default:
		return v
	}
}
