// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixture

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data
var dataFS embed.FS

// Default returns the built-in demo fixtures.
func Default() (*Set, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads a fixture set from fsys. It expects pages.yaml, snippets.yaml,
// homepage.yaml and updates.yaml at the root, and one translations/<locale>.yaml
// per localized page set. Missing files yield empty groups, except pages.yaml.
func Load(fsys fs.FS) (*Set, error) {
	set := &Set{}

	if err := decodeFile(fsys, "pages.yaml", &set.Pages, true); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, "snippets.yaml", &set.Snippets, false); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, "homepage.yaml", &set.Homepages, false); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, "updates.yaml", &set.Updates, false); err != nil {
		return nil, err
	}

	files, err := fs.Glob(fsys, "translations/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	sort.Strings(files)
	for _, name := range files {
		var records []Record
		if err := decodeFile(fsys, name, &records, true); err != nil {
			return nil, err
		}
		locale := strings.TrimSuffix(path.Base(name), ".yaml")
		for i := range records {
			if records[i].Locale == "" {
				records[i].Locale = locale
			}
		}
		set.Translations = append(set.Translations, records...)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func decodeFile(fsys fs.FS, name string, out any, required bool) error {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Validate checks the fields every record needs before anything is written.
func (s *Set) Validate() error {
	for i, r := range s.Pages {
		if r.Title == "" {
			return fmt.Errorf("pages[%d]: title required", i)
		}
		if r.Translates != "" {
			return fmt.Errorf("pages[%d] %q: base pages cannot translate", i, r.Title)
		}
	}
	for i, r := range s.Translations {
		if r.Title == "" {
			return fmt.Errorf("translations[%d]: title required", i)
		}
		if r.Translates == "" && r.ID == "" {
			return fmt.Errorf("translations[%d] %q: translates or id required", i, r.Title)
		}
	}
	for i, sn := range s.Snippets {
		if sn.Type == "" {
			return fmt.Errorf("snippets[%d]: type required", i)
		}
		if len(sn.Variants) == 0 {
			return fmt.Errorf("snippets[%d] %s: at least one variant required", i, sn.Type)
		}
	}
	for i, u := range s.Updates {
		if u.Path == "" {
			return fmt.Errorf("updates[%d]: path required", i)
		}
	}
	return nil
}
