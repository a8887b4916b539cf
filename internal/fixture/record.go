// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixture

// Record is one content item in one locale. Every key that is not a record
// field is collected in Data and bound to the document structure.
type Record struct {
	// ID is the identity of an existing item to update. Empty creates a new
	// item on every upsert.
	ID string `yaml:"id,omitempty"`
	// Translates is the url of a page seeded earlier in the same run whose
	// identity this record reuses.
	Translates string `yaml:"translates,omitempty"`

	Locale             string         `yaml:"locale,omitempty"`
	Title              string         `yaml:"title"`
	URL                string         `yaml:"url,omitempty"`
	ParentPath         string         `yaml:"parent_path,omitempty"`
	StructureType      string         `yaml:"structure_type,omitempty"`
	NavigationContexts []string       `yaml:"navigation_contexts,omitempty"`
	Redirect           string         `yaml:"redirect,omitempty"`
	SEO                map[string]any `yaml:"seo,omitempty"`
	Excerpt            map[string]any `yaml:"excerpt,omitempty"`

	Data map[string]any `yaml:",inline"`
}

// Snippet is a reusable content fragment with one record per locale. The
// first variant creates it; the others share its identity.
type Snippet struct {
	Type     string   `yaml:"type"`
	Default  bool     `yaml:"default"`
	Variants []Record `yaml:"variants"`
}

// Homepage is the payload of the webspace homepage in one locale.
type Homepage struct {
	Locale string         `yaml:"locale,omitempty"`
	Title  string         `yaml:"title,omitempty"`
	Data   map[string]any `yaml:",inline"`
}

// Update merges data into an existing document in each listed locale.
type Update struct {
	Path    string         `yaml:"path"`
	Locales []string       `yaml:"locales,omitempty"`
	Data    map[string]any `yaml:"data"`
}

// Set is a complete fixture run, in seeding order.
type Set struct {
	Pages        []Record
	Translations []Record
	Snippets     []Snippet
	Homepages    []Homepage
	Updates      []Update
}
