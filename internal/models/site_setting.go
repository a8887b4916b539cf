// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// DefaultSnippetKey returns the site setting key under which the default
// snippet of a type is registered for a webspace and locale.
func DefaultSnippetKey(webspace, snippetType, locale string) string {
	return "snippets." + webspace + "." + snippetType + "." + locale
}
