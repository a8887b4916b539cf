// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrStructureNotFound is returned when a document names a structure type
	// that is not registered for its kind.
	ErrStructureNotFound = errors.New("structure type not found")
	// ErrMissingProperty is returned when a required structure property is
	// absent or empty.
	ErrMissingProperty = errors.New("missing required property")
)

// Structure is the template-bound payload of a document locale. Values are
// whatever the fixture data carries: strings, numbers, nested maps and lists.
type Structure map[string]any

// Bind merges data into the structure. Top-level keys in data replace the
// existing values.
func (s *Structure) Bind(data map[string]any) {
	if *s == nil {
		*s = make(Structure, len(data))
	}
	for k, v := range data {
		(*s)[k] = cloneValue(v)
	}
}

// ToMap returns a deep copy of the structure as a plain map.
func (s Structure) ToMap() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return cloneMap(s)
}

// Clone returns a deep copy of the structure.
func (s Structure) Clone() Structure {
	if s == nil {
		return nil
	}
	return Structure(cloneMap(s))
}

// String returns a top-level string property, or "" if absent.
func (s Structure) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// StructureDef describes one structure type a document kind may use.
type StructureDef struct {
	Kind     DocumentKind
	Name     string
	Required []string
}

// Structures is the registry of known structure types.
var Structures = []StructureDef{
	{Kind: DocumentKindPage, Name: "default", Required: []string{"title", "url"}},
	{Kind: DocumentKindPage, Name: "overview", Required: []string{"title", "url"}},
	{Kind: DocumentKindHome, Name: "homepage", Required: []string{"title", "url"}},
	{Kind: DocumentKindSnippet, Name: "contact", Required: []string{"title"}},
}

// LookupStructure finds the structure definition for a kind and type name.
func LookupStructure(kind DocumentKind, name string) (StructureDef, error) {
	for _, def := range Structures {
		if def.Kind == kind && def.Name == name {
			return def, nil
		}
	}
	return StructureDef{}, fmt.Errorf("%w: %s %q", ErrStructureNotFound, kind, name)
}

// ValidateStructure checks the document's structure type and its required
// properties.
func ValidateStructure(d *Document) error {
	def, err := LookupStructure(d.Kind, d.StructureType)
	if err != nil {
		return err
	}
	for _, prop := range def.Required {
		v, ok := d.Structure[prop]
		if !ok || isEmpty(v) {
			return fmt.Errorf("%w: %s.%s", ErrMissingProperty, def.Name, prop)
		}
	}
	return nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Slice:
		return rv.Len() == 0
	}
	return false
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Structure:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
