// Package metadata holds hand-authored facts about each component that the
// generated reference files do not carry: category, required and optional
// parts, keyboard behaviour and ARIA attributes.
//
// A Table is immutable once built. The catalog builder receives one at
// construction, so tests can inject fixture tables.
package metadata

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Category groups components in listings.
type Category string

const (
	CategoryLayout     Category = "layout"
	CategoryForm       Category = "form"
	CategoryOverlay    Category = "overlay"
	CategoryNavigation Category = "navigation"
	CategoryFeedback   Category = "feedback"
	CategoryUtility    Category = "utility"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryLayout, CategoryForm, CategoryOverlay,
		CategoryNavigation, CategoryFeedback, CategoryUtility,
	}
}

// ValidCategory reports whether s names a category.
func ValidCategory(s string) bool {
	return slices.Contains(Categories(), Category(s))
}

// Metadata is the hand-authored entry for one component.
type Metadata struct {
	Category           Category `yaml:"category" json:"category"`
	DocumentationURL   string   `yaml:"documentationUrl,omitempty" json:"documentationUrl,omitempty"`
	RequiredParts      []string `yaml:"requiredParts" json:"requiredParts"`
	OptionalParts      []string `yaml:"optionalParts" json:"optionalParts"`
	KeyboardNavigation []string `yaml:"keyboardNavigation" json:"keyboardNavigation"`
	AriaAttributes     []string `yaml:"ariaAttributes" json:"ariaAttributes"`
}

func (m Metadata) clone() Metadata {
	m.RequiredParts = cloneList(m.RequiredParts)
	m.OptionalParts = cloneList(m.OptionalParts)
	m.KeyboardNavigation = cloneList(m.KeyboardNavigation)
	m.AriaAttributes = cloneList(m.AriaAttributes)
	return m
}

// cloneList copies s and turns nil into an empty list.
func cloneList(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Fallback is the entry used for components absent from the table.
func Fallback() Metadata {
	return Metadata{Category: CategoryUtility}.clone()
}

// Table maps component names to their metadata.
type Table struct {
	entries map[string]Metadata
}

// New builds a table from entries. The map is copied.
func New(entries map[string]Metadata) *Table {
	t := &Table{entries: make(map[string]Metadata, len(entries))}
	for name, m := range entries {
		t.entries[name] = m.clone()
	}
	return t
}

// Lookup returns a copy of the entry for name.
func (t *Table) Lookup(name string) (Metadata, bool) {
	m, ok := t.entries[name]
	if !ok {
		return Metadata{}, false
	}
	return m.clone(), true
}

// Get returns the entry for name or Fallback().
func (t *Table) Get(name string) Metadata {
	if m, ok := t.Lookup(name); ok {
		return m
	}
	return Fallback()
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Merge returns a new table where entries of other replace those of t.
func (t *Table) Merge(other *Table) *Table {
	merged := New(t.entries)
	for name, m := range other.entries {
		merged.entries[name] = m.clone()
	}
	return merged
}

// Parse decodes a YAML document mapping component names to entries.
// Every invalid entry is reported.
func Parse(data []byte) (*Table, error) {
	var raw map[string]Metadata
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("metadata: decode: %w", err)
	}

	var errs []error
	for _, name := range sortedKeys(raw) {
		if !ValidCategory(string(raw[name].Category)) {
			errs = append(errs, fmt.Errorf("metadata: %s: invalid category %q", name, raw[name].Category))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return New(raw), nil
}

func sortedKeys(m map[string]Metadata) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//go:embed metadata.yaml
var builtin []byte

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("metadata: embedded table is invalid: %v", err))
	}
	return t
})

// Default returns the built-in table.
func Default() *Table {
	return defaultTable()
}

// Load returns the built-in table overlaid with the entries of the YAML file
// at path. An empty path returns Default().
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: read override: %w", err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Default().Merge(override), nil
}
