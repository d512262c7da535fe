// Package reference reads the generated component reference directory.
//
// The directory holds one JSON file per component part, named
// <kebab-component>-<kebab-part>.json. The package discovers component names,
// loads the raw part files of one component, and decodes a part file into a
// typed document with documented defaults.
package reference

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// knownParts lists the kebab-case part suffixes recognised in file names.
var knownParts = []string{
	"root", "trigger", "panel", "item", "header", "popup", "backdrop", "portal",
	"positioner", "title", "description", "close", "arrow", "value", "icon",
	"indicator", "thumb", "track", "control", "input", "list", "tab", "label",
	"error", "validity", "legend", "group", "group-label", "item-indicator",
	"item-text", "scroll-up-arrow", "scroll-down-arrow", "checkbox-item",
	"checkbox-item-indicator", "radio-group", "radio-item", "radio-item-indicator",
	"submenu-trigger", "provider", "viewport", "scrollbar", "corner", "increment",
	"decrement", "scrub-area", "scrub-area-cursor",
}

// partsByLength is knownParts ordered longest first so that
// "menu-group-label.json" resolves to GroupLabel rather than Label.
var partsByLength = func() []string {
	parts := append([]string(nil), knownParts...)
	sort.SliceStable(parts, func(i, j int) bool { return len(parts[i]) > len(parts[j]) })
	return parts
}()

// ParseFileName splits a reference file name into its PascalCase component
// and part names. Names without a known part suffix, or with characters
// outside [a-z-] in the component segment, are rejected.
func ParseFileName(name string) (component, part string, ok bool) {
	name = filepath.Base(name)
	base, found := strings.CutSuffix(name, ".json")
	if !found {
		return "", "", false
	}

	for _, suffix := range partsByLength {
		prefix, found := strings.CutSuffix(base, "-"+suffix)
		if !found || !validKebab(prefix) {
			continue
		}
		return PascalCase(prefix), PascalCase(suffix), true
	}
	return "", "", false
}

func validKebab(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '-' && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// PascalCase converts "alert-dialog" to "AlertDialog".
func PascalCase(kebab string) string {
	// cases.Caser keeps state and is not safe for concurrent use.
	title := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, seg := range strings.Split(kebab, "-") {
		b.WriteString(title.String(seg))
	}
	return b.String()
}

// KebabCase converts "AlertDialog" to "alert-dialog".
func KebabCase(pascal string) string {
	var b strings.Builder
	for i, r := range pascal {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
