package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/anchor-ui/mcp-server/pkg/metadata"
)

// ComponentInfo is the normalized record of one component.
// Values returned by a Source are shared and must not be mutated.
type ComponentInfo struct {
	Name             string            `json:"name"`
	DisplayName      string            `json:"displayName"`
	Description      string            `json:"description"`
	Category         metadata.Category `json:"category"`
	Parts            []ComponentPart   `json:"parts"`
	DocumentationURL string            `json:"documentationUrl"`
	Accessibility    AccessibilityInfo `json:"accessibility"`
	Composition      CompositionInfo   `json:"composition"`
}

// Part returns the part called name.
func (c ComponentInfo) Part(name string) (ComponentPart, bool) {
	for _, p := range c.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return ComponentPart{}, false
}

// PartNames returns the part names in catalog order.
func (c ComponentInfo) PartNames() []string {
	names := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		names[i] = p.Name
	}
	return names
}

// ComponentPart is one reference file of a component.
type ComponentPart struct {
	Name           string            `json:"name"`
	DisplayName    string            `json:"displayName"`
	Description    string            `json:"description"`
	ElementType    string            `json:"elementType"`
	Props          []PropInfo        `json:"props"`
	Required       bool              `json:"required"`
	DataAttributes map[string]string `json:"dataAttributes"`
	CSSVariables   map[string]string `json:"cssVariables"`
}

// PropInfo describes one prop of a part.
type PropInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	// Default is nil when the prop has no default. An explicit null default
	// is held as NullDefault so it survives encoding.
	Default any `json:"default,omitempty"`
}

// NullDefault is the Default of a prop documented with "default": null.
var NullDefault = json.RawMessage("null")

// UnmarshalJSON restores NullDefault for "default": null.
func (p *PropInfo) UnmarshalJSON(data []byte) error {
	type plain PropInfo
	var aux struct {
		plain
		Default json.RawMessage `json:"default"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = PropInfo(aux.plain)
	switch {
	case aux.Default == nil:
	case bytes.Equal(bytes.TrimSpace(aux.Default), NullDefault):
		p.Default = NullDefault
	default:
		if err := json.Unmarshal(aux.Default, &p.Default); err != nil {
			return err
		}
	}
	return nil
}

// AccessibilityInfo merges metadata lists with per-component requirements.
type AccessibilityInfo struct {
	AriaAttributes      []string `json:"ariaAttributes"`
	KeyboardNavigation  []string `json:"keyboardNavigation"`
	ScreenReaderSupport []string `json:"screenReaderSupport"`
	Requirements        []string `json:"requirements"`
	Warnings            []string `json:"warnings"`
}

// CompositionInfo describes how parts fit together.
type CompositionInfo struct {
	RequiredParts []string       `json:"requiredParts"`
	OptionalParts []string       `json:"optionalParts"`
	Examples      []UsageExample `json:"examples"`
	Donts         []string       `json:"donts"`
}

// Variant classifies a usage example.
type Variant string

const (
	VariantBasic       Variant = "basic"
	VariantControlled  Variant = "controlled"
	VariantCustom      Variant = "custom"
	VariantComposition Variant = "composition"
)

// Variants returns every example variant.
func Variants() []Variant {
	return []Variant{VariantBasic, VariantControlled, VariantCustom, VariantComposition}
}

// UsageExample is a generated documentation snippet. It is never executed.
type UsageExample struct {
	Title       string  `json:"title"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
	Language    string  `json:"language"`
}
