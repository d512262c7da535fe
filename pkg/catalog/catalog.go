package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
)

// Validate checks the structural invariants of a built record.
// Returns a slice of violations (empty if valid).
func (c ComponentInfo) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("component name is required"))
	}
	if len(c.Parts) == 0 {
		errs = append(errs, fmt.Errorf("component %q: has no parts", c.Name))
	}

	seen := make(map[string]bool, len(c.Parts))
	for i, p := range c.Parts {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("component %q parts[%d]: name is required", c.Name, i))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("component %q: duplicate part %q", c.Name, p.Name))
			continue
		}
		seen[p.Name] = true

		if p.Name == "Root" && i != 0 {
			errs = append(errs, fmt.Errorf("component %q: Root part at index %d, want 0", c.Name, i))
		}
		if i > 0 && c.Parts[i-1].Name != "Root" && p.Name != "Root" && c.Parts[i-1].Name > p.Name {
			errs = append(errs, fmt.Errorf("component %q: parts not sorted at %q", c.Name, p.Name))
		}
	}

	names := c.PartNames()
	for _, r := range c.Composition.RequiredParts {
		if !slices.Contains(names, r) {
			errs = append(errs, fmt.Errorf("component %q: required part %q was not discovered", c.Name, r))
		}
	}
	for _, o := range c.Composition.OptionalParts {
		if !slices.Contains(names, o) {
			errs = append(errs, fmt.Errorf("component %q: optional part %q was not discovered", c.Name, o))
		}
	}

	return errs
}

// ValidateAll validates every record and rejects duplicate names.
func ValidateAll(components []ComponentInfo) []error {
	var errs []error
	seen := make(map[string]bool, len(components))
	for i, c := range components {
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("components[%d]: duplicate component name %q", i, c.Name))
			continue
		}
		seen[c.Name] = true
		errs = append(errs, c.Validate()...)
	}
	return errs
}

// LoadFromFile reads a serialized catalog (a JSON array of ComponentInfo)
// and validates it.
func LoadFromFile(path string) ([]ComponentInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a serialized catalog and validates it.
func LoadFromBytes(data []byte) ([]ComponentInfo, error) {
	var components []ComponentInfo
	if err := json.Unmarshal(data, &components); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	if errs := ValidateAll(components); len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}
	return components, nil
}
