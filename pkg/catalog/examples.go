package catalog

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
)

// PartRole decides how a part is rendered inside an example.
type PartRole int

const (
	// RoleLeaf renders a self-closing element.
	RoleLeaf PartRole = iota
	// RoleTrigger wraps the label "Open".
	RoleTrigger
	// RoleItem wraps the label "Item".
	RoleItem
	// RoleContainer wraps the label "Content".
	RoleContainer
)

// RoleOf returns the example role of a part name.
func RoleOf(part string) PartRole {
	switch part {
	case "Trigger":
		return RoleTrigger
	case "Item":
		return RoleItem
	case "Panel", "Popup":
		return RoleContainer
	default:
		return RoleLeaf
	}
}

func (r PartRole) label() string {
	switch r {
	case RoleTrigger:
		return "Open"
	case RoleItem:
		return "Item"
	case RoleContainer:
		return "Content"
	default:
		return ""
	}
}

// Element renders one part of component as JSX.
func Element(component, part string) string {
	tag := component + "." + part
	label := RoleOf(part).label()
	if label == "" {
		return fmt.Sprintf("<%s />", tag)
	}
	return fmt.Sprintf("<%s>%s</%s>", tag, label, tag)
}

// Components with an open/close lifecycle.
var openStateComponents = []string{"Dialog", "AlertDialog", "Menu", "Popover", "Select", "Tooltip", "Collapsible"}

// Components with a value lifecycle.
var valueStateComponents = []string{"Slider", "NumberField", "Checkbox", "Radio", "Switch", "Tabs", "Accordion"}

// SupportsControlledState reports whether a controlled example is generated.
func SupportsControlledState(component string) bool {
	return slices.Contains(openStateComponents, component) || slices.Contains(valueStateComponents, component)
}

var exampleTemplates = template.Must(template.New("examples").Parse(`
{{- define "basic" -}}
import { {{.Name}} } from '{{.ImportPath}}';

<{{.Name}}.Root>
{{- range .Elements}}
  {{.}}
{{- else}}
  {/* Add component parts */}
{{- end}}
</{{.Name}}.Root>
{{- end}}

{{- define "open" -}}
import * as React from 'react';
import { {{.Name}} } from '{{.ImportPath}}';

function Example() {
  const [open, setOpen] = React.useState(false);

  return (
    <{{.Name}}.Root open={open} onOpenChange={setOpen}>
      <{{.Name}}.Trigger>Toggle</{{.Name}}.Trigger>
      <{{.Name}}.Portal>
        <{{.Name}}.Popup>Content</{{.Name}}.Popup>
      </{{.Name}}.Portal>
    </{{.Name}}.Root>
  );
}
{{- end}}

{{- define "value" -}}
import * as React from 'react';
import { {{.Name}} } from '{{.ImportPath}}';

function Example() {
  const [value, setValue] = React.useState(null);

  return (
    <{{.Name}}.Root value={value} onValueChange={setValue}>
      {/* Add component parts */}
    </{{.Name}}.Root>
  );
}
{{- end}}
`))

type exampleData struct {
	Name       string
	ImportPath string
	Elements   []string
}

// ExampleGenerator renders usage examples for components.
type ExampleGenerator struct {
	importPrefix string
}

// NewExampleGenerator creates a generator importing from importPrefix.
func NewExampleGenerator(importPrefix string) *ExampleGenerator {
	return &ExampleGenerator{importPrefix: strings.TrimRight(importPrefix, "/")}
}

// ImportPath returns the module path a component is imported from.
func (g *ExampleGenerator) ImportPath(kebabName string) string {
	return g.importPrefix + "/" + kebabName
}

// Generate returns the examples of component. requiredParts are the
// discovered required parts; Root is always the wrapper and is skipped.
func (g *ExampleGenerator) Generate(component, kebabName string, requiredParts []string) []UsageExample {
	data := exampleData{Name: component, ImportPath: g.ImportPath(kebabName)}
	for _, part := range requiredParts {
		if part != "Root" {
			data.Elements = append(data.Elements, Element(component, part))
		}
	}

	examples := []UsageExample{{
		Title:       "Basic Usage",
		Code:        render("basic", data),
		Description: "Minimal example using default props",
		Variant:     VariantBasic,
		Language:    "tsx",
	}}

	if SupportsControlledState(component) {
		tmpl := "value"
		if slices.Contains(openStateComponents, component) {
			tmpl = "open"
		}
		examples = append(examples, UsageExample{
			Title:       "Controlled State",
			Code:        render(tmpl, data),
			Description: "Example with controlled state management",
			Variant:     VariantControlled,
			Language:    "tsx",
		})
	}
	return examples
}

func render(name string, data exampleData) string {
	var b strings.Builder
	// The templates are fixed and only read string fields.
	if err := exampleTemplates.ExecuteTemplate(&b, name, data); err != nil {
		panic(fmt.Sprintf("catalog: render %s example: %v", name, err))
	}
	return b.String()
}
