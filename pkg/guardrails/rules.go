// Package guardrails checks source snippets against a set of pattern rules
// that catch common misuse of Anchor UI components.
package guardrails

import "slices"

// Severity ranks how a rule match is reported.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule categories.
const (
	CategoryStyling         = "styling"
	CategoryAccessibility   = "accessibility"
	CategoryStateManagement = "state-management"
	CategoryComposition     = "composition"
	CategoryReactPatterns   = "react-patterns"
	CategoryBestPractices   = "best-practices"
)

// Categories lists the rule categories.
func Categories() []string {
	return []string{
		CategoryStyling, CategoryAccessibility, CategoryStateManagement,
		CategoryComposition, CategoryReactPatterns, CategoryBestPractices,
	}
}

// Rule is a single guardrail. Rules are immutable after construction.
type Rule struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Pattern  string   `json:"pattern"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
	Category string   `json:"category"`

	// Components limits the rule to the named components when the caller
	// supplies a component hint. Empty means the rule always applies.
	Components []string `json:"components,omitempty"`
}

// AppliesTo reports whether the rule should run for the given component hint.
func (r Rule) AppliesTo(component string) bool {
	if component == "" || len(r.Components) == 0 {
		return true
	}
	return slices.Contains(r.Components, component)
}

var overlayComponents = []string{"Dialog", "AlertDialog", "Menu", "Select", "Popover", "Tooltip"}

var defaultRules = []Rule{
	{
		ID:       "no-inline-styles",
		Severity: SeverityError,
		Pattern:  `style=\{(.*?)\}`,
		Message:  "Do not use inline styles. Anchor UI components are unstyled - use className or CSS instead.",
		Fix:      "Replace inline styles with className and external CSS",
		Category: CategoryStyling,
	},
	{
		ID:       "preserve-aria",
		Severity: SeverityError,
		Pattern:  `aria-\w+=\{(.*?)\}`,
		Message:  "Do not override ARIA attributes unless necessary. Anchor UI handles accessibility automatically.",
		Fix:      "Remove custom ARIA attributes unless you have a specific accessibility requirement",
		Category: CategoryAccessibility,
	},
	{
		ID:       "no-uncontrolled-state",
		Severity: SeverityWarning,
		Pattern:  `useState.*open.*setOpen`,
		Message:  "Consider using controlled state (value/onValueChange or open/onOpenChange) instead of useState for better integration.",
		Fix:      "Use value and onValueChange props for controlled components",
		Category: CategoryStateManagement,
	},
	{
		ID:       "preserve-composition",
		Severity: SeverityError,
		Pattern:  `<\w+\.Root[^>]*>.*?</\w+\.Root>`,
		Message:  "Do not break component composition. Always use component parts (Root, Trigger, Panel, etc.)",
		Fix:      "Ensure all component parts are properly nested",
		Category: CategoryComposition,
	},
	{
		ID:       "no-direct-dom-manipulation",
		Severity: SeverityError,
		Pattern:  `document\.(getElementById|querySelector|getElementsBy)`,
		Message:  "Do not manipulate DOM directly. Use React refs and component APIs instead.",
		Fix:      "Use refs and component state management",
		Category: CategoryReactPatterns,
	},
	{
		ID:       "use-render-prop",
		Severity: SeverityInfo,
		Pattern:  `render=\{["'](div|span|button)["']\}`,
		Message:  "Consider using render prop function for custom element types instead of string for better type safety.",
		Fix:      "Use render prop function: render={(props) => <CustomElement {...props} />}",
		Category: CategoryBestPractices,
	},
	{
		ID:       "preserve-keyboard-navigation",
		Severity: SeverityError,
		Pattern:  `onKeyDown.*preventDefault|stopPropagation`,
		Message:  "Do not prevent default keyboard behavior unless absolutely necessary. Anchor UI handles keyboard navigation.",
		Fix:      "Remove preventDefault/stopPropagation unless handling custom keyboard shortcuts",
		Category: CategoryAccessibility,
	},
	{
		ID:       "no-css-in-js-libraries",
		Severity: SeverityWarning,
		Pattern:  `(styled-components|emotion|@emotion|styled\(|css\(|makeStyles)`,
		Message:  "Anchor UI is unstyled. Consider using plain CSS, CSS Modules, or Tailwind instead.",
		Fix:      "Use className with external CSS",
		Category: CategoryStyling,
	},
	{
		ID:       "use-classname-function",
		Severity: SeverityInfo,
		Pattern:  `className=\{["']`,
		Message:  "Consider using className as a function to access component state for conditional styling.",
		Fix:      `Use className={(state) => state.open ? "open" : "closed"}`,
		Category: CategoryBestPractices,
	},
	{
		ID:         "no-broken-composition",
		Severity:   SeverityError,
		Pattern:    `<(Dialog|Menu|Select|Popover|Tooltip)\.(Trigger|Popup|Portal)[^>]*>`,
		Message:    "Ensure overlay components have proper Portal and Popup structure.",
		Fix:        "Wrap Popup in Portal for overlay components",
		Category:   CategoryComposition,
		Components: overlayComponents,
	},
	{
		ID:       "preserve-data-attributes",
		Severity: SeverityWarning,
		Pattern:  `data-\w+=\{["']`,
		Message:  "Do not manually set data attributes. Anchor UI provides them automatically via state.",
		Fix:      "Use className with state function to style based on data attributes",
		Category: CategoryStyling,
	},
	{
		ID:         "no-missing-required-parts",
		Severity:   SeverityError,
		Pattern:    `<(Dialog|AlertDialog|Menu|Select)\.Root[^>]*>`,
		Message:    "Ensure all required component parts are included (e.g., Dialog requires Trigger, Portal, Popup).",
		Fix:        "Include all required parts as specified in component documentation",
		Category:   CategoryComposition,
		Components: []string{"Dialog", "AlertDialog", "Menu", "Select"},
	},
}

// DefaultRules returns a copy of the built-in rule set, in evaluation order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		r.Components = slices.Clone(r.Components)
		out[i] = r
	}
	return out
}

// FilterByCategory returns the rules in the given category, preserving order.
func FilterByCategory(rules []Rule, category string) []Rule {
	out := make([]Rule, 0)
	for _, r := range rules {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
