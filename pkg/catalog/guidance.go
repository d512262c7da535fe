package catalog

import "github.com/anchor-ui/mcp-server/pkg/metadata"

var screenReaderSupport = []string{"ARIA attributes", "Semantic HTML", "Focus management"}

type a11yClass struct {
	requirements []string
	warnings     []string
}

var (
	accordionClass = a11yClass{
		requirements: []string{
			"Each accordion item must have a trigger and panel",
			"Trigger must have aria-controls pointing to panel id",
		},
	}
	dialogClass = a11yClass{
		requirements: []string{
			"Must have a Title component for accessibility",
			"Focus must be trapped when modal",
		},
		warnings: []string{"Ensure focus returns to trigger when closed"},
	}
	listboxClass = a11yClass{
		requirements: []string{
			"Must have at least one Item",
			"Keyboard navigation must loop through items",
		},
	}
	sliderClass = a11yClass{
		requirements: []string{
			"Must have aria-labelledby or aria-label",
			"Must specify min, max, and optionally step",
		},
	}
)

var a11yClasses = map[string]a11yClass{
	"Accordion":   accordionClass,
	"Dialog":      dialogClass,
	"AlertDialog": dialogClass,
	"Menu":        listboxClass,
	"Select":      listboxClass,
	"Slider":      sliderClass,
}

func accessibilityFor(name string, md metadata.Metadata) AccessibilityInfo {
	class := a11yClasses[name]
	return AccessibilityInfo{
		AriaAttributes:      copyList(md.AriaAttributes),
		KeyboardNavigation:  copyList(md.KeyboardNavigation),
		ScreenReaderSupport: copyList(screenReaderSupport),
		Requirements:        copyList(class.requirements),
		Warnings:            copyList(class.warnings),
	}
}

var commonDonts = []string{
	"Do not add inline styles - use className or CSS",
	"Do not break component composition",
	"Do not remove required ARIA attributes",
	"Do not use uncontrolled state when controlled is needed",
}

var componentDonts = map[string][]string{
	"Dialog": {"Do not nest dialogs without proper focus management"},
	"Menu":   {"Do not use Menu.Item outside of Menu.Popup"},
	"Select": {"Do not use Select.Item outside of Select.Popup"},
	"Slider": {"Do not set min equal to max"},
}

func dontsFor(name string) []string {
	out := copyList(commonDonts)
	return append(out, componentDonts[name]...)
}

// copyList copies s; nil becomes an empty list so JSON shows [].
func copyList(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
