package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
	"github.com/anchor-ui/mcp-server/pkg/guardrails"
	"github.com/anchor-ui/mcp-server/pkg/metadata"
)

// Tool argument names.
const (
	argCategory      = "category"
	argComponentName = "componentName"
	argPartName      = "partName"
	argVariant       = "variant"
	argCode          = "code"
)

const categoryAll = "all"

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List all available Anchor UI components, optionally filtered by category"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argCategory,
			mcp.Description(`Filter components by category. Use "all" or omit to get all components.`),
			mcp.Enum(componentCategories()...),
		),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool("get_component",
		mcp.WithDescription("Get detailed information about a specific Anchor UI component including all parts, props, accessibility, and composition rules"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argComponentName,
			mcp.Required(),
			mcp.Description(`Name of the component (e.g., "Accordion", "Dialog", "Menu")`),
		),
	)
}

func getComponentPartTool() mcp.Tool {
	return mcp.NewTool("get_component_part",
		mcp.WithDescription("Get information about a specific part of a component (e.g., Root, Trigger, Panel)"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argComponentName,
			mcp.Required(),
			mcp.Description("Name of the component"),
		),
		mcp.WithString(argPartName,
			mcp.Required(),
			mcp.Description(`Name of the part (e.g., "Root", "Trigger", "Panel", "Popup")`),
		),
	)
}

func getUsageExamplesTool() mcp.Tool {
	variants := make([]string, 0, len(catalog.Variants()))
	for _, v := range catalog.Variants() {
		variants = append(variants, string(v))
	}
	return mcp.NewTool("get_usage_examples",
		mcp.WithDescription("Get usage examples for a component (basic, controlled, custom, composition)"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argComponentName,
			mcp.Required(),
			mcp.Description("Name of the component"),
		),
		mcp.WithString(argVariant,
			mcp.Description("Type of example to retrieve"),
			mcp.Enum(variants...),
		),
	)
}

func validateCodeTool() mcp.Tool {
	return mcp.NewTool("validate_code",
		mcp.WithDescription("Validate code against Anchor UI guardrails and best practices"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argCode,
			mcp.Required(),
			mcp.Description("Code to validate"),
		),
		mcp.WithString(argComponentName,
			mcp.Description("Optional: Component name for context-specific validation"),
		),
	)
}

func getGuardrailsTool() mcp.Tool {
	return mcp.NewTool("get_guardrails",
		mcp.WithDescription("Get all guardrail rules for Anchor UI to prevent common mistakes"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argCategory,
			mcp.Description("Optional: only return rules of this category"),
			mcp.Enum(guardrails.Categories()...),
		),
	)
}

func componentCategories() []string {
	cats := metadata.Categories()
	out := make([]string, 0, len(cats)+1)
	for _, c := range cats {
		out = append(out, string(c))
	}
	return append(out, categoryAll)
}
