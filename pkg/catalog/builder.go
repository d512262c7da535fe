// Package catalog builds normalized component records from the reference
// directory and the metadata table, and serves read queries over them.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/anchor-ui/mcp-server/pkg/metadata"
	"github.com/anchor-ui/mcp-server/pkg/reference"
	"github.com/anchor-ui/mcp-server/pkg/util"
)

const (
	DefaultDocsBaseURL  = "https://anchorui.com/react/components"
	DefaultImportPrefix = "@anchor-ui/react"
)

// Source produces component records. A missing component is reported with
// ok == false and a nil error.
type Source interface {
	Names(ctx context.Context) ([]string, error)
	Build(ctx context.Context, name string) (info ComponentInfo, ok bool, err error)
}

// PartLoader is the subset of reference.Store the builder reads from.
type PartLoader interface {
	ListComponentNames(ctx context.Context) ([]string, error)
	LoadPartsFor(ctx context.Context, component string) ([]reference.RawPart, error)
}

// Options configures a Builder.
type Options struct {
	DocsBaseURL  string
	ImportPrefix string
	Logger       *slog.Logger
}

// Builder assembles ComponentInfo records. It keeps no state between calls.
type Builder struct {
	loader   PartLoader
	table    *metadata.Table
	docsBase string
	examples *ExampleGenerator
	logger   *slog.Logger
}

var _ Source = (*Builder)(nil)

// NewBuilder creates a Builder. A nil table selects metadata.Default().
func NewBuilder(loader PartLoader, table *metadata.Table, opts Options) *Builder {
	if table == nil {
		table = metadata.Default()
	}
	if opts.DocsBaseURL == "" {
		opts.DocsBaseURL = DefaultDocsBaseURL
	}
	if opts.ImportPrefix == "" {
		opts.ImportPrefix = DefaultImportPrefix
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Builder{
		loader:   loader,
		table:    table,
		docsBase: strings.TrimRight(opts.DocsBaseURL, "/"),
		examples: NewExampleGenerator(opts.ImportPrefix),
		logger:   opts.Logger,
	}
}

// Names lists the components present in the reference directory.
func (b *Builder) Names(ctx context.Context) ([]string, error) {
	return b.loader.ListComponentNames(ctx)
}

// Build assembles the record for name. A component without any decodable
// part file is not found.
func (b *Builder) Build(ctx context.Context, name string) (ComponentInfo, bool, error) {
	raw, err := b.loader.LoadPartsFor(ctx, name)
	if err != nil {
		return ComponentInfo{}, false, err
	}

	md := b.table.Get(name)

	parts := make([]ComponentPart, 0, len(raw))
	for _, rp := range raw {
		doc, err := reference.DecodePart(rp.Data)
		if err != nil {
			b.logger.Warn("skipping malformed reference file",
				"file", rp.FileName,
				"error", &reference.ParseError{File: rp.FileName, Err: err})
			continue
		}
		parts = append(parts, newPart(rp.Part, doc, md))
	}
	if len(parts) == 0 {
		return ComponentInfo{}, false, nil
	}
	sortParts(parts)

	info := ComponentInfo{
		Name:             name,
		DisplayName:      name,
		Description:      describe(name, parts),
		Category:         md.Category,
		Parts:            parts,
		DocumentationURL: b.docsURL(name, md),
		Accessibility:    accessibilityFor(name, md),
	}
	info.Composition = b.compositionFor(name, info.PartNames(), md)
	return info, true, nil
}

func (b *Builder) docsURL(name string, md metadata.Metadata) string {
	if md.DocumentationURL != "" {
		return md.DocumentationURL
	}
	return b.docsBase + "/" + reference.KebabCase(name)
}

func (b *Builder) compositionFor(name string, present []string, md metadata.Metadata) CompositionInfo {
	required := intersect(md.RequiredParts, present)
	return CompositionInfo{
		RequiredParts: required,
		OptionalParts: intersect(md.OptionalParts, present),
		Examples:      b.examples.Generate(name, reference.KebabCase(name), required),
		Donts:         dontsFor(name),
	}
}

func newPart(name string, doc reference.PartDoc, md metadata.Metadata) ComponentPart {
	props := make([]PropInfo, len(doc.Props))
	for i, p := range doc.Props {
		props[i] = PropInfo{
			Name:        p.Name,
			Type:        p.Type,
			Description: p.Description,
			Required:    !p.HasDefault && p.Name != "className" && p.Name != "render",
		}
		if p.HasDefault {
			props[i].Default = p.Default
			if p.Default == nil {
				props[i].Default = NullDefault
			}
		}
	}
	return ComponentPart{
		Name:           name,
		DisplayName:    name,
		Description:    doc.Description,
		ElementType:    InferElementType(name),
		Props:          props,
		Required:       name == "Root" || slices.Contains(md.RequiredParts, name),
		DataAttributes: doc.DataAttributes,
		CSSVariables:   doc.CSSVariables,
	}
}

// InferElementType guesses the rendered HTML tag of a part from its name.
func InferElementType(part string) string {
	switch {
	case containsAny(part, "Trigger", "Button", "Close"):
		return "button"
	case containsAny(part, "Input", "Control"):
		return "input"
	case containsAny(part, "Label", "Legend"):
		return "label"
	default:
		return "div"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// sortParts puts Root first and orders the rest by name.
func sortParts(parts []ComponentPart) {
	sort.SliceStable(parts, func(i, j int) bool {
		a, b := parts[i].Name, parts[j].Name
		if a == "Root" || b == "Root" {
			return a == "Root" && b != "Root"
		}
		return a < b
	})
}

func describe(name string, parts []ComponentPart) string {
	if len(parts) > 0 && parts[0].Name == "Root" && parts[0].Description != "" {
		return parts[0].Description
	}
	return name + " component"
}

// intersect keeps the entries of want that appear in have, in want's order.
func intersect(want, have []string) []string {
	out := make([]string, 0, len(want))
	for _, w := range want {
		if slices.Contains(have, w) {
			out = append(out, w)
		}
	}
	return out
}

// BuildAll builds every component of src, optionally filtered by category.
// An empty category or "all" keeps everything. Results follow src.Names order.
func BuildAll(ctx context.Context, src Source, category string) ([]ComponentInfo, error) {
	names, err := src.Names(ctx)
	if err != nil {
		return nil, err
	}

	built := make([]*ComponentInfo, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(util.WorkerLimit())
	for i, name := range names {
		g.Go(func() error {
			info, ok, err := src.Build(gctx, name)
			if err != nil {
				return fmt.Errorf("build %s: %w", name, err)
			}
			if ok {
				built[i] = &info
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := category == "" || category == "all"
	out := make([]ComponentInfo, 0, len(names))
	for _, info := range built {
		if info == nil {
			continue
		}
		if all || string(info.Category) == category {
			out = append(out, *info)
		}
	}
	return out, nil
}
