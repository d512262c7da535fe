package jsx

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/anchor-ui/mcp-server/pkg/guardrails"
)

// Range is a half-open byte range in the parsed source.
type Range struct {
	Start, End int
}

// CommentRanges returns the byte ranges of every comment node in tree,
// in source order. JSX comments ({/* ... */}) are reported without braces.
func CommentRanges(tree *ts.Tree) []Range {
	var ranges []Range
	var walk func(n *ts.Node)
	walk = func(n *ts.Node) {
		if n.Kind() == "comment" {
			ranges = append(ranges, Range{Start: int(n.StartByte()), End: int(n.EndByte())})
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	root := tree.RootNode()
	walk(root)
	return ranges
}

// Mask returns a copy of source where every byte inside ranges is a space,
// except newlines. Offsets and line numbers of the copy match source.
func Mask(source []byte, ranges []Range) []byte {
	out := make([]byte, len(source))
	copy(out, source)
	for _, r := range ranges {
		end := min(r.End, len(out))
		for i := max(r.Start, 0); i < end; i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
	}
	return out
}

// Engine is a guardrails.Engine that matches rule patterns against the
// source with its comments blanked out, so commented-out code never
// triggers a rule. Snippets that cannot be parsed are matched as-is.
type Engine struct {
	guardrails.RegexpEngine

	parser *Parser
	lang   Language
}

var (
	_ guardrails.Engine           = (*Engine)(nil)
	_ guardrails.SourceNormalizer = (*Engine)(nil)
)

// NewEngine creates an Engine that parses snippets as lang.
func NewEngine(parser *Parser, lang Language) *Engine {
	return &Engine{parser: parser, lang: lang}
}

// Normalize blanks comments in text.
func (e *Engine) Normalize(text string) string {
	source := []byte(text)
	tree, err := e.parser.Parse(source, e.lang)
	if err != nil {
		e.parser.logger.Warn("comment masking skipped", "error", err)
		return text
	}
	defer tree.Close()

	ranges := CommentRanges(tree)
	if len(ranges) == 0 {
		return text
	}
	return string(Mask(source, ranges))
}
