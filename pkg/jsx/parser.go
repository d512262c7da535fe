// Package jsx parses TSX/JSX snippets with tree-sitter. It backs the "ast"
// guardrail engine, which blanks out comments before rules are matched.
package jsx

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/anchor-ui/mcp-server/pkg/util"
)

// Parser hands out pooled tree-sitter parsers per grammar.
//
// Parsers are created lazily up to the pool size; callers own the returned
// trees and must Close them. Parser must be closed to release the C parsers.
type Parser struct {
	mu     sync.Mutex
	pools  map[Language]*pool
	size   int
	closed bool
	logger *slog.Logger
}

// NewParser creates a Parser. A nil logger uses slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		pools:  make(map[Language]*pool),
		size:   util.WorkerLimit(),
		logger: logger,
	}
}

// Parse parses source with the grammar for lang.
// Trees containing syntax errors are still returned: snippets are often partial.
func (p *Parser) Parse(source []byte, lang Language) (*ts.Tree, error) {
	pl, err := p.pool(lang)
	if err != nil {
		return nil, err
	}

	parser, err := pl.acquire()
	if err != nil {
		return nil, err
	}
	tree := parser.Parse(source, nil)
	pl.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("jsx: %s parser returned no tree", lang)
	}
	if tree.RootNode().HasError() {
		p.logger.Debug("snippet has syntax errors", "language", lang.String())
	}
	return tree, nil
}

// Close releases every pooled parser. The Parser cannot be used afterwards.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	for _, pl := range p.pools {
		pl.close()
	}
	p.pools = nil
	return nil
}

func (p *Parser) pool(lang Language) (*pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errClosed
	}
	if pl, ok := p.pools[lang]; ok {
		return pl, nil
	}
	pl := &pool{
		lang:    lang,
		langPtr: grammar(lang),
		free:    make(chan *ts.Parser, p.size),
		done:    make(chan struct{}),
		max:     p.size,
	}
	p.pools[lang] = pl
	return pl, nil
}

func grammar(lang Language) unsafe.Pointer {
	switch lang {
	case LanguageTypeScript:
		return ts_typescript.LanguageTypescript()
	case LanguageJavaScript:
		return ts_javascript.Language()
	default:
		return ts_typescript.LanguageTSX()
	}
}

// pool is a channel-backed set of parsers for one grammar. Parsers checked
// out when the pool closes are closed on release.
type pool struct {
	lang    Language
	langPtr unsafe.Pointer
	free    chan *ts.Parser
	done    chan struct{}
	max     int

	mu      sync.Mutex
	created int
	closed  bool
}

var errClosed = errors.New("jsx: parser is closed")

func (pl *pool) acquire() (*ts.Parser, error) {
	pl.mu.Lock()
	if pl.closed {
		pl.mu.Unlock()
		return nil, errClosed
	}
	select {
	case parser := <-pl.free:
		pl.mu.Unlock()
		return parser, nil
	default:
	}
	if pl.created >= pl.max {
		pl.mu.Unlock()
		select {
		case parser := <-pl.free:
			return parser, nil
		case <-pl.done:
			return nil, errClosed
		}
	}
	parser := ts.NewParser()
	if err := parser.SetLanguage(ts.NewLanguage(pl.langPtr)); err != nil {
		pl.mu.Unlock()
		parser.Close()
		return nil, fmt.Errorf("jsx: set %s grammar: %w", pl.lang, err)
	}
	pl.created++
	pl.mu.Unlock()
	return parser, nil
}

func (pl *pool) release(parser *ts.Parser) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.closed {
		parser.Close()
		return
	}
	select {
	case pl.free <- parser:
	default:
		parser.Close()
	}
}

func (pl *pool) close() {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.closed {
		return
	}
	pl.closed = true
	close(pl.done)
	for {
		select {
		case parser := <-pl.free:
			parser.Close()
		default:
			return
		}
	}
}
