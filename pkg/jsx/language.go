package jsx

import (
	"path/filepath"
	"strings"
)

// Language selects the tree-sitter grammar used for a snippet.
type Language int

const (
	// LanguageTSX is TypeScript with JSX. Snippets of unknown origin use it.
	LanguageTSX Language = iota
	// LanguageTypeScript is plain TypeScript (.ts, .mts, .cts).
	LanguageTypeScript
	// LanguageJavaScript covers .js and .jsx; the grammar accepts JSX.
	LanguageJavaScript
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "tsx"
	}
}

// DetectLanguage picks a grammar from a file path. Unknown extensions get TSX.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageTSX
	}
}
