package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RawPart is one undecoded part file of a component.
type RawPart struct {
	FileName string // base name, e.g. "dialog-trigger.json"
	Part     string // PascalCase part name parsed from FileName
	Data     []byte
}

// Store lists and loads reference files from one directory.
// It holds no file contents between calls, so it always reflects the disk.
type Store struct {
	dir     string
	exclude []string
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithExclude ignores files whose base name matches any doublestar pattern.
func WithExclude(patterns ...string) StoreOption {
	return func(s *Store) {
		s.exclude = append(s.exclude, patterns...)
	}
}

// WithLogger sets the logger used for skipped files.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore opens dir. It returns a *ConfigurationError if dir is not a
// directory or an exclude pattern is invalid.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	s := &Store{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range s.exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, &ConfigurationError{Path: dir, Err: fmt.Errorf("invalid exclude pattern %q", p)}
		}
	}
	if err := s.checkDir(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the reference directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) checkDir() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigurationError{Path: s.dir, Err: fmt.Errorf("reference directory not found")}
		}
		return &ConfigurationError{Path: s.dir, Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Path: s.dir, Err: fmt.Errorf("not a directory")}
	}
	return nil
}

// Lookup resolves a file name to its component and part, honouring excludes.
func (s *Store) Lookup(name string) (component, part string, ok bool) {
	base := filepath.Base(name)
	if s.excluded(base) {
		return "", "", false
	}
	return ParseFileName(base)
}

func (s *Store) excluded(base string) bool {
	for _, p := range s.exclude {
		// Patterns were validated in NewStore.
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

func (s *Store) entries() ([]os.DirEntry, error) {
	if err := s.checkDir(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &ConfigurationError{Path: s.dir, Err: err}
	}
	return entries, nil
}

// ListComponentNames returns the sorted, distinct component names present in
// the directory. Files that do not match a known part suffix are ignored.
func (s *Store) ListComponentNames(ctx context.Context) ([]string, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		if component, _, ok := s.Lookup(e.Name()); ok {
			seen[component] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadPartsFor reads every part file of component, ordered by file name.
// Unreadable files are logged and skipped. An unknown component yields an
// empty slice and a nil error.
func (s *Store) LoadPartsFor(ctx context.Context, component string) ([]RawPart, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	// Only files sharing the kebab prefix can belong to component.
	prefix := KebabCase(component) + "-"

	var parts []RawPart
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		name, part, ok := s.Lookup(e.Name())
		if !ok || name != component {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable reference file",
				"file", e.Name(),
				"error", &ParseError{File: e.Name(), Err: err})
			continue
		}
		parts = append(parts, RawPart{FileName: e.Name(), Part: part, Data: data})
	}
	return parts, nil
}
