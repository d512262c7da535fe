// Package snapshot stores a built catalog on disk and reports drift between
// that file and a fresh build.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
)

// Marshal renders components as indented JSON ending in a newline.
func Marshal(components []catalog.ComponentInfo) ([]byte, error) {
	if components == nil {
		components = []catalog.ComponentInfo{}
	}
	data, err := json.MarshalIndent(components, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Write stores components at path. Records that break catalog invariants
// are refused.
func Write(path string, components []catalog.ComponentInfo) error {
	if errs := catalog.ValidateAll(components); len(errs) > 0 {
		return fmt.Errorf("refusing to write invalid catalog: %w", errors.Join(errs...))
	}
	data, err := Marshal(components)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Result is the outcome of Check.
type Result struct {
	Drift bool
	Diff  string // changed lines prefixed with "-" (snapshot) or "+" (fresh build)
}

// Check compares the snapshot at path with components. A snapshot that does
// not parse or breaks catalog invariants is an error, not drift. Both sides
// are rendered by Marshal before diffing, so formatting edits to the file
// do not count as drift.
func Check(path string, components []catalog.ComponentInfo) (Result, error) {
	loaded, err := catalog.LoadFromFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	stored, err := Marshal(loaded)
	if err != nil {
		return Result{}, err
	}
	fresh, err := Marshal(components)
	if err != nil {
		return Result{}, err
	}

	before := string(stored)
	after := string(fresh)
	if before == after {
		return Result{}, nil
	}
	return Result{Drift: true, Diff: Diff(before, after)}, nil
}

// Diff returns a line diff of two texts, listing only changed lines.
func Diff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
