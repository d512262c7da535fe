package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
)

func sampleCatalog(description string) []catalog.ComponentInfo {
	return []catalog.ComponentInfo{{
		Name:        "Dialog",
		DisplayName: "Dialog",
		Description: description,
		Category:    "overlay",
		Parts: []catalog.ComponentPart{
			{Name: "Root", DisplayName: "Root", ElementType: "div", Required: true},
			{Name: "Trigger", DisplayName: "Trigger", ElementType: "button", Required: true},
		},
		Composition: catalog.CompositionInfo{RequiredParts: []string{"Root", "Trigger"}},
	}}
}

func TestWriteThenCheck_NoDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Write(path, sampleCatalog("Groups all parts.")))

	result, err := Check(path, sampleCatalog("Groups all parts."))
	require.NoError(t, err)
	assert.False(t, result.Drift)
	assert.Empty(t, result.Diff)

	loaded, err := catalog.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Dialog", loaded[0].Name)
}

func TestCheck_ReportsDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Write(path, sampleCatalog("Old text.")))

	result, err := Check(path, sampleCatalog("New text."))
	require.NoError(t, err)
	assert.True(t, result.Drift)
	assert.Contains(t, result.Diff, `-    "description": "Old text.",`)
	assert.Contains(t, result.Diff, `+    "description": "New text.",`)
	assert.NotContains(t, result.Diff, `"displayName": "Dialog"`, "unchanged lines are omitted")
}

func TestCheck_IgnoresCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data, err := Marshal(sampleCatalog("Same."))
	require.NoError(t, err)
	crlf := strings.ReplaceAll(string(data), "\n", "\r\n")
	require.NoError(t, os.WriteFile(path, []byte(crlf), 0o644))

	result, err := Check(path, sampleCatalog("Same."))
	require.NoError(t, err)
	assert.False(t, result.Drift)
}

func TestCheck_IgnoresFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data, err := json.Marshal(sampleCatalog("Same."))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result, err := Check(path, sampleCatalog("Same."))
	require.NoError(t, err)
	assert.False(t, result.Drift)
}

func TestCheck_CorruptedSnapshot(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"not json", `[{"name": "Dialog",`, "failed to parse catalog JSON"},
		{"missing required part", `[{
			"name": "Dialog",
			"parts": [{"name": "Root"}],
			"composition": {"requiredParts": ["Root", "Popup"]}
		}]`, `required part "Popup" was not discovered`},
		{"duplicate component", `[
			{"name": "Dialog", "parts": [{"name": "Root"}]},
			{"name": "Dialog", "parts": [{"name": "Root"}]}
		]`, "duplicate component name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "-")+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			result, err := Check(path, sampleCatalog("x"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "load snapshot")
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, result.Drift)
		})
	}
}

func TestCheck_MissingSnapshot(t *testing.T) {
	_, err := Check(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestWrite_RefusesInvalidCatalog(t *testing.T) {
	bad := sampleCatalog("x")
	bad[0].Composition.RequiredParts = append(bad[0].Composition.RequiredParts, "Popup")

	path := filepath.Join(t.TempDir(), "catalog.json")
	err := Write(path, bad)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestMarshal_EmptyCatalog(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestDiff_OnlyChangedLines(t *testing.T) {
	diff := Diff("a\nb\nc\n", "a\nB\nc\nd\n")
	assert.Equal(t, "-b\n+B\n+d\n", diff)
}
