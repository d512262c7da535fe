package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchor-ui/mcp-server/pkg/util"
)

// countingSource records how often each component is built.
type countingSource struct {
	Source
	mu     sync.Mutex
	builds map[string]int
}

func (c *countingSource) Build(ctx context.Context, name string) (ComponentInfo, bool, error) {
	c.mu.Lock()
	c.builds[name]++
	c.mu.Unlock()
	return c.Source.Build(ctx, name)
}

func (c *countingSource) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds[name]
}

func TestQuery_Get(t *testing.T) {
	q := NewQueryService(newTestBuilder(t, Options{}))

	info, ok, err := q.Get(context.Background(), "Dialog")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Dialog", info.Name)

	_, ok, err = q.Get(context.Background(), "NoSuchComponent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuery_GetPart(t *testing.T) {
	q := NewQueryService(newTestBuilder(t, Options{}))
	ctx := context.Background()

	part, ok, err := q.GetPart(ctx, "Dialog", "Trigger")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A button that opens the dialog.", part.Description)

	_, ok, err = q.GetPart(ctx, "Dialog", "Thumb")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = q.GetPart(ctx, "NoSuchComponent", "Root")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuery_GetExamples(t *testing.T) {
	q := NewQueryService(newTestBuilder(t, Options{}))
	ctx := context.Background()

	controlled, ok, err := q.GetExamples(ctx, "Slider", VariantControlled)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, controlled, 1)
	assert.Equal(t, VariantControlled, controlled[0].Variant)
	assert.Equal(t, "Controlled State", controlled[0].Title)

	all, ok, err := q.GetExamples(ctx, "Slider", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, all, 2)

	custom, ok, err := q.GetExamples(ctx, "Slider", VariantCustom)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, custom)
	assert.Empty(t, custom)

	_, ok, err = q.GetExamples(ctx, "NoSuchComponent", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuery_List(t *testing.T) {
	q := NewQueryService(newTestBuilder(t, Options{}))

	form, err := q.List(context.Background(), "form")
	require.NoError(t, err)
	require.Len(t, form, 1)
	assert.Equal(t, "Slider", form[0].Name)
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{Source: newTestBuilder(t, Options{}), builds: map[string]int{}}
	cached, err := NewCachedSource(inner, 8, util.Discard())
	require.NoError(t, err)
	ctx := context.Background()

	first, ok, err := cached.Build(ctx, "Dialog")
	require.NoError(t, err)
	require.True(t, ok)
	second, _, err := cached.Build(ctx, "Dialog")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.count("Dialog"))
	assert.Equal(t, 1, cached.Len())

	cached.Invalidate("Dialog")
	_, _, err = cached.Build(ctx, "Dialog")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.count("Dialog"))

	for range 2 {
		_, ok, err = cached.Build(ctx, "NoSuchComponent")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, inner.count("NoSuchComponent"), "not-found is not cached")
	assert.Equal(t, 1, cached.Len())
}

func TestCachedSource_Eviction(t *testing.T) {
	inner := &countingSource{Source: newTestBuilder(t, Options{}), builds: map[string]int{}}
	cached, err := NewCachedSource(inner, 1, util.Discard())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, _ = cached.Build(ctx, "Dialog")
	_, _, _ = cached.Build(ctx, "Slider")
	_, _, _ = cached.Build(ctx, "Dialog")
	assert.Equal(t, 2, inner.count("Dialog"))
}

func TestNewCachedSource_InvalidSize(t *testing.T) {
	_, err := NewCachedSource(newTestBuilder(t, Options{}), 0, nil)
	assert.Error(t, err)
}

func TestLoadFromBytes(t *testing.T) {
	all, err := BuildAll(context.Background(), newTestBuilder(t, Options{}), "")
	require.NoError(t, err)

	data, err := json.Marshal(all)
	require.NoError(t, err)

	loaded, err := LoadFromBytes(data)
	require.NoError(t, err)
	require.Len(t, loaded, len(all))
	assert.Equal(t, all[1].Composition, loaded[1].Composition)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	_, err := LoadFromBytes([]byte(`not json`))
	assert.Error(t, err)

	bad := `[
		{"name": "Dialog", "parts": [{"name": "Trigger"}, {"name": "Root"}],
		 "composition": {"requiredParts": ["Popup"]}},
		{"name": "Dialog", "parts": [{"name": "Root"}]}
	]`
	_, err = LoadFromBytes([]byte(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Root part at index 1")
	assert.Contains(t, err.Error(), `required part "Popup" was not discovered`)
	assert.Contains(t, err.Error(), "duplicate component name")
}
