package dedup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, now time.Time) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "history.json")
	store := NewFileStore(path, zap.NewNop())
	store.now = func() time.Time { return now }
	return store, path
}

func writeHistory(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store, _ := newTestStore(t, time.Now())
	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.IsSeen("anything"))
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	store, path := newTestStore(t, time.Now())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, 0, store.Len())
}

func TestFileStore_AddSaveReload(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store, path := newTestStore(t, now)
	require.NoError(t, store.Load(ctx))

	store.Add("job-1")
	store.Add("job-1")
	store.Add("job-2")
	assert.True(t, store.IsSeen("job-1"))
	assert.Equal(t, 2, store.Len())

	//directory is created on save
	require.NoError(t, store.Save(ctx))
	_, err := os.Stat(path)
	require.NoError(t, err)

	reloaded := NewFileStore(path, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.IsSeen("job-1"))
	assert.True(t, reloaded.IsSeen("job-2"))
	assert.False(t, reloaded.IsSeen("job-3"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestFileStore_SaveIsWorldReadable(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t, time.Now())
	require.NoError(t, store.Load(ctx))
	store.Add("job-1")
	require.NoError(t, store.Save(ctx))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestFileStore_EvictOlderThan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store, path := newTestStore(t, now)

	cutoff := now.Add(-90 * 24 * time.Hour)
	writeHistory(t, path, map[string]string{
		"fresh":     now.Add(-24 * time.Hour).Format(time.RFC3339),
		"old":       now.Add(-100 * 24 * time.Hour).Format(time.RFC3339),
		"at-cutoff": cutoff.Format(time.RFC3339),
		"garbage":   "not-a-date",
		"legacy":    now.Add(-2 * 24 * time.Hour).In(time.Local).Format("2006-01-02T15:04:05.000000"),
	})
	require.NoError(t, store.Load(ctx))

	removed, err := store.EvictOlderThan(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, store.IsSeen("fresh"))
	assert.True(t, store.IsSeen("at-cutoff"))
	assert.True(t, store.IsSeen("legacy"))
	assert.False(t, store.IsSeen("old"))
	assert.False(t, store.IsSeen("garbage"))

	//eviction is persisted
	reloaded := NewFileStore(path, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 3, reloaded.Len())

	removed, err = store.EvictOlderThan(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestFileStore_EvictZeroDaysKeepsCurrentEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 500, time.UTC)
	store, _ := newTestStore(t, now)
	require.NoError(t, store.Load(ctx))

	store.Add("a")
	store.Add("b")

	removed, err := store.EvictOlderThan(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 2, store.Len())
}

func TestFileStore_EvictZeroDaysWallClock(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "history.json"), zap.NewNop())
	require.NoError(t, store.Load(ctx))

	store.Add("a")

	removed, err := store.EvictOlderThan(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.True(t, store.IsSeen("a"))
}

func TestFileStore_EvictZeroDaysDropsOlderSeconds(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 5, 0, time.UTC)
	store, path := newTestStore(t, now)
	writeHistory(t, path, map[string]string{
		"subsecond": now.Add(-300 * time.Millisecond).Format(time.RFC3339Nano),
		"two-secs":  now.Add(-2 * time.Second).Format(time.RFC3339Nano),
	})
	require.NoError(t, store.Load(ctx))

	removed, err := store.EvictOlderThan(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, store.IsSeen("subsecond"))
	assert.False(t, store.IsSeen("two-secs"))
}
