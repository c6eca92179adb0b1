package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watcherLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForPath(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			require.True(t, ok, "watcher channel closed early")
			if p == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, watcherLogger())
	assert.ErrorContains(t, err, "no watch roots")
}

func TestWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "feed.json")
	require.NoError(t, os.WriteFile(existing, []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true}, watcherLogger())
	require.NoError(t, err)

	waitForPath(t, paths, existing)
}

func TestWatcherSeesNewRecordsFile(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}}, watcherLogger())
	require.NoError(t, err)

	dropped := filepath.Join(dir, "osm-batch.json")
	require.NoError(t, os.WriteFile(dropped, []byte(`[]`), 0644))

	waitForPath(t, paths, dropped)
}

func TestWatcherFiltersExtensions(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}}, watcherLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "partial.tmp"), []byte("x"), 0644))
	wanted := filepath.Join(dir, "ready.json")
	require.NoError(t, os.WriteFile(wanted, []byte(`[]`), 0644))

	waitForPath(t, paths, wanted)
}

func TestWatcherDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
	}, watcherLogger())
	require.NoError(t, err)

	burst := filepath.Join(dir, "burst.json")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(burst, []byte(`[]`), 0644))
	}

	waitForPath(t, paths, burst)
}
