package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docview/pkg/view"
)

func newTestSource(t *testing.T) *Source {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "rooms")
	require.NoError(t, os.Mkdir(dir, 0755))
	src, err := NewSource(Config{Path: dir, Debounce: 10 * time.Millisecond})
	require.NoError(t, err)
	return src
}

func TestWatchWorker_StartStop(t *testing.T) {
	src := newTestSource(t)
	out := make(chan *view.Snapshot, 1)
	w := newWatchWorker(src, out)
	assert.Equal(t, worker.StatusCreated, w.State().Status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.Equal(t, worker.StatusRunning, w.State().Status)
	assert.Equal(t, string(worker.TypeGoroutine), w.State().Metadata[worker.MetadataType])

	assert.Error(t, w.Start(ctx), "second start must fail")

	select {
	case snap := <-out:
		assert.True(t, snap.Docs().Empty())
	case <-ctx.Done():
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, w.Stop(ctx))
	assert.Eventually(t, func() bool {
		return w.State().Status == worker.StatusStopped
	}, time.Second, 10*time.Millisecond)

	select {
	case _, ok := <-out:
		assert.False(t, ok, "output closes when the worker stops")
	case <-ctx.Done():
		t.Fatal("output was not closed")
	}
}

func TestWatchWorker_StartCancelled(t *testing.T) {
	w := newWatchWorker(newTestSource(t), make(chan *view.Snapshot, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Start(ctx), context.Canceled)
	assert.False(t, w.src.State().(SourceState).WatcherActive)
}
