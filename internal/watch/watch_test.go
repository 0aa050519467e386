package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func start(t *testing.T, w *Watcher) (*atomic.Int32, func()) {
	t.Helper()
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls.Add(1) })
	}()
	// fsnotify registration happens inside Run.
	time.Sleep(100 * time.Millisecond)
	return &calls, func() {
		cancel()
		require.NoError(t, <-done)
	}
}

func TestBurstOfChangesFiresOnce(t *testing.T) {
	dir := t.TempDir()
	calls, stop := start(t, New([]string{dir}, WithDelay(100*time.Millisecond)))
	defer stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "post.md"), []byte{byte('a' + i)}, 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIgnoredFilesDoNotFire(t *testing.T) {
	dir := t.TempDir()
	calls, stop := start(t, New([]string{dir}, WithDelay(50*time.Millisecond)))
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".post.md.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.md~"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestNewSubdirectoriesAreWatched(t *testing.T) {
	dir := t.TempDir()
	calls, stop := start(t, New([]string{dir}, WithDelay(50*time.Millisecond)))
	defer stop()

	sub := filepath.Join(dir, "forum")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "thread.md"), []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 20*time.Millisecond)
}

func TestMissingRootsAreSkipped(t *testing.T) {
	_, stop := start(t, New([]string{filepath.Join(t.TempDir(), "nope")}))
	stop()
}

func TestIgnored(t *testing.T) {
	w := New([]string{"/site"})
	assert.True(t, w.ignored("/site/content/.DS_Store"))
	assert.True(t, w.ignored("/site/content/post.md~"))
	assert.True(t, w.ignored("/site/.git/config"))
	assert.False(t, w.ignored("/site/content/post.md"))
	assert.False(t, w.ignored("/elsewhere/post.md"))
}
