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
)

func TestShouldIgnore(t *testing.T) {
	cases := []struct {
		path   string
		ignore bool
	}{
		{"/docs/intro.md", false},
		{"/docs/.intro.md.swp", true},
		{"/docs/intro.md~", true},
		{"/docs/.#intro.md", true},
		{"/docs/#intro.md#", true},
		{"/docs/Thumbs.db", true},
		{"/docs/notes.txt", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ignore, shouldIgnore(tc.path), tc.path)
	}
}

func TestNewRejectsMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), func() {})
	require.Error(t, err)
}

func TestWriteTriggersReload(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(dir, func() { calls.Add(1) })
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.md"), []byte("# Hi"), 0o644))

	require.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestBurstCollapsesToOneReload(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(dir, func() { calls.Add(1) })
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	path := filepath.Join(dir, "doc.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("# rev"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	// Allow any straggler fires to land before asserting the collapse.
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int32(2))

	cancel()
	<-done
}

func TestIgnoredFilesDoNotTrigger(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(dir, func() { calls.Add(1) })
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".doc.md.swp"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	cancel()
	<-done
}
