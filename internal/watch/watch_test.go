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

func TestWatchRunsOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "board.lisp")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("(aux-origin (pt 0 0))"), 0o644))

	var runs atomic.Int32
	ran := make(chan struct{}, 10)
	w := &Watcher{
		Files:    []string{file},
		Debounce: 20 * time.Millisecond,
		Run: func() error {
			runs.Add(1)
			ran <- struct{}{}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	select {
	case <-ran:
		t.Fatal("untracked file triggered a run")
	case <-time.After(150 * time.Millisecond):
	}

	// Several writes in quick succession settle into one run.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte("(aux-origin (pt 1 1))"), 0o644))
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("no run after change")
	}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchArguments(t *testing.T) {
	err := (&Watcher{Run: func() error { return nil }}).Watch(context.Background())
	assert.Error(t, err)

	err = (&Watcher{Files: []string{"board.lisp"}}).Watch(context.Background())
	assert.Error(t, err)
}
