package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docgraph/internal/extractor"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := New(extractor.NewPlainText(), 100*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWatcherTriggersOnSupportedFile(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	triggers, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "note.txt"), []byte("hello"), 0o644)
	}()

	select {
	case <-triggers:
	case <-ctx.Done():
		t.Error("timeout waiting for trigger")
	}
}

func TestWatcherIgnoresUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	triggers, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	os.WriteFile(filepath.Join(dir, "data.json"), []byte("{}"), 0o644)

	select {
	case <-triggers:
		t.Error("should not trigger for unsupported extension")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	triggers, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		os.WriteFile(filepath.Join(dir, "burst.txt"), []byte{byte('a' + i)}, 0o644)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-triggers:
	case <-ctx.Done():
		t.Fatal("timeout waiting for trigger")
	}

	// The burst settled; no second trigger should follow.
	select {
	case <-triggers:
		t.Error("burst produced more than one trigger")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := New(extractor.NewPlainText(), 0, logger)
	if err != nil {
		t.Fatal(err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}
	if err := w.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}
