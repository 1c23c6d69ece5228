package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcher_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, func() error { return nil })

	if w.IsRunning() {
		t.Error("Expected watcher to start stopped")
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !w.IsRunning() {
		t.Error("Expected watcher to be running after Start")
	}

	err := w.Start()
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Errorf("Expected already running error, got %v", err)
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if w.IsRunning() {
		t.Error("Expected watcher to be stopped after Stop")
	}

	err = w.Stop()
	if err == nil || !strings.Contains(err.Error(), "not running") {
		t.Errorf("Expected not running error, got %v", err)
	}
}

func TestWatcher_Restart(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, func() error { return nil })

	for i := 0; i < 2; i++ {
		if err := w.Start(); err != nil {
			t.Fatalf("Start %d failed: %v", i, err)
		}
		if err := w.Stop(); err != nil {
			t.Fatalf("Stop %d failed: %v", i, err)
		}
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent"), func() error { return nil })

	err := w.Start()
	if err == nil {
		t.Fatal("Expected error for missing sources directory")
	}
	if !strings.Contains(err.Error(), "failed to watch") {
		t.Errorf("Expected watch error, got %v", err)
	}
	if w.IsRunning() {
		t.Error("Expected watcher to stay stopped after failed Start")
	}
}

func TestWatcher_RebuildsAfterChange(t *testing.T) {
	dir := t.TempDir()

	rebuilt := make(chan struct{}, 4)
	w := NewWatcher(dir, func() error {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
		return nil
	}, WithDebounce(50*time.Millisecond))

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "note.md"), []byte("# Note\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a rebuild after a source change")
	}
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()

	rebuilt := make(chan struct{}, 16)
	w := NewWatcher(dir, func() error {
		rebuilt <- struct{}{}
		return nil
	}, WithDebounce(200*time.Millisecond))

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	// A burst of writes inside one debounce window triggers one rebuild.
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "note.md")
		if err := os.WriteFile(name, []byte("# Note\n"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a rebuild after the burst")
	}

	select {
	case <-rebuilt:
		t.Error("Expected the burst to coalesce into a single rebuild")
	case <-time.After(500 * time.Millisecond):
	}
}
