package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherDetectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	var notified atomic.Int64
	watcher, err := NewWatcher(path, func(string) {
		notified.Add(1)
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(path, []byte("server:\n  listen_address: \":9\"\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config file: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for notified.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher did not report config change within deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	var notified atomic.Int64
	watcher, err := NewWatcher(path, func(string) {
		notified.Add(1)
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("failed to write sibling file: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if notified.Load() != 0 {
		t.Errorf("watcher reported %d changes for sibling file, want 0", notified.Load())
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	watcher, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	watcher.Stop()
	watcher.Stop() // second Stop must not panic or block
}
