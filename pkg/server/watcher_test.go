package server

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/gitxmas/pkg/errors"
)

func gitTree(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()
	for _, dir := range []string{".git/refs/heads", ".git/refs/tags", ".git/objects"} {
		if err := os.MkdirAll(filepath.Join(repo, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestWatcherRelevant(t *testing.T) {
	repo := gitTree(t)
	w, err := NewWatcher(repo, time.Millisecond, func() {}, log.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	git := filepath.Join(repo, ".git")
	tests := []struct {
		path string
		op   fsnotify.Op
		want bool
	}{
		{filepath.Join(git, "HEAD"), fsnotify.Write, true},
		{filepath.Join(git, "packed-refs"), fsnotify.Create, true},
		{filepath.Join(git, "refs", "heads", "main"), fsnotify.Create, true},
		{filepath.Join(git, "refs", "heads", "main"), fsnotify.Remove, true},
		{filepath.Join(git, "refs", "heads", "main.lock"), fsnotify.Create, false},
		{filepath.Join(git, "HEAD.lock"), fsnotify.Write, false},
		{filepath.Join(git, "index"), fsnotify.Write, false},
		{filepath.Join(git, "config"), fsnotify.Write, false},
		{filepath.Join(git, "refs", "heads", "main"), fsnotify.Chmod, false},
		{filepath.Join(git, "objects", "ab"), fsnotify.Create, false},
	}
	for _, tt := range tests {
		got := w.relevant(fsnotify.Event{Name: tt.path, Op: tt.op})
		if got != tt.want {
			t.Errorf("relevant(%s %s) = %v, want %v", w.rel(tt.path), tt.op, got, tt.want)
		}
	}
}

func TestWatcherDebounces(t *testing.T) {
	repo := gitTree(t)
	var calls atomic.Int32
	w, err := NewWatcher(repo, 50*time.Millisecond, func() { calls.Add(1) }, log.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	ref := filepath.Join(repo, ".git", "refs", "heads", "main")
	for i := range 5 {
		if err := os.WriteFile(ref, []byte{byte('a' + i), '\n'}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, func() bool { return calls.Load() >= 1 })
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("onChange called %d times, want 1", n)
	}

	// Refs in directories created after start are picked up.
	remote := filepath.Join(repo, ".git", "refs", "remotes", "origin")
	if err := os.MkdirAll(remote, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	before := calls.Load()
	if err := os.WriteFile(filepath.Join(remote, "main"), []byte("b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return calls.Load() > before })
}

func TestNewWatcherErrors(t *testing.T) {
	if _, err := NewWatcher(t.TempDir(), 0, func() {}, nil); !errors.Is(err, errors.ErrCodeNotARepository) {
		t.Errorf("plain dir: code = %v", errors.GetCode(err))
	}

	worktree := t.TempDir()
	if err := os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: /elsewhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWatcher(worktree, 0, func() {}, nil); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("worktree: code = %v", errors.GetCode(err))
	}
}
