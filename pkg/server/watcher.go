package server

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/gitxmas/pkg/errors"
	"github.com/matzehuels/gitxmas/pkg/gitlog"
	"github.com/matzehuels/gitxmas/pkg/observability"
)

// DefaultDebounce is how long the watcher waits for ref updates to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports ref changes of a repository: HEAD, packed-refs and
// everything below refs/. Bursts of events are coalesced into one callback.
type Watcher struct {
	repo     string
	gitDir   string
	debounce time.Duration
	onChange func()
	logger   *log.Logger

	fw        *fsnotify.Watcher
	closeOnce sync.Once
}

// NewWatcher watches repo and calls onChange after each settled burst of
// ref updates. A zero debounce means DefaultDebounce.
func NewWatcher(repo string, debounce time.Duration, onChange func(), logger *log.Logger) (*Watcher, error) {
	gitDir, err := gitlog.GitDir(repo)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(gitDir); err == nil && !fi.IsDir() {
		return nil, errors.New(errors.ErrCodeUnsupported, "watching worktrees (.git file) is not supported")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	w := &Watcher{
		repo:     repo,
		gitDir:   gitDir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		fw:       fw,
	}

	// fsnotify is not recursive: watch .git itself and every refs directory.
	if err := fw.Add(gitDir); err != nil {
		fw.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "watch %s", gitDir)
	}
	if err := w.addTree(filepath.Join(gitDir, "refs")); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", root)
	}
	return nil
}

// Run delivers change callbacks until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && w.isRef(event.Name) {
					_ = w.addTree(event.Name)
				}
			}
			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("ref change", "path", w.rel(event.Name), "op", event.Op.String())
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				observability.Server().OnRepoChange(ctx, w.repo)
				w.onChange()
			})
			mu.Unlock()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() { err = w.fw.Close() })
	return err
}

// relevant keeps writes, creates, renames and removes of HEAD, packed-refs
// and refs, and drops git's lock files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}
	switch w.rel(event.Name) {
	case "HEAD", "packed-refs":
		return true
	}
	return w.isRef(event.Name)
}

func (w *Watcher) isRef(path string) bool {
	rel := w.rel(path)
	return rel == "refs" || strings.HasPrefix(rel, "refs"+string(filepath.Separator))
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.gitDir, path)
	if err != nil {
		return path
	}
	return rel
}
