// Package watcher ingests files dropped into an uploads directory.
// It is a driving adapter: file system events become Upload calls on the
// chat service.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// DefaultSettle is how long the watcher waits after the last event before
// handing a batch of files on. Copies usually emit several writes per file.
const DefaultSettle = 500 * time.Millisecond

// ErrNotDirectory is returned when the watched path is not a directory.
var ErrNotDirectory = errors.New("watcher: not a directory")

// Handler receives a batch of new or changed files. Batches are delivered
// one at a time from the watcher goroutine.
type Handler func(ctx context.Context, paths []string)

// Watcher collects created and written files in one directory and hands
// them to a Handler in settled batches.
type Watcher struct {
	dir     string
	handler Handler
	filter  func(path string) bool
	settle  time.Duration
	fsw     *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter only passes on files for which f returns true.
func WithFilter(f func(path string) bool) Option {
	return func(w *Watcher) {
		w.filter = f
	}
}

// WithSettle sets the quiet period before a batch is delivered.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New creates a watcher for dir. The directory is created if missing and is
// registered before New returns, so files created afterwards are reported by
// Run even if Run starts later. Call Close if Run is never started.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating watch directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("checking watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Debug("watching %s for new documents", dir)

	w := &Watcher{
		dir:     dir,
		handler: handler,
		filter:  func(string) bool { return true },
		settle:  DefaultSettle,
		fsw:     fsw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close stops watching. Run closes the watcher itself when it returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run delivers batches until ctx is cancelled, then closes the watcher.
// Files present before New are not reported; files created or written
// after New returned are. Run must be called at most once.
func (w *Watcher) Run(ctx context.Context) error {
	fsw := w.fsw
	defer fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, keep := w.accept(event); keep {
				pending[path] = struct{}{}
				timer.Reset(w.settle)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error on %s: %v", w.dir, err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)

			logger.Debug("detected %d new documents", len(batch))
			w.handler(ctx, batch)
		}
	}
}

// accept reports whether an event names a regular, visible file that should
// be ingested.
func (w *Watcher) accept(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) || !w.filter(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// isHidden reports whether the file name starts with a dot. Editors and
// browsers write partial downloads as hidden temporaries.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// UploadHandler returns a Handler that uploads each batch through chat and
// passes the outcome to report, which may be nil.
func UploadHandler(
	chat driving.ChatService,
	report func(paths []string, r domain.UploadReport, err error),
) Handler {
	return func(ctx context.Context, paths []string) {
		r, err := chat.Upload(ctx, paths)
		if err != nil {
			logger.Warn("upload of %d watched files failed: %v", len(paths), err)
		}
		if report != nil {
			report(paths, r, err)
		}
	}
}
