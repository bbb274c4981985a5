package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) handle(_ context.Context, paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

// startWatcher runs w until the test ends and waits for Run to return.
func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
}

// newIdle creates a watcher that the test never runs.
func newIdle(t *testing.T, dir string, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(dir, func(context.Context, []string) {}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestNew_Validation(t *testing.T) {
	_, err := New(t.TempDir(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(file, func(context.Context, []string) {})
	assert.Error(t, err)
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "inbox")

	w := newIdle(t, dir)

	assert.Equal(t, dir, w.Dir())
	assert.DirExists(t, dir)
	assert.Equal(t, DefaultSettle, w.settle)
}

func TestWithSettle_IgnoresNonPositive(t *testing.T) {
	w := newIdle(t, t.TempDir(), WithSettle(0))

	assert.Equal(t, DefaultSettle, w.settle)
}

func TestWatcher_DeliversNewFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w, err := New(dir, rec.handle,
		WithSettle(20*time.Millisecond),
		WithFilter(func(p string) bool { return filepath.Ext(p) == ".txt" }),
	)
	require.NoError(t, err)
	startWatcher(t, w)

	want := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(want, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".partial.txt"), []byte("tmp"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	require.Eventually(t, func() bool {
		return len(rec.all()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	// Give stray events time to settle, then check nothing else arrived.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{want}, rec.all())
}

func TestWatcher_BatchesBurst(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w, err := New(dir, rec.handle, WithSettle(200*time.Millisecond))
	require.NoError(t, err)
	startWatcher(t, w)

	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.batches) == 1
	}, 2*time.Second, 10*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{a, b}, rec.batches[0])
}

func TestWatcher_ReportsFilesCreatedBeforeRun(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w, err := New(dir, rec.handle, WithSettle(20*time.Millisecond))
	require.NoError(t, err)

	early := filepath.Join(dir, "early.txt")
	require.NoError(t, os.WriteFile(early, []byte("dropped right away"), 0o644))
	startWatcher(t, w)

	require.Eventually(t, func() bool {
		return len(rec.all()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{early}, rec.all())
}

func TestWatcher_IgnoresFilesPresentBeforeNew(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("x"), 0o644))
	rec := &recorder{}
	w, err := New(dir, rec.handle, WithSettle(20*time.Millisecond))
	require.NoError(t, err)
	startWatcher(t, w)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.all())
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), func(context.Context, []string) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, w.Run(ctx))
}

func TestAccept(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	w := newIdle(t, dir)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"chmod", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: file, Op: fsnotify.Remove}, false},
		{"missing file", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: dir, Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := w.accept(tt.event)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden("/uploads/.crdownload"))
	assert.True(t, isHidden(".env"))
	assert.False(t, isHidden("/uploads/report.pdf"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
}

type stubChat struct {
	uploaded [][]string
	err      error
}

func (s *stubChat) Upload(_ context.Context, paths []string) (domain.UploadReport, error) {
	s.uploaded = append(s.uploaded, paths)
	if s.err != nil {
		return domain.UploadFailed(s.err), s.err
	}
	return domain.UploadReport{Status: domain.UploadStatusSuccess, Files: len(paths)}, nil
}

func (s *stubChat) Query(context.Context, string) (domain.Answer, error) {
	return domain.Answer{}, nil
}

func (s *stubChat) Ready() bool { return len(s.uploaded) > 0 }

func (s *stubChat) Stats() domain.Stats { return domain.Stats{} }

func TestUploadHandler(t *testing.T) {
	chat := &stubChat{}
	var gotPaths []string
	var gotReport domain.UploadReport

	h := UploadHandler(chat, func(paths []string, r domain.UploadReport, err error) {
		assert.NoError(t, err)
		gotPaths, gotReport = paths, r
	})
	h(context.Background(), []string{"a.txt", "b.txt"})

	assert.Equal(t, [][]string{{"a.txt", "b.txt"}}, chat.uploaded)
	assert.Equal(t, []string{"a.txt", "b.txt"}, gotPaths)
	assert.Equal(t, 2, gotReport.Files)
}

func TestUploadHandler_ReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	chat := &stubChat{err: boom}
	var gotErr error

	UploadHandler(chat, func(_ []string, r domain.UploadReport, err error) {
		gotErr = err
		assert.Equal(t, domain.UploadStatusError, r.Status)
	})(context.Background(), []string{"x.txt"})

	assert.ErrorIs(t, gotErr, boom)
}

func TestUploadHandler_NilReport(t *testing.T) {
	chat := &stubChat{}

	assert.NotPanics(t, func() {
		UploadHandler(chat, nil)(context.Background(), []string{"x.txt"})
	})
	assert.Len(t, chat.uploaded, 1)
}
