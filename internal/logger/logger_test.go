package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output to a buffer for the duration of the test.
func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name  string
		log   func()
		want  string
		quiet string
	}{
		{
			name: "debug",
			log:  func() { Debug("chunks: %d", 4) },
			want: "[DEBUG] chunks: 4\n",
		},
		{
			name: "info",
			log:  func() { Info("indexed %s", "a.txt") },
			want: "[INFO] indexed a.txt\n",
		},
		{
			name: "warn",
			log:  func() { Warn("embedder fell back") },
			want: "[WARN] embedder fell back\n",
		},
		{
			name: "section",
			log:  func() { Section("Query") },
			want: "\n=== Query ===\n",
		},
		{
			name:  "error is printed when quiet",
			log:   func() { Error("upload failed: %s", "boom") },
			want:  "[ERROR] upload failed: boom\n",
			quiet: "[ERROR] upload failed: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())

			buf = capture(t, false)
			tt.log()
			assert.Equal(t, tt.quiet, buf.String())
		})
	}
}

func TestWithTrace(t *testing.T) {
	buf := capture(t, true)

	WithTrace("0123456789abcdef").Debug("%s -> %s", "Coordinator", "IngestionAgent")
	WithTrace("abc").Info("ready")
	WithTrace("").Warn("no trace")

	assert.Equal(t,
		"[DEBUG] trace=01234567 Coordinator -> IngestionAgent\n"+
			"[INFO] trace=abc ready\n"+
			"[WARN] trace= no trace\n",
		buf.String())
}

func TestWithTrace_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	WithTrace("abc").Debug("quiet")

	assert.Zero(t, buf.Len())
}

func TestConcurrentLinesDoNotInterleave(t *testing.T) {
	buf := capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			WithTrace("trace").Debug("line %d", i)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 20)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[DEBUG] trace=trace line "), line)
	}
}
