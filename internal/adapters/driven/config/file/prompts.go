package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves prompt templates from <dir>/<name>.txt.
//
// The directory is seeded with the built-in answer template and a README on
// the first Load. A prompt file is re-read whenever its size or modification
// time changes, so an edited answer.txt applies to the next question of a
// running chat session.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]promptFile
}

// promptFile is a cached template and the file state it was read from.
type promptFile struct {
	text    string
	size    int64
	modTime time.Time
}

// builtinPrompts seed the prompt directory and stand in when a file is missing.
var builtinPrompts = map[string]string{
	driven.PromptAnswer: `Answer the question based on the context below:

%s

Question: %s
Answer:`,
}

const promptsReadme = `# ragchat Prompts

This directory contains the prompt used to answer questions.

## Files

- ` + "`answer.txt`" + ` - Grounded answer prompt

## Customisation

Edit the file to change how answers are phrased. Edits are picked up on the
next question, including in a running chat session. Delete the file to
restore the built-in prompt on the next start.

## Format Placeholders

The prompt takes two ` + "`%s`" + ` placeholders: the retrieved context first,
then the question. Keep both, in that order; a prompt without exactly two is
ignored in favour of the built-in one.
`

// NewPromptStore creates a prompt store rooted at dir, or HomeDir()/prompts
// when dir is empty. No files are touched until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, "prompts")
	}

	return &PromptStore{
		dir:   dir,
		cache: make(map[string]promptFile),
	}, nil
}

// Load returns the template called name. Known prompts fall back to their
// built-in text when the file cannot be read.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)

	builtin, known := builtinPrompts[name]
	if s.seedErr != nil {
		if known {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	text, err := s.read(name)
	if err != nil {
		if known {
			logger.Debug("prompt %s: %v, using built-in", name, err)
			return builtin, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return text, nil
}

// Reload drops every cached template.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]promptFile)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// read returns the trimmed file contents, reusing the cached copy while the
// file is unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[name]; ok && c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
		return c.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	s.cache[name] = promptFile{text: text, size: info.Size(), modTime: info.ModTime()}
	return text, nil
}

// seed creates the directory, the built-in prompt files and the README.
// Existing files are left alone.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, text := range builtinPrompts {
		if err := writeIfMissing(s.path(name), text); err != nil {
			s.seedErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}
	if err := writeIfMissing(filepath.Join(s.dir, "README.md"), promptsReadme); err != nil {
		s.seedErr = fmt.Errorf("create prompts README: %w", err)
	}
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}
