package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

var errEmptyPrompt = errors.New("prompt file is empty")

// builtinPrompts seed the prompt directory and back every failed load.
var builtinPrompts = map[string]string{
	driven.PromptLeadsSystem: domain.DefaultSystemInstruction,
}

const promptReadme = `# MapScraperPro Prompts

This directory contains the prompts sent to the retrieval model.

## Files

- ` + "`leads_system.txt`" + ` - System instruction for every search and load-more

## Customisation

Edit the file to change how the model formats results. Changes take effect
on the next command or after restarting the TUI.

The parser expects a Markdown table. Keep a header row whose labels contain
name, address, rating, review, web and phone so columns map to known fields.
Deleting the file or leaving it blank restores the built-in instruction.
`

// PromptStore serves the retrieval system instruction from
// <dir>/<name>.txt so users can tune the table format without rebuilding.
// The directory is seeded on first Load, never in the constructor.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]string
}

// NewPromptStore creates a store rooted at dir, or ~/.mapscraper/prompts
// when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named prompt. Missing, blank or unreadable files fall back
// to the built-in text; names without a built-in are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })

	builtin, known := builtinPrompts[name]
	if s.seedErr != nil {
		if known {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prompt, ok := s.cache[name]; ok {
		return prompt, nil
	}
	prompt, err := s.read(name)
	if err != nil {
		if known {
			return builtin, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached prompts so edits on disk are picked up.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errEmptyPrompt
	}
	return prompt, nil
}

// seed creates the directory, the built-in prompt files and a README,
// leaving existing files untouched.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for name, content := range builtinPrompts {
		if err := writeIfMissing(filepath.Join(s.dir, name+".txt"), content); err != nil {
			return fmt.Errorf("create default prompt %q: %w", name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme)
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}
