package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptFileName is the user-editable prompt file inside the prompt directory.
const promptFileName = "prompts.yaml"

// PromptDefaults seeds a new prompt file and fills in templates it lacks.
type PromptDefaults struct {
	Templates    map[string]string
	QuickPrompts []string
}

// promptFile is the on-disk layout of prompts.yaml.
type promptFile struct {
	Templates    map[string]string `yaml:"templates"`
	QuickPrompts []string          `yaml:"quick_prompts,omitempty"`
}

// PromptStore loads LLM prompts from a user-editable YAML file.
//
// The store uses lazy initialisation: the file is only written when first
// accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	defaults  PromptDefaults
	cache     *promptFile
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.pidash/prompts/.
func NewPromptStore(promptDir string, defaults PromptDefaults) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".pidash", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		defaults:  defaults,
	}, nil
}

// Load returns the prompt template for the given name.
// Templates missing from the file fall back to the defaults; names unknown to
// both return domain.ErrNotFound.
func (s *PromptStore) Load(name string) (string, error) {
	f := s.file()
	if tmpl := strings.TrimSpace(f.Templates[name]); tmpl != "" {
		return tmpl, nil
	}
	if tmpl, ok := s.defaults.Templates[name]; ok {
		return tmpl, nil
	}
	return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
}

// QuickPrompts returns the suggested questions from the file, or the
// defaults when the file lists none.
func (s *PromptStore) QuickPrompts() []string {
	if qp := s.file().QuickPrompts; len(qp) > 0 {
		return qp
	}
	return s.defaults.QuickPrompts
}

// Reload clears the prompt cache, forcing a fresh read on next access.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Path returns the prompt file path.
func (s *PromptStore) Path() string {
	return filepath.Join(s.promptDir, promptFileName)
}

// file returns the parsed prompt file, reading it on first use after a
// Reload. Read or parse failures yield an empty file so defaults apply.
func (s *PromptStore) file() *promptFile {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	if s.cache != nil {
		defer s.mu.RUnlock()
		return s.cache
	}
	s.mu.RUnlock()

	f := &promptFile{}
	if s.initErr == nil {
		if loaded, err := s.read(); err == nil {
			f = loaded
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		s.cache = f
	}
	return s.cache
}

// initialise creates the prompt directory and writes the defaults when no
// prompt file exists. Called once via sync.Once.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, fs.ErrNotExist) {
		return
	}

	data, err := yaml.Marshal(promptFile{
		Templates:    s.defaults.Templates,
		QuickPrompts: s.defaults.QuickPrompts,
	})
	if err != nil {
		s.initErr = fmt.Errorf("encode default prompts: %w", err)
		return
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		s.initErr = fmt.Errorf("create default prompts: %w", err)
	}
}

func (s *PromptStore) read() (*promptFile, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, err
	}
	var f promptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path(), err)
	}
	return &f, nil
}
