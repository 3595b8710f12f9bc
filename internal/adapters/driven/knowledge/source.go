package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.KnowledgeSource = (*Source)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs the command and returns its stdout.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Config describes the knowledge document.
type Config struct {
	// Path is a .pdf, .txt or .md file.
	Path string

	// ChunkSize is the chunk length in characters (default 1200).
	ChunkSize int

	// Runner executes pdftotext. Defaults to ExecRunner.
	Runner CommandRunner
}

// Source serves chunks of a knowledge document. Chunks are cached until the
// file's modification time or size changes, or Invalidate is called.
type Source struct {
	cfg Config

	mu      sync.Mutex
	chunks  []string
	modTime time.Time
	size    int64
	loaded  bool
}

// NewSource creates a knowledge source.
func NewSource(cfg Config) *Source {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = domain.DefaultChunkSize
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	return &Source{cfg: cfg}
}

// Chunks returns the document's chunks in order.
func (s *Source) Chunks(ctx context.Context) ([]string, error) {
	if s.cfg.Path == "" {
		return nil, nil
	}
	info, err := os.Stat(s.cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: knowledge document: %v", domain.ErrSourceUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.chunks, nil
	}

	text, err := s.extract(ctx)
	if err != nil {
		return nil, err
	}
	s.chunks = Chunk(text, s.cfg.ChunkSize)
	s.modTime = info.ModTime()
	s.size = info.Size()
	s.loaded = true

	logger.Debug("knowledge: %d chunks from %s", len(s.chunks), s.cfg.Path)
	return s.chunks, nil
}

// Invalidate drops cached chunks.
func (s *Source) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.loaded = false
}

// Path returns the document path.
func (s *Source) Path() string {
	return s.cfg.Path
}

func (s *Source) extract(ctx context.Context) (string, error) {
	switch strings.ToLower(filepath.Ext(s.cfg.Path)) {
	case ".pdf":
		out, err := s.cfg.Runner.Output(ctx, "pdftotext", "-enc", "UTF-8", s.cfg.Path, "-")
		if err != nil {
			return "", fmt.Errorf("%w: pdftotext %s: %v", domain.ErrSourceUnavailable, s.cfg.Path, err)
		}
		return joinPages(string(out)), nil
	case ".txt", ".md", "":
		data, err := os.ReadFile(s.cfg.Path)
		if err != nil {
			return "", fmt.Errorf("%w: knowledge document: %v", domain.ErrSourceUnavailable, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: knowledge document %s", domain.ErrUnsupportedType, s.cfg.Path)
	}
}

// joinPages turns pdftotext's form-feed page breaks into newlines and drops
// empty pages.
func joinPages(out string) string {
	pages := strings.Split(out, "\f")
	kept := pages[:0]
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
