package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

type fakeRunner struct {
	out   string
	err   error
	calls int
	args  []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls++
	f.args = append([]string{name}, args...)
	return []byte(f.out), f.err
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"empty", "", 4, nil},
		{"exact", "abcdefgh", 4, []string{"abcd", "efgh"}},
		{"remainder", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"trims and drops blank", "ab  \n    cd", 4, []string{"ab", "cd"}},
		{"multibyte", "กขคงจฉ", 4, []string{"กขคง", "จฉ"}},
		{"zero size", "abc", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunk(tt.text, tt.size))
		})
	}
}

func TestChunk_DefaultSize(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := Chunk(text, domain.DefaultChunkSize)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1200)
	assert.Len(t, chunks[2], 100)
}

func TestSource_MissingDocument(t *testing.T) {
	src := NewSource(Config{Path: filepath.Join(t.TempDir(), "absent.pdf")})
	chunks, err := src.Chunks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = NewSource(Config{}).Chunks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSource_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("plan scope schedule"), 0o600))

	src := NewSource(Config{Path: path, ChunkSize: 10})
	chunks, err := src.Chunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"plan scope", "schedule"}, chunks)
}

func TestSource_PDFUsesRunnerAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	runner := &fakeRunner{out: "page one\f\fpage two\f"}
	src := NewSource(Config{Path: path, ChunkSize: 100, Runner: runner})

	chunks, err := src.Chunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"page one\npage two"}, chunks)
	assert.Equal(t, []string{"pdftotext", "-enc", "UTF-8", path, "-"}, runner.args)

	_, err = src.Chunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, runner.calls)

	src.Invalidate()
	_, err = src.Chunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, runner.calls)
}

func TestSource_ReloadsWhenFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o600))
	src := NewSource(Config{Path: path})

	chunks, err := src.Chunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, chunks)

	require.NoError(t, os.WriteFile(path, []byte("second version"), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	chunks, err = src.Chunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"second version"}, chunks)
}

func TestSource_ExtractionFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	src := NewSource(Config{Path: path, Runner: &fakeRunner{err: errors.New("not installed")}})
	_, err := src.Chunks(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestSource_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := NewSource(Config{Path: path}).Chunks(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
