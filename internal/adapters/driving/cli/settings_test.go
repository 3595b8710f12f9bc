package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShowCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenRouter,
		Model:    "x-ai/grok-4.1-fast:free",
		APIKey:   "sk-or-1234567890",
	}

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "SQLite warehouse")
	assert.Contains(t, out, "OpenRouter (cloud)")
	assert.Contains(t, out, "sk-o...7890")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_Invalid(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.validateErr = errors.New("LLM provider is not fully configured")

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "not fully configured")
	assert.Contains(t, out, "pidash settings wizard")
}

func TestSettingsSourceCmd_Flags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "settings", "source",
		"--backend", "gsheets", "--spreadsheet-id", "sheet-1", "--workbook", "book.xlsx")

	require.NoError(t, err)
	require.NotNil(t, ts.settings.source)
	assert.Equal(t, domain.SourceBackendSheets, ts.settings.source.Backend)
	assert.Equal(t, "sheet-1", ts.settings.source.SpreadsheetID)
	assert.Equal(t, "book.xlsx", ts.settings.source.WorkbookPath)
}

func TestSettingsSourceCmd_Interactive(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "2\ndata/book.xlsx\n", "settings", "source")

	require.NoError(t, err)
	require.NotNil(t, ts.settings.source)
	assert.Equal(t, domain.SourceBackendExcel, ts.settings.source.Backend)
	assert.Equal(t, "data/book.xlsx", ts.settings.source.WorkbookPath)
}

func TestSettingsLLMCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "3\n\nsk-test-key\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, ts.settings.provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderOpenAI], ts.settings.model)
	assert.Equal(t, "sk-test-key", ts.settings.apiKey)
	assert.Contains(t, out, "OK")
}

func TestSettingsLLMCmd_ValidationFails(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.llmErr = domain.ErrModelUnavailable

	out, err := execute(t, "1\nllama3\n", "settings", "llm")

	require.Error(t, err)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.provider)
	assert.Equal(t, "llama3", ts.settings.model)
	assert.Contains(t, out, "FAILED")
}

func TestSettingsKnowledgeCmd(t *testing.T) {
	t.Run("sets existing path", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()
		path := filepath.Join(t.TempDir(), "manual.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		_, err := execute(t, "", "settings", "knowledge", path)

		require.NoError(t, err)
		require.NotNil(t, ts.settings.knowledge)
		assert.Equal(t, path, *ts.settings.knowledge)
	})

	t.Run("missing file", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()

		_, err := execute(t, "", "settings", "knowledge", filepath.Join(t.TempDir(), "nope.pdf"))

		require.Error(t, err)
		assert.Nil(t, ts.settings.knowledge)
	})

	t.Run("clear", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(t, "", "settings", "knowledge", "--clear")

		require.NoError(t, err)
		require.NotNil(t, ts.settings.knowledge)
		assert.Empty(t, *ts.settings.knowledge)
		assert.Contains(t, out, "cleared")
	})
}

func TestSettingsWizardCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	// memory source, ollama with default model, no knowledge document
	out, err := execute(t, "4\n1\n\n\n", "settings", "wizard")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceBackendMemory, ts.settings.source.Backend)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.provider)
	assert.Nil(t, ts.settings.knowledge)
	assert.Contains(t, out, "Configuration Complete!")
}
