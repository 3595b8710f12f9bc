package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pidash/internal/core/domain"
)

type stubSecrets map[string]string

func (s stubSecrets) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

type stubValidator struct {
	got *domain.LLMSettings
	err error
}

func (v *stubValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	v.got = cfg
	return v.err
}

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, nil)

	got, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *got)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil, nil)

	s := domain.DefaultSettings()
	s.Source.Backend = domain.SourceBackendExcel
	s.Source.WorkbookPath = "/data/book.xlsx"
	s.LLM = domain.LLMSettings{Provider: domain.AIProviderOpenAI, Model: "gpt-4o", APIKey: "sk-test"}
	s.Knowledge.DocumentPath = "/data/pmbok.pdf"
	s.Cache.TTL = 90 * time.Second
	s.Cache.Persist = false
	require.NoError(t, svc.Save(&s))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, s, *got)
}

func TestSettingsService_APIKeyFromSecrets(t *testing.T) {
	store := memory.NewConfigStore()
	secrets := stubSecrets{"OPENAI_API_KEY": "from-env"}
	svc := NewSettingsService(store, nil, secrets)

	require.NoError(t, svc.SetLLMProvider(domain.AIProviderOpenAI, "", ""))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-env", got.LLM.APIKey)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderOpenAI], got.LLM.Model)
	assert.Empty(t, store.GetString(keyLLMAPIKey), "environment keys are not persisted")
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, nil)

	err := svc.SetLLMProvider(domain.AIProviderAnthropic, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.SetLLMProvider("gemini", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.SetLLMProvider(domain.AIProviderOllama, "", ""))
	got, _ := svc.Get()
	assert.Equal(t, "http://localhost:11434", got.LLM.BaseURL)
	assert.False(t, got.LLM.Reasoning)

	require.NoError(t, svc.SetLLMProvider(domain.AIProviderOpenRouter, "x-ai/grok", "or-key"))
	got, _ = svc.Get()
	assert.Empty(t, got.LLM.BaseURL)
	assert.True(t, got.LLM.Reasoning)
	assert.Equal(t, "x-ai/grok", got.LLM.Model)
	assert.Equal(t, "or-key", got.LLM.APIKey)
}

func TestSettingsService_SetSource(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, nil)

	err := svc.SetSource(domain.SourceSettings{Backend: domain.SourceBackendSheets})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.SetSource(domain.SourceSettings{
		Backend:       domain.SourceBackendSheets,
		SpreadsheetID: "sheet-123",
	}))
	got, _ := svc.Get()
	assert.Equal(t, domain.SourceBackendSheets, got.Source.Backend)
	assert.Equal(t, "sheet-123", got.Source.SpreadsheetID)
	assert.Equal(t, domain.DefaultWorkbook, got.Source.WorkbookPath)
	assert.Equal(t, "Project", got.Source.ProjectSheet)
	require.NoError(t, svc.Validate())
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil, nil)
	require.NoError(t, svc.Validate())

	require.NoError(t, store.Set(keyLLMProvider, "openai"))
	assert.Error(t, svc.Validate(), "openai without key")
}

func TestSettingsService_ValidateLLMConfig(t *testing.T) {
	store := memory.NewConfigStore()
	v := &stubValidator{err: domain.ErrModelUnavailable}
	svc := NewSettingsService(store, v, nil)
	require.NoError(t, svc.SetLLMProvider(domain.AIProviderOllama, "llama3", ""))

	err := svc.ValidateLLMConfig()

	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	require.NotNil(t, v.got)
	assert.Equal(t, "llama3", v.got.Model)

	assert.NoError(t, NewSettingsService(store, nil, nil).ValidateLLMConfig())
}
