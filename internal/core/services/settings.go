package services

import (
	"fmt"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySourceBackend     = "source.backend"
	keySourceWorkbook    = "source.workbook"
	keySourceSpreadsheet = "source.spreadsheet_id"
	keySourceCredentials = "source.credentials"
	keySourceProject     = "source.project_sheet"
	keySourceInvoice     = "source.invoice_sheet"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMReasoning      = "llm.reasoning"
	keyKnowledgeDocument = "knowledge.document"
	keyKnowledgeChunk    = "knowledge.chunk_size"
	keyCacheTTL          = "cache.ttl"
	keyCachePersist      = "cache.persist"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	secrets     driven.SecretStore
}

// NewSettingsService creates a new settings service.
// aiValidator and secrets may be nil.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	secrets driven.SecretStore,
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		secrets:     secrets,
	}
}

// Get retrieves current application settings.
// An LLM API key missing from the config is looked up in the secret store
// under the provider's environment variable name.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Source: domain.SourceSettings{
			Backend:         s.getBackend(defaults.Source.Backend),
			WorkbookPath:    s.getString(keySourceWorkbook, defaults.Source.WorkbookPath),
			SpreadsheetID:   s.configStore.GetString(keySourceSpreadsheet),
			CredentialsPath: s.configStore.GetString(keySourceCredentials),
			ProjectSheet:    s.getString(keySourceProject, defaults.Source.ProjectSheet),
			InvoiceSheet:    s.getString(keySourceInvoice, defaults.Source.InvoiceSheet),
		},
		LLM: domain.LLMSettings{
			Provider:  s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:     s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:   s.configStore.GetString(keyLLMBaseURL), // No default - empty uses the provider endpoint
			APIKey:    s.configStore.GetString(keyLLMAPIKey),
			Reasoning: s.getBool(keyLLMReasoning, defaults.LLM.Reasoning),
		},
		Knowledge: domain.KnowledgeSettings{
			DocumentPath: s.configStore.GetString(keyKnowledgeDocument),
			ChunkSize:    s.getInt(keyKnowledgeChunk, defaults.Knowledge.ChunkSize),
		},
		Cache: domain.CacheSettings{
			TTL:     defaults.Cache.TTL,
			Persist: s.getBool(keyCachePersist, defaults.Cache.Persist),
		},
	}
	if ttl := s.configStore.GetDuration(keyCacheTTL); ttl > 0 {
		settings.Cache.TTL = ttl
	}

	if settings.LLM.APIKey == "" && s.secrets != nil {
		if env := settings.LLM.Provider.APIKeyEnv(); env != "" {
			if key, ok := s.secrets.Lookup(env); ok {
				settings.LLM.APIKey = key
			}
		}
	}
	if settings.LLM.Model == "" && settings.LLM.Provider.IsValid() {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keySourceBackend, settings.Source.Backend.String()},
		{keySourceWorkbook, settings.Source.WorkbookPath},
		{keySourceSpreadsheet, settings.Source.SpreadsheetID},
		{keySourceCredentials, settings.Source.CredentialsPath},
		{keySourceProject, settings.Source.ProjectSheet},
		{keySourceInvoice, settings.Source.InvoiceSheet},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMReasoning, settings.LLM.Reasoning},
		{keyKnowledgeDocument, settings.Knowledge.DocumentPath},
		{keyKnowledgeChunk, settings.Knowledge.ChunkSize},
		{keyCacheTTL, settings.Cache.TTL.String()},
		{keyCachePersist, settings.Cache.Persist},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keys that came from the environment are not written back.
	if settings.LLM.APIKey != "" && !s.fromSecrets(settings.LLM) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetSource configures the tabular source backend.
func (s *SettingsService) SetSource(source domain.SourceSettings) error {
	if !source.Backend.IsValid() {
		return fmt.Errorf("invalid source backend %q: %w", source.Backend, domain.ErrInvalidInput)
	}
	if source.Backend == domain.SourceBackendSheets && source.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID required for %s: %w", source.Backend, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	defaults := domain.DefaultSettings().Source
	if source.WorkbookPath == "" {
		source.WorkbookPath = settings.Source.WorkbookPath
	}
	if source.ProjectSheet == "" {
		source.ProjectSheet = defaults.ProjectSheet
	}
	if source.InvoiceSheet == "" {
		source.InvoiceSheet = defaults.InvoiceSheet
	}
	settings.Source = source

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider %q: %w", provider, domain.ErrInvalidInput)
	}

	if provider.RequiresAPIKey() && apiKey == "" && !s.hasSecret(provider) {
		return fmt.Errorf("API key required for %s (or set %s): %w", provider, provider.APIKeyEnv(), domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.Reasoning = provider == domain.AIProviderOpenRouter
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetKnowledgeDocument sets the domain-knowledge document path.
// An empty path disables knowledge.
func (s *SettingsService) SetKnowledgeDocument(path string) error {
	return s.configStore.Set(keyKnowledgeDocument, path)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Source.Backend.IsValid() {
		return fmt.Errorf("invalid source backend: %s", settings.Source.Backend)
	}
	if settings.Source.Backend == domain.SourceBackendSheets && settings.Source.SpreadsheetID == "" {
		return fmt.Errorf("source %q requires a spreadsheet ID", settings.Source.Backend.Description())
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not fully configured", settings.LLM.Provider.Description())
	}
	if settings.Knowledge.ChunkSize <= 0 {
		return fmt.Errorf("knowledge chunk size must be positive")
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.SourceBackend) domain.SourceBackend {
	backend := domain.SourceBackend(s.configStore.GetString(keySourceBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) hasSecret(provider domain.AIProvider) bool {
	if s.secrets == nil || provider.APIKeyEnv() == "" {
		return false
	}
	_, ok := s.secrets.Lookup(provider.APIKeyEnv())
	return ok
}

func (s *SettingsService) fromSecrets(llm domain.LLMSettings) bool {
	if s.configStore.GetString(keyLLMAPIKey) != "" || s.secrets == nil {
		return false
	}
	key, ok := s.secrets.Lookup(llm.Provider.APIKeyEnv())
	return ok && key == llm.APIKey
}
