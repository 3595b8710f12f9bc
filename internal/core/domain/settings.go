package domain

import "time"

const unknownDescription = "Unknown"

// SourceBackend identifies where business tables are read from.
type SourceBackend string

// Available source backends.
const (
	// SourceBackendSQLite reads the local warehouse tables.
	SourceBackendSQLite SourceBackend = "sqlite"

	// SourceBackendExcel reads a local workbook.
	SourceBackendExcel SourceBackend = "excel"

	// SourceBackendSheets reads a Google spreadsheet, falling back to the workbook.
	SourceBackendSheets SourceBackend = "gsheets"

	// SourceBackendMemory keeps tables in process. Used for demos and tests.
	SourceBackendMemory SourceBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b SourceBackend) IsValid() bool {
	switch b {
	case SourceBackendSQLite, SourceBackendExcel, SourceBackendSheets, SourceBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b SourceBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b SourceBackend) Description() string {
	switch b {
	case SourceBackendSQLite:
		return "SQLite warehouse (local)"
	case SourceBackendExcel:
		return "Excel workbook (local)"
	case SourceBackendSheets:
		return "Google Sheets (cloud, workbook fallback)"
	case SourceBackendMemory:
		return "In-memory (demo)"
	default:
		return unknownDescription
	}
}

// AllSourceBackends returns all available source backends.
func AllSourceBackends() []SourceBackend {
	return []SourceBackend{
		SourceBackendSQLite,
		SourceBackendExcel,
		SourceBackendSheets,
		SourceBackendMemory,
	}
}

// AIProvider identifies a language model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenRouter is the OpenRouter OpenAI-compatible API.
	AIProviderOpenRouter AIProvider = "openrouter"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenRouter, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenRouter || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// APIKeyEnv returns the environment variable holding the provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenRouter:
		return "OpenRouter (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenRouter,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:     "gemma3",
		AIProviderOpenRouter: "x-ai/grok-4.1-fast:free",
		AIProviderOpenAI:     "gpt-4o-mini",
		AIProviderAnthropic:  "claude-3-5-sonnet-latest",
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// Reasoning asks OpenRouter models to think before answering.
	Reasoning bool
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SourceSettings holds business table source configuration.
type SourceSettings struct {
	Backend SourceBackend

	// WorkbookPath is the Excel file used by the excel backend and as the
	// gsheets fallback.
	WorkbookPath string

	// SpreadsheetID is the Google spreadsheet to read.
	SpreadsheetID string

	// CredentialsPath is a service account JSON key for Google Sheets.
	CredentialsPath string

	// ProjectSheet and InvoiceSheet name the sheets or tables to read.
	ProjectSheet string
	InvoiceSheet string
}

// KnowledgeSettings holds domain-knowledge document configuration.
type KnowledgeSettings struct {
	// DocumentPath is the PDF or text file chunked into knowledge.
	DocumentPath string

	// ChunkSize is the chunk length in characters.
	ChunkSize int
}

// CacheSettings controls snapshot caching.
type CacheSettings struct {
	// TTL is how long a loaded snapshot is reused.
	TTL time.Duration

	// Persist stores snapshots in the local database between runs.
	Persist bool
}

// Settings holds all application settings.
type Settings struct {
	Source    SourceSettings
	LLM       LLMSettings
	Knowledge KnowledgeSettings
	Cache     CacheSettings
}

// Setting defaults.
const (
	DefaultChunkSize = 1200
	DefaultCacheTTL  = 5 * time.Minute
	DefaultWorkbook  = "Project_Invoice.xlsx"
)

// DefaultSettings returns settings with sensible defaults.
// The LLM is left unconfigured until the user picks a provider.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceSettings{
			Backend:      SourceBackendSQLite,
			WorkbookPath: DefaultWorkbook,
			ProjectSheet: string(TableProject),
			InvoiceSheet: string(TableInvoice),
		},
		LLM: LLMSettings{},
		Knowledge: KnowledgeSettings{
			ChunkSize: DefaultChunkSize,
		},
		Cache: CacheSettings{
			TTL:     DefaultCacheTTL,
			Persist: true,
		},
	}
}
