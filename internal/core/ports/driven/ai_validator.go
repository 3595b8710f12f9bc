package driven

import "github.com/custodia-labs/pidash/internal/core/domain"

// AIConfigValidator validates LLM provider configurations by testing
// connectivity to the provider.
type AIConfigValidator interface {
	// ValidateLLM validates an LLM configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error
}

// SecretStore resolves secrets such as API keys outside the config file.
type SecretStore interface {
	// Lookup returns the secret for key and whether it was found.
	Lookup(key string) (string, bool)
}
