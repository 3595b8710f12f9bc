// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: YAML prompt templates and quick prompts
//   - SecretStore: environment and .env file lookup for API keys
package file
