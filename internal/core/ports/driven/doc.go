// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TabularSource: Whole-table snapshots of the project and invoice tables, plus row append
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ColumnMetaSource: Field glossary. Without it, prompts carry no glossary.
//   - KnowledgeSource: Domain-knowledge chunks. Without it, the corpus has no knowledge documents.
//   - LLMService: Language model. Without it, asking fails with ErrModelUnavailable.
//   - SnapshotCache: Persisted snapshots. Without it, only the in-memory TTL cache applies.
//   - HistoryStore: Ask history. Without it, answers are not recorded.
//   - PromptStore: Prompt overrides. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
