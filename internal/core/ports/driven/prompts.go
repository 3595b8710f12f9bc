package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return domain.ErrNotFound.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptSystem is the assistant's system prompt.
	// The template expects a %s placeholder for the workflow description.
	PromptSystem = "system"

	// PromptUser frames the context block and question.
	// The template expects %s (context) and %s (question) placeholders.
	PromptUser = "user"
)
