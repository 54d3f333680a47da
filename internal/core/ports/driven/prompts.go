package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer frames retrieved context and a question for the LLM.
	// The template expects two %s placeholders: context, then question.
	PromptAnswer = "answer"

	// PromptAnswerSystem is the system message sent alongside PromptAnswer.
	// It takes no placeholders.
	PromptAnswerSystem = "answer_system"
)
