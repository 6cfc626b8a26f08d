package driven

// PromptStore hands out prompt templates by name.
type PromptStore interface {
	// Load returns the template, falling back to a built-in one for the
	// well-known names below. Unknown names are an error.
	Load(name string) (string, error)

	// Reload drops anything cached so edits on disk are seen.
	Reload()
}

// Well-known prompts. Callers fill the placeholders with fmt.Sprintf.
const (
	// PromptIntentSystem classifies a request into service, action and details.
	PromptIntentSystem = "intent_system"

	PromptDecomposeSystem = "decompose_system"

	// PromptDecompose takes the request as its single %s.
	PromptDecompose = "decompose"

	// PromptSummarise takes the length limit as its single %d.
	PromptSummarise = "summarise"
)
