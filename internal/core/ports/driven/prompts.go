package driven

// PromptStore supplies user-editable prompt text to retrievers.
type PromptStore interface {
	// Load returns the named prompt, falling back to a built-in text where
	// one exists.
	Load(name string) (string, error)

	// Reload drops cached prompts.
	Reload()
}

// PromptLeadsSystem names the system instruction that asks the model for a
// Markdown table of businesses.
const PromptLeadsSystem = "leads_system"

// PromptStoreAware is implemented by retrievers whose system instruction can
// be overridden. Without a store they use domain.DefaultSystemInstruction.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
