package driven

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	// WriteAll replaces the clipboard contents.
	WriteAll(text string) error
}
