// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.mapscraper.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable prompt files with embedded defaults
package file
