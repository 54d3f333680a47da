// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - PromptStore: user-editable LLM prompt templates (prompts/*.txt), seeded from embedded defaults
package file
