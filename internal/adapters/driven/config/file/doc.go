// Package file keeps wsagent's user-editable state under ~/.wsagent:
// config.toml behind ConfigStore and the prompts/ directory behind PromptStore.
package file
