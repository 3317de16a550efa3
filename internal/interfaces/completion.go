package interfaces

import (
	"context"
)

// CompletionPreset is a named temperature/top-p pairing. All call sites
// use one of the package presets, never an arbitrary temperature, to keep
// generation behavior predictable and testable.
type CompletionPreset struct {
	Name        string
	Temperature float64
	TopP        float64
}

var (
	// PresetFactual is for extraction, validation, and summarization
	PresetFactual = CompletionPreset{Name: "factual", Temperature: 0.3, TopP: 0.95}
	// PresetCreative is for flashcards, adversarial generation, and question improvement
	PresetCreative = CompletionPreset{Name: "creative", Temperature: 0.7, TopP: 0.95}
	// PresetStrict is used only for summary regeneration after validation shortfall
	PresetStrict = CompletionPreset{Name: "strict", Temperature: 0.2, TopP: 0.9}
)

// CompletionService wraps a local text-generation backend
type CompletionService interface {
	// Complete sends a prompt and returns the raw text completion
	Complete(ctx context.Context, prompt string, preset CompletionPreset, maxTokens int) (string, error)

	// CompleteStructured sends a prompt expected to yield one JSON object,
	// locates and repairs the JSON in the free-text response, and parses it.
	// If parsing fails after repair the result is an empty map, not an
	// error: callers treat "empty" as valid-but-uninformative.
	CompleteStructured(ctx context.Context, prompt string, preset CompletionPreset, maxTokens int) (map[string]interface{}, error)

	// Embed returns an embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float64, error)

	// ListModels returns the names of models available on the backend
	ListModels(ctx context.Context) ([]string, error)
}
