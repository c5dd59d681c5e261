// Package embed defines the embedding-model collaborator contract and its
// concrete adapters.
//
// The locator treats the embedding model as a black box mapping a normalized
// string to a fixed-length float vector. Two adapters are provided: OpenAI's
// embeddings API and an Ollama-compatible local HTTP endpoint. The provider
// is selected at startup configuration.
package embed

import "context"

// Embedder converts text into a fixed-length vector representation.
//
// Two calls with identical text must yield model-deterministic vectors; the
// locator's cache relies on that to memoize results safely.
type Embedder interface {
	// Embed returns the embedding vector for text. It may fault with a
	// model error; failed calls are never cached by the locator.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the length of vectors produced by this embedder.
	Dimension() int

	// ModelName identifies the underlying model for health reporting.
	ModelName() string
}
