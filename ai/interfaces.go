package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Judge answers closed yes/no questions with a language model.
// Implementations must be thread-safe for concurrent use.
type Judge interface {
	// YesNo asks question under the given system instruction and reports
	// whether the model answered yes. Any answer other than yes is false.
	// Returns an error if the model could not be reached.
	YesNo(ctx context.Context, system, question string) (bool, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Judge returns the yes/no question service.
	Judge() Judge

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
