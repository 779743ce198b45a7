package repository

import (
	"context"

	"github.com/verse2vision-story-api/internal/models"
)

// VectorSearchRepository defines operations for vector similarity search
// over the verse corpus. The in-memory store is the default backend; the
// pgvector backend implements the same contract, and an approximate index
// could be swapped in behind it without touching callers.
type VectorSearchRepository interface {
	// SearchByEmbedding returns the topK most similar verses for the query
	// embedding, in strictly descending score order.
	SearchByEmbedding(ctx context.Context, embedding []float64, topK int) ([]models.RetrievalResult, error)

	// Count reports how many verses the backend holds.
	Count(ctx context.Context) (int, error)
}

// TagSearchRepository defines keyword matching over verse tags and emotions
type TagSearchRepository interface {
	// SearchByWords returns verses whose tags or emotions match the given
	// words, ranked by match ratio.
	SearchByWords(ctx context.Context, words []string, topK int) ([]models.TagMatch, error)
}
