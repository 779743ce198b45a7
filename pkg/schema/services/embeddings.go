package services

import (
	"context"
	"fmt"

	"github.com/verse2vision-story-api/pkg/schema/config"
)

// EmbeddingsService handles text embedding operations using a pluggable backend
type EmbeddingsService struct {
	embedder Embedder
}

// NewEmbeddingsService wraps an embedder backend
func NewEmbeddingsService(embedder Embedder) *EmbeddingsService {
	return &EmbeddingsService{embedder: embedder}
}

// NewEmbeddingsServiceFromConfig selects the embedder backend by configuration
func NewEmbeddingsServiceFromConfig(ctx context.Context, cfg *config.Config) (*EmbeddingsService, error) {
	var embedder Embedder
	switch cfg.EmbeddingProvider {
	case "vertex":
		var err error
		embedder, err = NewVertexEmbedder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create Vertex AI embedder: %w", err)
		}
	default:
		var err error
		embedder, err = NewGeminiEmbedder(cfg)
		if err != nil {
			return nil, fmt.Errorf("create Gemini embedder: %w", err)
		}
	}
	return NewEmbeddingsService(embedder), nil
}

// EmbedQuery embeds a query for retrieval
func (s *EmbeddingsService) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	return s.embedder.Embed(ctx, query, TaskTypeQuery)
}

// EmbedVerse embeds a verse as a document for retrieval
func (s *EmbeddingsService) EmbedVerse(ctx context.Context, text string) ([]float64, error) {
	return s.embedder.Embed(ctx, text, TaskTypeDocument)
}

// EmbedVerses embeds a batch of verse texts as documents for retrieval
func (s *EmbeddingsService) EmbedVerses(ctx context.Context, texts []string) ([][]float64, error) {
	return s.embedder.EmbedBatch(ctx, texts, TaskTypeDocument)
}
