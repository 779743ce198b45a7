package services

import (
	"context"
	"strings"

	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/repository"
	pkgservices "github.com/verse2vision-story-api/pkg/schema/services"
)

// RetrievalService converts free-text queries into ranked verses. It is a
// thin seam over the vector repository so retrieval policy (re-ranking,
// tag filtering) can be layered without touching the store.
type RetrievalService struct {
	vectorRepo    repository.VectorSearchRepository
	tagRepo       repository.TagSearchRepository
	embeddingsSvc *pkgservices.EmbeddingsService
}

// NewRetrievalService creates a new retrieval service. tagRepo may be nil
// when the backend has no tag index.
func NewRetrievalService(
	vectorRepo repository.VectorSearchRepository,
	tagRepo repository.TagSearchRepository,
	embeddingsSvc *pkgservices.EmbeddingsService,
) *RetrievalService {
	return &RetrievalService{
		vectorRepo:    vectorRepo,
		tagRepo:       tagRepo,
		embeddingsSvc: embeddingsSvc,
	}
}

// Retrieve embeds a query and returns the topK most relevant verses. An
// empty query, or an empty corpus, yields an empty result rather than an
// error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.RetrievalResult{}, nil
	}

	count, err := s.vectorRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []models.RetrievalResult{}, nil
	}

	embedding, err := s.embeddingsSvc.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.vectorRepo.SearchByEmbedding(ctx, embedding, topK)
}

// SearchTags matches the query's words against verse tags and emotions.
func (s *RetrievalService) SearchTags(ctx context.Context, query string, topK int) ([]models.TagMatch, error) {
	if s.tagRepo == nil {
		return []models.TagMatch{}, nil
	}
	words := tokenizeWords(query)
	if len(words) == 0 {
		return []models.TagMatch{}, nil
	}
	return s.tagRepo.SearchByWords(ctx, words, topK)
}

// ToScoredVerses converts retrieval results into the API response shape.
func ToScoredVerses(results []models.RetrievalResult) []models.ScoredVerse {
	verses := make([]models.ScoredVerse, len(results))
	for i, r := range results {
		verses[i] = models.ScoredVerse{
			VerseID:       r.Entry.ID,
			VerseNumber:   r.Entry.VerseNumber,
			MeaningSimple: r.Entry.MeaningSimple,
			Score:         r.Score,
		}
	}
	return verses
}

// stopWords contains common words to exclude from tag search
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "with": true,
	"this": true, "are": true, "but": true, "not": true, "you": true,
	"all": true, "was": true, "his": true, "her": true, "from": true,
	"they": true, "have": true, "had": true, "been": true, "were": true,
	"will": true, "would": true, "could": true, "should": true, "shall": true,
	"what": true, "does": true, "mean": true, "about": true, "verse": true,
}

// tokenizeWords splits a query into searchable words
func tokenizeWords(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(c rune) bool {
		return !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'))
	})

	filtered := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) >= 2 && !stopWords[word] {
			filtered = append(filtered, word)
		}
	}
	return filtered
}
