// Package memory provides the in-memory vector store backend. The corpus is
// small and bounded, so queries are a brute-force cosine scan over every
// stored vector.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/repository"
	schemaservices "github.com/verse2vision-story-api/pkg/schema/services"
)

// Ensure VectorStore implements the repository interfaces.
var (
	_ repository.VectorSearchRepository = (*VectorStore)(nil)
	_ repository.TagSearchRepository    = (*VectorStore)(nil)
)

// VectorStore holds one embedding per verse entry, in load order. Built once
// at startup and read-only afterwards; Build fully replaces prior state.
type VectorStore struct {
	mu      sync.RWMutex
	entries []models.VerseEntry
	vectors [][]float64
	built   bool
}

// NewVectorStore creates an empty, unbuilt store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// EmbeddingText is the fixed concatenation of an entry's semantically dense
// fields fed to the embedding model. Build and upsert must agree on it.
func EmbeddingText(entry models.VerseEntry) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{
		entry.MeaningSimple,
		entry.MeaningDetailed,
		entry.StorySeed,
		strings.Join(entry.Tags, " "),
		strings.Join(entry.Emotions, " "),
	} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Build embeds every entry and replaces the store's contents. It either
// succeeds fully or leaves the previous state untouched.
func (s *VectorStore) Build(ctx context.Context, entries []models.VerseEntry, embeddings *schemaservices.EmbeddingsService) error {
	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = EmbeddingText(entry)
	}

	vectors, err := embeddings.EmbedVerses(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrEmbeddingBuild, err)
	}
	if len(vectors) != len(entries) {
		return fmt.Errorf("%w: got %d vectors for %d entries",
			models.ErrEmbeddingBuild, len(vectors), len(entries))
	}
	for i, vec := range vectors {
		if err := validateVector(vec, len(vectors[0])); err != nil {
			return fmt.Errorf("%w: entry %s: %v", models.ErrEmbeddingBuild, entries[i].ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]models.VerseEntry(nil), entries...)
	s.vectors = vectors
	s.built = true
	return nil
}

func validateVector(vec []float64, dims int) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector")
	}
	if len(vec) != dims {
		return fmt.Errorf("vector has %d dimensions, expected %d", len(vec), dims)
	}
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("vector contains non-finite value")
		}
	}
	return nil
}

// SearchByEmbedding scans every stored vector and returns the topK highest
// cosine similarities, descending, ties broken by load order.
func (s *VectorStore) SearchByEmbedding(_ context.Context, embedding []float64, topK int) ([]models.RetrievalResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be >= 1, got %d", topK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.built || len(s.entries) == 0 {
		return nil, models.ErrNotBuilt
	}

	results := make([]models.RetrievalResult, len(s.entries))
	for i, vec := range s.vectors {
		results[i] = models.RetrievalResult{
			Entry: s.entries[i],
			Score: cosineSimilarity(embedding, vec),
		}
	}

	// Stable keeps load order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Count reports the number of stored verses. Zero for an unbuilt store.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.built {
		return 0, nil
	}
	return len(s.entries), nil
}

// Entries returns the stored entries in load order.
func (s *VectorStore) Entries() []models.VerseEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.VerseEntry(nil), s.entries...)
}

// SearchByWords matches query words against verse tags and emotions,
// case-insensitively, ranked by the fraction of words matched.
func (s *VectorStore) SearchByWords(_ context.Context, words []string, topK int) ([]models.TagMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(words) == 0 || topK < 1 {
		return []models.TagMatch{}, nil
	}

	var matches []models.TagMatch
	for _, entry := range s.entries {
		keywords := make(map[string]bool, len(entry.Tags)+len(entry.Emotions))
		for _, tag := range entry.Tags {
			keywords[strings.ToLower(tag)] = true
		}
		for _, emotion := range entry.Emotions {
			keywords[strings.ToLower(emotion)] = true
		}

		var matched []string
		for _, word := range words {
			if keywords[strings.ToLower(word)] {
				matched = append(matched, word)
			}
		}
		if len(matched) == 0 {
			continue
		}
		matches = append(matches, models.TagMatch{
			VerseID:      entry.ID,
			VerseNumber:  entry.VerseNumber,
			MatchedWords: matched,
			Score:        float64(len(matched)) / float64(len(words)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	if matches == nil {
		matches = []models.TagMatch{}
	}
	return matches, nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or a zero vector score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
