package memory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verse2vision-story-api/internal/models"
	schemaservices "github.com/verse2vision-story-api/pkg/schema/services"
)

// stubEmbedder maps texts to fixed 3-dimensional vectors so retrieval tests
// are deterministic. Axis 0 is "devotion", axis 1 is "courage", axis 2 is a
// constant base so no vector is ever zero.
type stubEmbedder struct {
	err       error
	badVector []float64
}

func (s *stubEmbedder) Embed(_ context.Context, text string, _ schemaservices.TaskType) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.badVector != nil {
		return s.badVector, nil
	}
	lower := strings.ToLower(text)
	vec := []float64{0, 0, 0.1}
	if strings.Contains(lower, "devotion") {
		vec[0] = 1
	}
	if strings.Contains(lower, "courage") {
		vec[1] = 1
	}
	return vec, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType schemaservices.TaskType) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text, taskType)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func stubService() *schemaservices.EmbeddingsService {
	return schemaservices.NewEmbeddingsService(&stubEmbedder{})
}

func testEntries() []models.VerseEntry {
	return []models.VerseEntry{
		{ID: "v1", VerseNumber: 1, MeaningSimple: "a hymn of devotion", Tags: []string{"devotion"}},
		{ID: "v2", VerseNumber: 2, MeaningSimple: "a hymn of courage", Tags: []string{"courage"}},
	}
}

func TestBuildThenSearch(t *testing.T) {
	ctx := context.Background()
	store := NewVectorStore()
	require.NoError(t, store.Build(ctx, testEntries(), stubService()))

	query, err := stubService().EmbedQuery(ctx, "devotion")
	require.NoError(t, err)

	results, err := store.SearchByEmbedding(ctx, query, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v1", results[0].Entry.ID)
}

func TestSearch_DescendingOrder(t *testing.T) {
	ctx := context.Background()
	store := NewVectorStore()
	require.NoError(t, store.Build(ctx, testEntries(), stubService()))

	query, err := stubService().EmbedQuery(ctx, "devotion")
	require.NoError(t, err)

	results, err := store.SearchByEmbedding(ctx, query, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "v1", results[0].Entry.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearch_TopKExceedsCorpus(t *testing.T) {
	ctx := context.Background()
	store := NewVectorStore()
	require.NoError(t, store.Build(ctx, testEntries(), stubService()))

	query, err := stubService().EmbedQuery(ctx, "anything")
	require.NoError(t, err)

	// topK beyond corpus size returns all entries ranked, never an error.
	results, err := store.SearchByEmbedding(ctx, query, 50)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_StableTieBreakByLoadOrder(t *testing.T) {
	ctx := context.Background()
	entries := []models.VerseEntry{
		{ID: "first", MeaningSimple: "identical text"},
		{ID: "second", MeaningSimple: "identical text"},
		{ID: "third", MeaningSimple: "identical text"},
	}
	store := NewVectorStore()
	require.NoError(t, store.Build(ctx, entries, stubService()))

	query, err := stubService().EmbedQuery(ctx, "identical text")
	require.NoError(t, err)

	results, err := store.SearchByEmbedding(ctx, query, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Entry.ID)
	assert.Equal(t, "second", results[1].Entry.ID)
	assert.Equal(t, "third", results[2].Entry.ID)
}

func TestSearch_BeforeBuild(t *testing.T) {
	store := NewVectorStore()
	_, err := store.SearchByEmbedding(context.Background(), []float64{1, 0, 0}, 1)
	assert.ErrorIs(t, err, models.ErrNotBuilt)
}

func TestSearch_InvalidTopK(t *testing.T) {
	ctx := context.Background()
	store := NewVectorStore()
	require.NoError(t, store.Build(ctx, testEntries(), stubService()))

	_, err := store.SearchByEmbedding(ctx, []float64{1, 0, 0}, 0)
	assert.Error(t, err)
}

func TestBuild_ReplacesPriorState(t *testing.T) {
	ctx := context.Background()
	store := NewVectorStore()
	require.NoError(t, store.Build(ctx, testEntries(), stubService()))

	replacement := []models.VerseEntry{{ID: "v9", MeaningSimple: "a new corpus"}}
	require.NoError(t, store.Build(ctx, replacement, stubService()))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "v9", store.Entries()[0].ID)
}

func TestBuild_EmbedderFailure(t *testing.T) {
	svc := schemaservices.NewEmbeddingsService(&stubEmbedder{err: fmt.Errorf("backend unreachable")})
	store := NewVectorStore()

	err := store.Build(context.Background(), testEntries(), svc)
	assert.ErrorIs(t, err, models.ErrEmbeddingBuild)

	// A failed build leaves the store unqueryable.
	_, err = store.SearchByEmbedding(context.Background(), []float64{1, 0, 0}, 1)
	assert.ErrorIs(t, err, models.ErrNotBuilt)
}

func TestBuild_MalformedVector(t *testing.T) {
	svc := schemaservices.NewEmbeddingsService(&stubEmbedder{badVector: []float64{1, math.NaN(), 0}})
	store := NewVectorStore()

	err := store.Build(context.Background(), testEntries(), svc)
	assert.ErrorIs(t, err, models.ErrEmbeddingBuild)
}

func TestSearchByWords(t *testing.T) {
	ctx := context.Background()
	entries := []models.VerseEntry{
		{ID: "v1", VerseNumber: 1, Tags: []string{"Devotion", "guru"}, Emotions: []string{"reverence"}},
		{ID: "v2", VerseNumber: 2, Tags: []string{"courage"}, Emotions: []string{"resolve"}},
	}
	store := NewVectorStore()
	require.NoError(t, store.Build(ctx, entries, stubService()))

	matches, err := store.SearchByWords(ctx, []string{"devotion", "resolve"}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Both verses match one of two words.
	assert.InDelta(t, 0.5, matches[0].Score, 1e-9)
	assert.Equal(t, "v1", matches[0].VerseID)
	assert.Equal(t, []string{"devotion"}, matches[0].MatchedWords)
	assert.Equal(t, []string{"resolve"}, matches[1].MatchedWords)
}

func TestSearchByWords_NoWords(t *testing.T) {
	store := NewVectorStore()
	matches, err := store.SearchByWords(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEmbeddingText_SkipsEmptyFields(t *testing.T) {
	entry := models.VerseEntry{
		ID:            "v1",
		MeaningSimple: "simple meaning",
		Tags:          []string{"devotion"},
	}
	text := EmbeddingText(entry)
	assert.Equal(t, "simple meaning\ndevotion", text)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
	assert.Zero(t, cosineSimilarity([]float64{1}, []float64{1, 2}))
}
