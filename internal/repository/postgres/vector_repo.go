package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/repository"
)

// VectorSearchRepository implements repository.VectorSearchRepository for
// PostgreSQL with pgvector. The verses table mirrors the knowledge base file
// and is populated by scripts/upsert.
type VectorSearchRepository struct {
	db *sqlx.DB
}

// NewVectorSearchRepository creates a new PostgreSQL vector search repository
func NewVectorSearchRepository(db *sqlx.DB) repository.VectorSearchRepository {
	return &VectorSearchRepository{db: db}
}

// SearchByEmbedding performs vector similarity search on verses using pgvector
func (r *VectorSearchRepository) SearchByEmbedding(ctx context.Context, embedding []float64, topK int) ([]models.RetrievalResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be >= 1, got %d", topK)
	}

	vec := pgvector.NewVector(float32Slice(embedding))

	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, verse_number, text_sanskrit, text_transliteration,
		       meaning_simple_en, meaning_detailed_en, image_prompt_en, story_seed_en,
		       tags, emotion,
		       1 - (embedding <=> $1::vector) AS score
		FROM verses
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::vector, verse_number
		LIMIT $2
	`, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search verses: %w", err)
	}
	defer rows.Close()

	var results []models.RetrievalResult
	for rows.Next() {
		var (
			entry          models.VerseEntry
			tags, emotions pq.StringArray
			score          float64
		)
		if err := rows.Scan(
			&entry.ID, &entry.VerseNumber, &entry.TextSanskrit, &entry.TextTransliteration,
			&entry.MeaningSimple, &entry.MeaningDetailed, &entry.ImagePrompt, &entry.StorySeed,
			&tags, &emotions, &score,
		); err != nil {
			return nil, fmt.Errorf("scan verse result: %w", err)
		}
		entry.Tags = tags
		entry.Emotions = emotions
		results = append(results, models.RetrievalResult{Entry: entry, Score: score})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verse results: %w", err)
	}

	if results == nil {
		results = []models.RetrievalResult{}
	}
	return results, nil
}

// Count reports the number of embedded verses
func (r *VectorSearchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM verses WHERE embedding IS NOT NULL`); err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	return count, nil
}

// float32Slice converts []float64 to []float32 for pgvector
func float32Slice(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
