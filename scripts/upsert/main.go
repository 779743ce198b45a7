// upsert loads the verse knowledge base, embeds each entry, and upserts
// the rows into PostgreSQL for the pgvector backend.
//
// Environment variables:
//
//	POSTGRES_URI  - PostgreSQL connection string
//	KB_PATH       - knowledge base JSON file (default: data/kb.json)
//
// Usage:
//
//	go run ./scripts/upsert
package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/verse2vision-story-api/internal/kb"
	"github.com/verse2vision-story-api/internal/repository/memory"
	schemaconfig "github.com/verse2vision-story-api/pkg/schema/config"
	"github.com/verse2vision-story-api/pkg/schema/services"
)

const createTableSQL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS verses (
	id                   text PRIMARY KEY,
	verse_number         integer NOT NULL,
	text_sanskrit        text NOT NULL DEFAULT '',
	text_transliteration text NOT NULL DEFAULT '',
	meaning_simple_en    text NOT NULL DEFAULT '',
	meaning_detailed_en  text NOT NULL DEFAULT '',
	image_prompt_en      text NOT NULL DEFAULT '',
	story_seed_en        text NOT NULL DEFAULT '',
	tags                 text[] NOT NULL DEFAULT '{}',
	emotion              text[] NOT NULL DEFAULT '{}',
	embedding            vector
)`

const upsertSQL = `
INSERT INTO verses (
	id, verse_number, text_sanskrit, text_transliteration,
	meaning_simple_en, meaning_detailed_en, image_prompt_en, story_seed_en,
	tags, emotion, embedding
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	verse_number         = EXCLUDED.verse_number,
	text_sanskrit        = EXCLUDED.text_sanskrit,
	text_transliteration = EXCLUDED.text_transliteration,
	meaning_simple_en    = EXCLUDED.meaning_simple_en,
	meaning_detailed_en  = EXCLUDED.meaning_detailed_en,
	image_prompt_en      = EXCLUDED.image_prompt_en,
	story_seed_en        = EXCLUDED.story_seed_en,
	tags                 = EXCLUDED.tags,
	emotion              = EXCLUDED.emotion,
	embedding            = EXCLUDED.embedding`

func main() {
	godotenv.Load()

	cfg := schemaconfig.GetConfig()
	if cfg.PostgresURI == "" {
		log.Fatal("POSTGRES_URI environment variable is required")
	}

	kbPath := os.Getenv("KB_PATH")
	if kbPath == "" {
		kbPath = "data/kb.json"
	}

	entries, err := kb.Load(kbPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base from %s: %v", kbPath, err)
	}
	log.Printf("Loaded %d verse entries from %s", len(entries), kbPath)

	ctx := context.Background()

	embeddingsSvc, err := services.NewEmbeddingsServiceFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize embeddings service: %v", err)
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = memory.EmbeddingText(entry)
	}

	log.Printf("Embedding %d entries...", len(texts))
	vectors, err := embeddingsSvc.EmbedVerses(ctx, texts)
	if err != nil {
		log.Fatalf("Failed to embed entries: %v", err)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		log.Fatalf("Failed to create verses table: %v", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}

	for i, entry := range entries {
		vec := make([]float32, len(vectors[i]))
		for j, v := range vectors[i] {
			vec[j] = float32(v)
		}
		_, err := tx.ExecContext(ctx, upsertSQL,
			entry.ID, entry.VerseNumber, entry.TextSanskrit, entry.TextTransliteration,
			entry.MeaningSimple, entry.MeaningDetailed, entry.ImagePrompt, entry.StorySeed,
			pq.StringArray(entry.Tags), pq.StringArray(entry.Emotions),
			pgvector.NewVector(vec),
		)
		if err != nil {
			tx.Rollback()
			log.Fatalf("Failed to upsert %s: %v", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Printf("Upserted %d verses", len(entries))
}
