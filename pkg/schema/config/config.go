package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/verse2vision-story-api/internal/credentials"
)

// Config holds configuration for database and embedding operations
type Config struct {
	// PostgreSQL (optional pgvector backend)
	PostgresURI string

	// Embeddings
	EmbeddingProvider   string // "vertex" or "gemini"
	EmbeddingDimensions int

	// Gemini REST API (when EmbeddingProvider = "gemini")
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// Vertex AI (when EmbeddingProvider = "vertex")
	GCPProjectID string
	GCPLocation  string
	VertexModel  string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config = loadConfig()
	})
	return config
}

func loadConfig() *Config {
	// Key file first, environment second, matching the original key handling.
	geminiKey, _ := credentials.Resolve(
		credentials.File(getEnv("GEMINI_API_KEY_FILE", "api_key.txt")),
		credentials.Env("GEMINI_API_KEY"),
	)

	return &Config{
		// PostgreSQL
		PostgresURI: getEnv("POSTGRES_URI", ""),

		// Embeddings
		EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "gemini"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 768),

		// Gemini
		GeminiAPIKey:  geminiKey,
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:   getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),

		// Vertex AI
		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),
		GCPLocation:  getEnv("GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("VERTEX_MODEL", "gemini-embedding-001"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return i
	}
	return defaultValue
}
