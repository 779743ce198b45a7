package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/verse2vision-story-api/internal/credentials"
)

// Config holds all application configuration
type Config struct {
	// API Settings
	APITitle   string
	APIVersion string
	APIPrefix  string
	Port       string

	// CORS
	CORSOrigins []string

	// Knowledge base
	KBPath string

	// Vector Search Backend: "memory" or "pgvector"
	VectorBackend string

	// Retrieval defaults
	StoryTopK int
	QATopK    int

	// Text generation and vision captioning (Gemini)
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// Image generation: "pollinations" or "huggingface"
	ImageProvider string
	HFToken       string

	// Narration
	TTSEnabled bool
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
	geminiKey, _ := credentials.Resolve(
		credentials.File(getEnv("GEMINI_API_KEY_FILE", "api_key.txt")),
		credentials.Env("GEMINI_API_KEY"),
	)
	hfToken, _ := credentials.Resolve(
		credentials.File(getEnv("HF_TOKEN_FILE", "hf_token.txt")),
		credentials.Env("HF_TOKEN"),
	)

	return &Config{
		APITitle:    getEnv("API_TITLE", "Verse2Vision Story API"),
		APIVersion:  getEnv("API_VERSION", "1.0.0"),
		APIPrefix:   getEnv("API_PREFIX", "/api/v1"),
		Port:        getEnv("PORT", "8081"),
		CORSOrigins: parseCORSOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		KBPath: getEnv("KB_PATH", "data/kb.json"),

		// Vector search backend configuration
		VectorBackend: getEnv("VECTOR_BACKEND", "memory"), // "memory" or "pgvector"

		StoryTopK: getEnvInt("STORY_TOP_K", 3),
		QATopK:    getEnvInt("QA_TOP_K", 5),

		GeminiAPIKey:  geminiKey,
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		ImageProvider: getEnv("IMAGE_PROVIDER", "pollinations"), // "pollinations" or "huggingface"
		HFToken:       hfToken,

		TTSEnabled: getEnvBool("TTS_ENABLED", true),
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
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseCORSOrigins(value string) []string {
	var origins []string
	if err := json.Unmarshal([]byte(value), &origins); err == nil {
		return origins
	}
	parts := strings.Split(value, ",")
	origins = make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
