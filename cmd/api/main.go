package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/verse2vision-story-api/internal/config"
	"github.com/verse2vision-story-api/internal/generation"
	"github.com/verse2vision-story-api/internal/generation/gemini"
	"github.com/verse2vision-story-api/internal/generation/gtts"
	"github.com/verse2vision-story-api/internal/generation/huggingface"
	"github.com/verse2vision-story-api/internal/generation/pollinations"
	"github.com/verse2vision-story-api/internal/handlers"
	"github.com/verse2vision-story-api/internal/kb"
	"github.com/verse2vision-story-api/internal/middleware"
	"github.com/verse2vision-story-api/internal/repository"
	"github.com/verse2vision-story-api/internal/repository/memory"
	"github.com/verse2vision-story-api/internal/repository/postgres"
	"github.com/verse2vision-story-api/internal/services"
	schemaconfig "github.com/verse2vision-story-api/pkg/schema/config"
	"github.com/verse2vision-story-api/pkg/schema/db"
	pkgservices "github.com/verse2vision-story-api/pkg/schema/services"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get configuration
	cfg := config.GetConfig()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware())

	// Load the verse knowledge base
	entries, err := kb.Load(cfg.KBPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base from %s: %v", cfg.KBPath, err)
	}
	log.Printf("Loaded %d verse entries from %s", len(entries), cfg.KBPath)

	// Create embeddings service
	ctx := context.Background()
	embeddingsSvc, err := pkgservices.NewEmbeddingsServiceFromConfig(ctx, schemaconfig.GetConfig())
	if err != nil {
		log.Fatalf("Failed to initialize embeddings service: %v", err)
	}

	// Create the vector search backend
	var vectorRepo repository.VectorSearchRepository
	var tagRepo repository.TagSearchRepository

	switch cfg.VectorBackend {
	case "pgvector":
		log.Println("Using pgvector backend")
		if err := db.InitPostgres(ctx); err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		vectorRepo = postgres.NewVectorSearchRepository(db.GetPostgres())
	default:
		log.Println("Using in-memory vector store")
		store := memory.NewVectorStore()
		if err := store.Build(ctx, entries, embeddingsSvc); err != nil {
			log.Fatalf("Failed to build vector store: %v", err)
		}
		vectorRepo = store
		tagRepo = store
	}

	// Create generation clients
	textGen, err := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
	})
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	var imageGen generation.ImageGenerator
	switch cfg.ImageProvider {
	case "huggingface":
		imageGen, err = huggingface.NewClient(huggingface.Config{Token: cfg.HFToken})
		if err != nil {
			log.Fatalf("Failed to create Hugging Face client: %v", err)
		}
	default:
		imageGen = pollinations.NewClient(pollinations.Config{})
	}

	var speech generation.SpeechSynthesizer
	if cfg.TTSEnabled {
		speech = gtts.NewClient(gtts.Config{})
	}

	// Create services
	retrievalSvc := services.NewRetrievalService(vectorRepo, tagRepo, embeddingsSvc)
	storySvc := services.NewStoryService(retrievalSvc, textGen, imageGen, speech, cfg.StoryTopK)
	qaSvc := services.NewQAService(retrievalSvc, textGen, textGen, speech, cfg.QATopK)

	// Create API group with prefix
	api := e.Group(cfg.APIPrefix)

	// Register handlers
	healthHandler := handlers.NewHealthHandler(vectorRepo)
	healthHandler.RegisterRoutes(api)

	versesHandler := handlers.NewVersesHandler(entries)
	versesHandler.RegisterRoutes(api)

	searchHandler := handlers.NewSearchHandler(retrievalSvc)
	searchHandler.RegisterRoutes(api)

	storyHandler := handlers.NewStoryHandler(storySvc)
	storyHandler.RegisterRoutes(api)

	qaHandler := handlers.NewQAHandler(qaSvc)
	qaHandler.RegisterRoutes(api)

	// Root health check
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"name":    cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Starting %s v%s on %s", cfg.APITitle, cfg.APIVersion, addr)
		if err := e.Start(addr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	if cfg.VectorBackend == "pgvector" {
		if err := db.ClosePostgres(); err != nil {
			log.Printf("Error closing PostgreSQL: %v", err)
		}
	}

	log.Println("Server stopped")
}
