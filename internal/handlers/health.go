package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verse2vision-story-api/internal/repository"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	vectorRepo repository.VectorSearchRepository
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(vectorRepo repository.VectorSearchRepository) *HealthHandler {
	return &HealthHandler{vectorRepo: vectorRepo}
}

// HealthResponse is the response for basic health check
type HealthResponse struct {
	Status string `json:"status"`
}

// KBHealthResponse is the response for knowledge base health check
type KBHealthResponse struct {
	Status     string `json:"status"`
	VerseCount int    `json:"verse_count"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// KBHealth handles GET /health/kb - reports the embedded corpus size
func (h *HealthHandler) KBHealth(c echo.Context) error {
	count, err := h.vectorRepo.Count(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
	}
	if count == 0 {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "empty",
			"error":  "no verses embedded",
		})
	}

	return c.JSON(http.StatusOK, KBHealthResponse{
		Status:     "ready",
		VerseCount: count,
	})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/health/kb", h.KBHealth)
}
