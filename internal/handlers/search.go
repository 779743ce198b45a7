package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/services"
)

// SearchHandler handles search endpoints
type SearchHandler struct {
	retrieval *services.RetrievalService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(retrieval *services.RetrievalService) *SearchHandler {
	return &SearchHandler{retrieval: retrieval}
}

// SemanticSearch handles POST /search - semantic verse search
func (h *SearchHandler) SemanticSearch(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SemanticSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
	}

	limit := req.Limit
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	results, err := h.retrieval.Retrieve(ctx, req.Query, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, models.SemanticSearchResponse{
		Query:   req.Query,
		Results: services.ToScoredVerses(results),
	})
}

// HybridSearch handles POST /search/hybrid - semantic search plus tag matching
func (h *SearchHandler) HybridSearch(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.HybridSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
	}

	verseLimit := req.VerseLimit
	if verseLimit <= 0 || verseLimit > 20 {
		verseLimit = 5
	}

	tagLimit := req.TagLimit
	if tagLimit <= 0 || tagLimit > 20 {
		tagLimit = 5
	}

	results, err := h.retrieval.Retrieve(ctx, req.Query, verseLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed: "+err.Error())
	}

	tagMatches, err := h.retrieval.SearchTags(ctx, req.Query, tagLimit)
	if err != nil {
		c.Logger().Warnf("Tag search failed: %v", err)
		tagMatches = []models.TagMatch{}
	}

	return c.JSON(http.StatusOK, models.HybridSearchResponse{
		Query:           req.Query,
		SemanticMatches: services.ToScoredVerses(results),
		TagMatches:      tagMatches,
	})
}

// RegisterRoutes registers search routes
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/search", h.SemanticSearch)
	g.POST("/search/hybrid", h.HybridSearch)
}
