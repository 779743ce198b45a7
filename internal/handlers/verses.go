package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verse2vision-story-api/internal/kb"
	"github.com/verse2vision-story-api/internal/models"
)

// VersesHandler exposes the loaded knowledge base read-only
type VersesHandler struct {
	entries []models.VerseEntry
}

// NewVersesHandler creates a new verses handler
func NewVersesHandler(entries []models.VerseEntry) *VersesHandler {
	return &VersesHandler{entries: entries}
}

// VerseListResponse is the response for listing verses
type VerseListResponse struct {
	Count  int                 `json:"count"`
	Verses []models.VerseEntry `json:"verses"`
}

// List handles GET /verses
func (h *VersesHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, VerseListResponse{
		Count:  len(h.entries),
		Verses: h.entries,
	})
}

// Get handles GET /verses/:id
func (h *VersesHandler) Get(c echo.Context) error {
	entry := kb.FindByID(h.entries, c.Param("id"))
	if entry == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Verse not found")
	}
	return c.JSON(http.StatusOK, entry)
}

// RegisterRoutes registers verse explorer routes
func (h *VersesHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/verses", h.List)
	g.GET("/verses/:id", h.Get)
}
