package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/services"
)

// maxVisualTopK caps how many verses a single visual story may request.
const maxVisualTopK = 5

// StoryHandler handles story generation endpoints
type StoryHandler struct {
	story *services.StoryService
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(story *services.StoryService) *StoryHandler {
	return &StoryHandler{story: story}
}

// TextStory handles POST /story/text - one continuous narrative
func (h *StoryHandler) TextStory(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.TextStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Topic is required")
	}

	resp, err := h.story.CreateTextStory(ctx, req.Topic)
	if err != nil {
		return generationHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// VisualStory handles POST /story/visual - a multi-scene illustrated story
func (h *StoryHandler) VisualStory(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.VisualStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Topic is required")
	}

	// Zero means the service's configured default.
	topK := req.TopK
	if topK < 0 || topK > maxVisualTopK {
		topK = 0
	}

	resp, err := h.story.CreateVisualStory(ctx, req.Topic, topK)
	if err != nil {
		if errors.Is(err, models.ErrNoScenes) {
			return echo.NewHTTPError(http.StatusBadGateway,
				"The story response could not be parsed, please try again")
		}
		return generationHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers story routes
func (h *StoryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/story/text", h.TextStory)
	g.POST("/story/visual", h.VisualStory)
}

// generationHTTPError maps generation failures to 502 and everything else
// to 500, without crashing the request loop.
func generationHTTPError(err error) *echo.HTTPError {
	if errors.Is(err, models.ErrGeneration) {
		return echo.NewHTTPError(http.StatusBadGateway, "Generation failed: "+err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
