package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/services"
)

// maxUploadBytes caps image uploads for analysis.
const maxUploadBytes = 10 << 20

// QAHandler handles question answering and image analysis endpoints
type QAHandler struct {
	qa *services.QAService
}

// NewQAHandler creates a new QA handler
func NewQAHandler(qa *services.QAService) *QAHandler {
	return &QAHandler{qa: qa}
}

// Ask handles POST /ask - grounded question answering
func (h *QAHandler) Ask(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.AskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Question is required")
	}

	resp, err := h.qa.Ask(ctx, req.Question)
	if err != nil {
		return generationHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// AnalyzeImage handles POST /image/analyze - multipart image upload
func (h *QAHandler) AnalyzeImage(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "An image file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read image")
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read image")
	}

	resp, err := h.qa.AnalyzeImage(ctx, image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return generationHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers QA routes
func (h *QAHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/ask", h.Ask)
	g.POST("/image/analyze", h.AnalyzeImage)
}
