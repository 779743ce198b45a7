package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/repository/memory"
	"github.com/verse2vision-story-api/internal/services"
	schemaservices "github.com/verse2vision-story-api/pkg/schema/services"
)

type testEmbedder struct{}

func (testEmbedder) Embed(_ context.Context, text string, _ schemaservices.TaskType) ([]float64, error) {
	vec := []float64{0, 0, 0.1}
	if strings.Contains(strings.ToLower(text), "devotion") {
		vec[0] = 1
	}
	if strings.Contains(strings.ToLower(text), "courage") {
		vec[1] = 1
	}
	return vec, nil
}

func (e testEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType schemaservices.TaskType) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, _ := e.Embed(ctx, text, taskType)
		out[i] = vec
	}
	return out, nil
}

func testRetrieval(t *testing.T) *services.RetrievalService {
	t.Helper()
	svc := schemaservices.NewEmbeddingsService(testEmbedder{})
	store := memory.NewVectorStore()
	require.NoError(t, store.Build(context.Background(), []models.VerseEntry{
		{ID: "v1", VerseNumber: 1, MeaningSimple: "a verse about devotion", Tags: []string{"devotion"}},
		{ID: "v2", VerseNumber: 2, MeaningSimple: "a verse about courage", Tags: []string{"courage"}},
	}, svc))
	return services.NewRetrievalService(store, store, svc)
}

func performJSON(t *testing.T, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSemanticSearch(t *testing.T) {
	h := NewSearchHandler(testRetrieval(t))

	rec := performJSON(t, h.SemanticSearch, http.MethodPost, "/search",
		`{"query": "devotion", "limit": 1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SemanticSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "v1", resp.Results[0].VerseID)
}

func TestSemanticSearch_MissingQuery(t *testing.T) {
	h := NewSearchHandler(testRetrieval(t))

	rec := performJSON(t, h.SemanticSearch, http.MethodPost, "/search", `{"limit": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSemanticSearch_LimitClamped(t *testing.T) {
	h := NewSearchHandler(testRetrieval(t))

	rec := performJSON(t, h.SemanticSearch, http.MethodPost, "/search",
		`{"query": "devotion", "limit": 999}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SemanticSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2)
}

func TestHybridSearch(t *testing.T) {
	h := NewSearchHandler(testRetrieval(t))

	rec := performJSON(t, h.HybridSearch, http.MethodPost, "/search/hybrid",
		`{"query": "courage", "verse_limit": 2, "tag_limit": 2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.HybridSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "v2", resp.SemanticMatches[0].VerseID)
	require.Len(t, resp.TagMatches, 1)
	assert.Equal(t, "v2", resp.TagMatches[0].VerseID)
}

func TestVersesHandler(t *testing.T) {
	entries := []models.VerseEntry{{ID: "v1", VerseNumber: 1}, {ID: "v2", VerseNumber: 2}}
	h := NewVersesHandler(entries)

	rec := performJSON(t, h.List, http.MethodGet, "/verses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp VerseListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestVersesHandler_GetNotFound(t *testing.T) {
	h := NewVersesHandler([]models.VerseEntry{{ID: "v1"}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/verses/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.Get(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
