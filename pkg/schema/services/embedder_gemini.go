package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verse2vision-story-api/pkg/schema/config"
)

const geminiEmbedTimeout = 60 * time.Second

// GeminiEmbedder implements Embedder using the Gemini REST API
type GeminiEmbedder struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewGeminiEmbedder creates a new Gemini REST embedder
func NewGeminiEmbedder(cfg *config.Config) (*GeminiEmbedder, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini embeddings")
	}
	return &GeminiEmbedder{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: geminiEmbedTimeout},
	}, nil
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model,omitempty"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

// Embed generates an embedding for a single text
func (e *GeminiEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float64, error) {
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s",
		e.cfg.GeminiBaseURL, e.cfg.GeminiModel, e.cfg.GeminiAPIKey)

	reqBody := geminiEmbedRequest{
		Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType: string(taskType),
	}

	var embResp geminiEmbedResponse
	if err := e.post(ctx, url, reqBody, &embResp); err != nil {
		return nil, err
	}

	if err := e.checkDimensions(embResp.Embedding.Values); err != nil {
		return nil, err
	}
	return embResp.Embedding.Values, nil
}

// EmbedBatch generates embeddings for multiple texts
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType TaskType) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	url := fmt.Sprintf("%s/models/%s:batchEmbedContents?key=%s",
		e.cfg.GeminiBaseURL, e.cfg.GeminiModel, e.cfg.GeminiAPIKey)

	reqBody := geminiBatchEmbedRequest{
		Requests: make([]geminiEmbedRequest, len(texts)),
	}
	for i, text := range texts {
		reqBody.Requests[i] = geminiEmbedRequest{
			Model:    "models/" + e.cfg.GeminiModel,
			Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
			TaskType: string(taskType),
		}
	}

	var batchResp geminiBatchEmbedResponse
	if err := e.post(ctx, url, reqBody, &batchResp); err != nil {
		return nil, err
	}

	if len(batchResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts",
			len(batchResp.Embeddings), len(texts))
	}

	embeddings := make([][]float64, len(batchResp.Embeddings))
	for i, emb := range batchResp.Embeddings {
		if err := e.checkDimensions(emb.Values); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}

func (e *GeminiEmbedder) post(ctx context.Context, url string, reqBody, out any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call embedding API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkDimensions rejects malformed vectors before they reach the store.
func (e *GeminiEmbedder) checkDimensions(values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("empty embedding returned")
	}
	if e.cfg.EmbeddingDimensions > 0 && len(values) != e.cfg.EmbeddingDimensions {
		return fmt.Errorf("embedding has %d dimensions, expected %d",
			len(values), e.cfg.EmbeddingDimensions)
	}
	return nil
}
