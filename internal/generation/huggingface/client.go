// Package huggingface generates images through the Hugging Face inference
// API, trying a list of diffusion models in order until one responds.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verse2vision-story-api/internal/generation"
)

// Ensure Client implements the interface.
var _ generation.ImageGenerator = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultTimeout = 120 * time.Second
)

// DefaultModels is the fallback order: fastest first, most available last.
var DefaultModels = []string{
	"stabilityai/sdxl-turbo",
	"stabilityai/stable-diffusion-xl-base-1.0",
	"runwayml/stable-diffusion-v1-5",
}

// Config holds configuration for the Hugging Face client.
type Config struct {
	// Token is the Hugging Face API token (required).
	Token string

	// BaseURL is the inference API base URL.
	BaseURL string

	// Models overrides the fallback model list.
	Models []string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration
}

// Client generates images via text-to-image inference.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
	models  []string
}

// NewClient creates a new Hugging Face client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("huggingface: API token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		models:  cfg.Models,
	}, nil
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Generate tries each configured model until one returns an image.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	var errs []error
	for _, model := range c.models {
		data, err := c.generateWith(ctx, model, prompt)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", model, err))
	}
	return nil, fmt.Errorf("all models failed: %w", errors.Join(errs...))
}

func (c *Client) generateWith(ctx context.Context, model, prompt string) ([]byte, error) {
	jsonBody, err := json.Marshal(inferenceRequest{Inputs: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+model, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to read the image.
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("model loading")
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("unexpected content type %s", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return data, nil
}
