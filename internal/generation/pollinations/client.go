// Package pollinations generates images via the keyless pollinations.ai
// endpoint: a GET of the URL-encoded prompt returns the image bytes.
package pollinations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verse2vision-story-api/internal/generation"
)

// Ensure Client implements the interface.
var _ generation.ImageGenerator = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://image.pollinations.ai"
	DefaultWidth   = 1024
	DefaultHeight  = 768
	DefaultTimeout = 90 * time.Second
)

// Config holds configuration for the pollinations client.
type Config struct {
	// BaseURL is the image endpoint (default: https://image.pollinations.ai).
	BaseURL string

	// Width and Height are the requested image dimensions.
	Width  int
	Height int

	// Timeout is the request timeout (default: 90s). Generation is slow.
	Timeout time.Duration
}

// Client generates images from text prompts.
type Client struct {
	client  *http.Client
	baseURL string
	width   int
	height  int
}

// NewClient creates a new pollinations client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// Generate fetches an image for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true",
		c.baseURL, url.PathEscape(prompt), c.width, c.height)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pollinations request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pollinations returned status %d: %s", resp.StatusCode, string(body))
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("pollinations returned %s, not an image", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("pollinations returned an empty image")
	}
	return data, nil
}
