// Package gtts synthesizes narration audio via the public translate TTS
// endpoint. The language is picked from the text's script, so Devanagari
// narration is spoken in Hindi and everything else defaults to English.
package gtts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode"

	"github.com/verse2vision-story-api/internal/generation"
)

// Ensure Client implements the interface.
var _ generation.SpeechSynthesizer = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://translate.google.com/translate_tts"
	DefaultTimeout = 30 * time.Second

	// maxChunkRunes is the endpoint's per-request text limit.
	maxChunkRunes = 200
)

// Config holds configuration for the TTS client.
type Config struct {
	// BaseURL is the TTS endpoint.
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client synthesizes speech from narration text.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new TTS client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
	}
}

// Synthesize returns MP3 audio for the text. Long narration is fetched in
// chunks and concatenated; MP3 frames tolerate simple concatenation.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty narration text")
	}

	lang := detectLanguage(text)

	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		data, err := c.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

func (c *Client) fetchChunk(ctx context.Context, text, lang string) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return data, nil
}

// detectLanguage returns "hi" when the text contains Devanagari, else "en".
func detectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return "hi"
		}
	}
	return "en"
}

// splitChunks breaks text at word boundaries into runs of at most max runes.
func splitChunks(text string, max int) []string {
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := min(start+max, len(runes))
		if end < len(runes) {
			// Back up to the last space so words stay whole.
			split := end
			for split > start && !unicode.IsSpace(runes[split]) {
				split--
			}
			if split > start {
				end = split
			}
		}
		chunks = append(chunks, string(runes[start:end]))
		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		start = end
	}
	return chunks
}
