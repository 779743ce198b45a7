package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_FirstModelSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client, err := NewClient(Config{Token: "hf-test-token", BaseURL: server.URL})
	require.NoError(t, err)

	data, err := client.Generate(context.Background(), "a sunset over mountains")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestGenerate_FallsBackToNextModel(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if strings.Contains(r.URL.Path, "sdxl-turbo") {
			// First model still loading.
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fallback-image"))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Token:   "hf-test-token",
		BaseURL: server.URL,
		Models:  []string{"stabilityai/sdxl-turbo", "runwayml/stable-diffusion-v1-5"},
	})
	require.NoError(t, err)

	data, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback-image"), data)
	assert.Len(t, calls, 2)
}

func TestGenerate_AllModelsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(Config{Token: "hf-test-token", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all models failed")
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
