// Package credentials resolves API keys from an ordered chain of sources.
package credentials

import (
	"os"
	"strings"

	"github.com/verse2vision-story-api/internal/models"
)

// minKeyLength filters out placeholder values left in key files.
const minKeyLength = 11

// Source produces a credential value, or "" when this source has none.
type Source func() string

// File reads a credential from a key file. Placeholder text (PASTE_YOUR_...)
// and implausibly short values are treated as absent.
func File(path string) Source {
	return func() string {
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		value := strings.TrimSpace(string(data))
		if len(value) < minKeyLength || strings.HasPrefix(value, "PASTE_YOUR_") {
			return ""
		}
		return value
	}
}

// Value uses an explicitly supplied credential.
func Value(s string) Source {
	return func() string {
		return strings.TrimSpace(s)
	}
}

// Env reads a credential from an environment variable.
func Env(key string) Source {
	return func() string {
		return strings.TrimSpace(os.Getenv(key))
	}
}

// Resolve returns the first non-empty credential in source order.
func Resolve(sources ...Source) (string, error) {
	for _, source := range sources {
		if value := source(); value != "" {
			return value, nil
		}
	}
	return "", models.ErrMissingCredential
}
