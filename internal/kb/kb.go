// Package kb loads and writes the verse knowledge base file.
package kb

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/verse2vision-story-api/internal/models"
)

// file is the on-disk shape of the knowledge base.
type file struct {
	Entries []models.VerseEntry `json:"entries"`
}

// Load parses the knowledge base at path and returns entries in file order.
// Records with a missing id, or two records sharing an id, fail the load.
func Load(path string) ([]models.VerseEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrKBNotFound, path)
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrKBMalformed, err)
	}

	seen := make(map[string]bool, len(f.Entries))
	for i, entry := range f.Entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", models.ErrMissingField, i)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateID, entry.ID)
		}
		seen[entry.ID] = true
	}

	return f.Entries, nil
}

// Save writes entries to path in the same encoding Load reads, preserving
// every field and the given order.
func Save(path string, entries []models.VerseEntry) error {
	data, err := json.MarshalIndent(file{Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal knowledge base: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write knowledge base: %w", err)
	}
	return nil
}

// FindByID returns the entry with the given id, or nil.
func FindByID(entries []models.VerseEntry, id string) *models.VerseEntry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	return nil
}
