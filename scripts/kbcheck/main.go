// kbcheck validates the verse knowledge base file and reports field
// completeness, so gaps are caught before serving or upserting.
//
// Usage:
//
//	go run ./scripts/kbcheck [path]
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/verse2vision-story-api/internal/kb"
	"github.com/verse2vision-story-api/internal/models"
)

func main() {
	godotenv.Load()

	path := os.Getenv("KB_PATH")
	if path == "" {
		path = "data/kb.json"
	}
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	entries, err := kb.Load(path)
	if err != nil {
		log.Fatalf("Knowledge base check failed for %s: %v", path, err)
	}

	log.Printf("Loaded %d entries from %s", len(entries), path)

	report(entries, "text_sanskrit", func(e models.VerseEntry) bool { return e.TextSanskrit != "" })
	report(entries, "text_transliteration", func(e models.VerseEntry) bool { return e.TextTransliteration != "" })
	report(entries, "meaning_simple_en", func(e models.VerseEntry) bool { return e.MeaningSimple != "" })
	report(entries, "meaning_detailed_en", func(e models.VerseEntry) bool { return e.MeaningDetailed != "" })
	report(entries, "image_prompt_en", func(e models.VerseEntry) bool { return e.ImagePrompt != "" })
	report(entries, "story_seed_en", func(e models.VerseEntry) bool { return e.StorySeed != "" })
	report(entries, "tags", func(e models.VerseEntry) bool { return len(e.Tags) > 0 })
	report(entries, "emotion", func(e models.VerseEntry) bool { return len(e.Emotions) > 0 })

	log.Println("Knowledge base check passed")
}

func report(entries []models.VerseEntry, field string, present func(models.VerseEntry) bool) {
	missing := 0
	for _, e := range entries {
		if !present(e) {
			missing++
		}
	}
	if missing > 0 {
		log.Printf("  %-22s %d/%d entries missing", field, missing, len(entries))
	} else {
		log.Printf("  %-22s complete", field)
	}
}
