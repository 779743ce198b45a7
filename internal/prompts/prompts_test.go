package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verse2vision-story-api/internal/models"
)

func sampleResults() []models.RetrievalResult {
	return []models.RetrievalResult{
		{
			Entry: models.VerseEntry{
				ID:                  "hc-1",
				TextTransliteration: "shri guru charan saroj raj",
				MeaningSimple:       "Honouring the teacher",
				MeaningDetailed:     "The poet bows to the guru before beginning.",
				StorySeed:           "A student seeks blessings",
				ImagePrompt:         "a devotee bowing at sunrise",
				Tags:                []string{"devotion", "guru"},
			},
			Score: 0.9,
		},
		{
			Entry: models.VerseEntry{ID: "hc-2", MeaningSimple: "A prayer for courage"},
			Score: 0.7,
		},
	}
}

func TestBuildQA_IncludesQuestionAndContext(t *testing.T) {
	prompt := BuildQA("What does the first verse mean?", sampleResults())

	assert.Contains(t, prompt, "Question: What does the first verse mean?")
	assert.Contains(t, prompt, "hc-1")
	assert.Contains(t, prompt, "Honouring the teacher")
	assert.Contains(t, prompt, "devotion, guru")
	assert.Contains(t, prompt, "A prayer for courage")
}

func TestBuildQA_OmitsEmptyFields(t *testing.T) {
	prompt := BuildQA("q", sampleResults())

	// hc-2 has no transliteration or tags; their labels must not appear
	// inside its block.
	block := prompt[strings.Index(prompt, "hc-2"):]
	assert.NotContains(t, block, "Text:")
	assert.NotContains(t, block, "Themes:")
}

func TestBuildQA_Deterministic(t *testing.T) {
	a := BuildQA("q", sampleResults())
	b := BuildQA("q", sampleResults())
	assert.Equal(t, a, b)
}

func TestBuildStory_UsesSeeds(t *testing.T) {
	prompt := BuildStory(sampleResults())

	assert.Contains(t, prompt, "Seed 1: A student seeks blessings")
	// hc-2 has no story seed; its simple meaning substitutes.
	assert.Contains(t, prompt, "Seed 2: A prayer for courage")
}

func TestBuildStory_SkipsEntriesWithNothingToTell(t *testing.T) {
	results := []models.RetrievalResult{{Entry: models.VerseEntry{ID: "empty"}}}
	prompt := BuildStory(results)
	assert.NotContains(t, prompt, "Seed 1")
}

func TestBuildSequentialStoryImages_FormatInstructions(t *testing.T) {
	prompt := BuildSequentialStoryImages("Hanuman meets Rama", sampleResults())

	assert.Contains(t, prompt, "Hanuman meets Rama")
	for _, label := range []string{"Scene 1:", "Scene 2:", "Scene 3:"} {
		assert.Contains(t, prompt, label)
	}
	assert.Contains(t, prompt, "Visual:")
	assert.Contains(t, prompt, "Subtitle:")
}

func TestBuildImagePromptText(t *testing.T) {
	prompt := BuildImagePromptText(sampleResults()[0].Entry)
	assert.True(t, strings.HasPrefix(prompt, "a devotee bowing at sunrise"))
	assert.Contains(t, prompt, "comic book illustration style")
}

func TestBuildImagePromptText_FallsBackToMeaning(t *testing.T) {
	prompt := BuildImagePromptText(models.VerseEntry{MeaningSimple: "a prayer"})
	assert.True(t, strings.HasPrefix(prompt, "a prayer"))
}

func TestBuildEnhancedImagePrompt(t *testing.T) {
	prompt := BuildEnhancedImagePrompt(sampleResults()[0].Entry, "watercolor")
	assert.Contains(t, prompt, "watercolor style")
	assert.Contains(t, prompt, "a devotee bowing at sunrise")
}

func TestBuildImageToText(t *testing.T) {
	prompt := BuildImageToText("a monkey carrying a mountain", sampleResults())
	assert.Contains(t, prompt, `"a monkey carrying a mountain"`)
	assert.Contains(t, prompt, "hc-1")
}
