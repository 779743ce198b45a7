// Package prompts assembles task-specific prompts from retrieved verses.
// Builders are pure string transforms: they never call external services and
// silently omit fields an entry does not carry.
package prompts

import (
	"fmt"
	"strings"

	"github.com/verse2vision-story-api/internal/models"
)

// SceneCount is the number of scenes a visual story is asked to contain.
const SceneCount = 3

// ComicStyleSuffix is appended to every scene's visual description before
// image generation to keep the story visually consistent.
const ComicStyleSuffix = ", Indian comic book illustration style, vibrant colors, " +
	"expressive characters, child-friendly, educational storytelling art, " +
	"visual narrative that tells a story, detailed scene"

// BuildQA builds a question-answering prompt grounded in the retrieved verses.
func BuildQA(question string, results []models.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("You are a knowledgeable guide to devotional verses. ")
	b.WriteString("Answer the question using only the verse context below. ")
	b.WriteString("If the context does not contain the answer, say so.\n\n")
	b.WriteString("Context:\n")
	for i, r := range results {
		writeVerseContext(&b, i+1, r.Entry)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", question)
	return b.String()
}

// BuildStory builds a prompt for a single continuous narrative from the
// retrieved verses' story seeds.
func BuildStory(results []models.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Write one continuous, child-friendly story that weaves together ")
	b.WriteString("the following narrative seeds. Keep it warm, vivid, and culturally ")
	b.WriteString("respectful. Do not number the seeds or split the story into parts.\n\n")
	n := 0
	for _, r := range results {
		seed := r.Entry.StorySeed
		if seed == "" {
			seed = r.Entry.MeaningSimple
		}
		if seed == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "Seed %d: %s\n", n, seed)
	}
	b.WriteString("\nStory:")
	return b.String()
}

// BuildSequentialStoryImages builds a prompt instructing the model to emit
// exactly SceneCount scenes in the labeled block format ParseSequential reads.
func BuildSequentialStoryImages(topic string, results []models.RetrievalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-scene visual story for children about: %s\n\n", SceneCount, topic)
	b.WriteString("Ground the story in these verses:\n")
	for i, r := range results {
		writeVerseContext(&b, i+1, r.Entry)
	}
	b.WriteString("\nRespond with exactly ")
	fmt.Fprintf(&b, "%d scenes in this format, and nothing else:\n\n", SceneCount)
	for i := 1; i <= SceneCount; i++ {
		fmt.Fprintf(&b, "Scene %d:\nVisual: <detailed visual description of the scene>\nSubtitle: <one short sentence a child can read>\n\n", i)
	}
	b.WriteString("The scenes must tell one continuous story in order.")
	return b.String()
}

// BuildImagePromptText turns a single entry's image seed into an
// image-generation-ready description.
func BuildImagePromptText(entry models.VerseEntry) string {
	seed := entry.ImagePrompt
	if seed == "" {
		seed = entry.MeaningSimple
	}
	return seed + ComicStyleSuffix
}

// BuildEnhancedImagePrompt asks the model to expand an entry's image seed into
// a richer description in the given style.
func BuildEnhancedImagePrompt(entry models.VerseEntry, style string) string {
	var b strings.Builder
	b.WriteString("Rewrite the following image idea as a single detailed ")
	b.WriteString("image-generation prompt")
	if style != "" {
		fmt.Fprintf(&b, " in %s style", style)
	}
	b.WriteString(". Respond with the prompt only.\n\n")
	if entry.ImagePrompt != "" {
		fmt.Fprintf(&b, "Image idea: %s\n", entry.ImagePrompt)
	}
	if entry.MeaningSimple != "" {
		fmt.Fprintf(&b, "Context: %s\n", entry.MeaningSimple)
	}
	return b.String()
}

// BuildImageToText builds a prompt that explains an image caption through the
// retrieved verses as a short narrative.
func BuildImageToText(caption string, results []models.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("An image was described as follows:\n")
	fmt.Fprintf(&b, "%q\n\n", caption)
	b.WriteString("Using the verses below, tell a short story that connects the image ")
	b.WriteString("to their meaning. Write for children, in plain language.\n\n")
	for i, r := range results {
		writeVerseContext(&b, i+1, r.Entry)
	}
	b.WriteString("\nStory:")
	return b.String()
}

// writeVerseContext appends one entry's populated fields as a context block.
func writeVerseContext(b *strings.Builder, n int, entry models.VerseEntry) {
	fmt.Fprintf(b, "Verse %d (%s):\n", n, entry.ID)
	if entry.TextTransliteration != "" {
		fmt.Fprintf(b, "  Text: %s\n", entry.TextTransliteration)
	}
	if entry.MeaningSimple != "" {
		fmt.Fprintf(b, "  Meaning: %s\n", entry.MeaningSimple)
	}
	if entry.MeaningDetailed != "" {
		fmt.Fprintf(b, "  Detail: %s\n", entry.MeaningDetailed)
	}
	if len(entry.Tags) > 0 {
		fmt.Fprintf(b, "  Themes: %s\n", strings.Join(entry.Tags, ", "))
	}
}
