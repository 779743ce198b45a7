package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/verse2vision-story-api/internal/generation"
	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/prompts"
	"github.com/verse2vision-story-api/internal/scenes"
)

// DefaultStoryTopK is how many verses seed a story when no override is
// configured.
const DefaultStoryTopK = 3

// StoryService orchestrates retrieval, prompt construction, generation, and
// scene assembly for story requests.
type StoryService struct {
	retrieval *RetrievalService
	textGen   generation.TextGenerator
	imageGen  generation.ImageGenerator
	speech    generation.SpeechSynthesizer
	topK      int
}

// NewStoryService creates a new story service. speech may be nil; stories
// are then returned without narration audio. topK below 1 falls back to
// DefaultStoryTopK.
func NewStoryService(
	retrieval *RetrievalService,
	textGen generation.TextGenerator,
	imageGen generation.ImageGenerator,
	speech generation.SpeechSynthesizer,
	topK int,
) *StoryService {
	if topK < 1 {
		topK = DefaultStoryTopK
	}
	return &StoryService{
		retrieval: retrieval,
		textGen:   textGen,
		imageGen:  imageGen,
		speech:    speech,
		topK:      topK,
	}
}

// CreateTextStory retrieves verses for the topic and generates one
// continuous narrative.
func (s *StoryService) CreateTextStory(ctx context.Context, topic string) (*models.TextStoryResponse, error) {
	results, err := s.retrieval.Retrieve(ctx, topic, s.topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.TextStoryResponse{Topic: topic}, nil
	}

	story, err := s.textGen.Generate(ctx, prompts.BuildStory(results))
	if err != nil {
		return nil, err
	}

	return &models.TextStoryResponse{
		Topic:    topic,
		Story:    story,
		Sources:  ToScoredVerses(results),
		AudioB64: s.narrate(ctx, story),
	}, nil
}

// CreateVisualStory generates a multi-scene illustrated story. Scene images
// are generated concurrently; one scene's failure never aborts the others,
// and surviving scenes keep their original positions. topK below 1 uses the
// service's configured value.
func (s *StoryService) CreateVisualStory(ctx context.Context, topic string, topK int) (*models.VisualStoryResponse, error) {
	if topK < 1 {
		topK = s.topK
	}
	results, err := s.retrieval.Retrieve(ctx, topic, topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.VisualStoryResponse{Topic: topic}, nil
	}

	raw, err := s.textGen.Generate(ctx, prompts.BuildSequentialStoryImages(topic, results))
	if err != nil {
		return nil, err
	}

	descriptions, parseErr := scenes.ParseSequential(raw)
	if parseErr != nil && len(descriptions) == 0 {
		return nil, parseErr
	}

	generated := s.generateScenes(ctx, descriptions)

	partial := parseErr != nil
	var narration []string
	for _, scene := range generated {
		if scene.Failed {
			partial = true
			continue
		}
		narration = append(narration, fmt.Sprintf("Scene %d: %s", scene.Position, scene.Subtitle))
	}

	resp := &models.VisualStoryResponse{
		Topic:   topic,
		Scenes:  generated,
		Partial: partial,
	}
	if len(narration) > 0 {
		resp.AudioB64 = s.narrate(ctx, strings.Join(narration, ". ")+".")
	}
	return resp, nil
}

// generateScenes runs image generation for every scene concurrently and
// reports each scene's outcome independently, in original scene order.
func (s *StoryService) generateScenes(ctx context.Context, descriptions []models.SceneDescription) []models.GeneratedScene {
	generated := make([]models.GeneratedScene, len(descriptions))

	var wg sync.WaitGroup
	for i, desc := range descriptions {
		generated[i] = models.GeneratedScene{
			ID:                uuid.NewString(),
			Position:          desc.Position,
			VisualDescription: desc.VisualDescription,
			Subtitle:          desc.Subtitle,
		}

		wg.Add(1)
		go func(i int, desc models.SceneDescription) {
			defer wg.Done()
			image, err := s.imageGen.Generate(ctx, desc.VisualDescription+prompts.ComicStyleSuffix)
			if err != nil {
				log.Printf("scene %d image generation failed: %v", desc.Position, err)
				generated[i].Failed = true
				return
			}
			generated[i].ImageB64 = base64.StdEncoding.EncodeToString(image)
		}(i, desc)
	}
	wg.Wait()

	return generated
}

// narrate synthesizes narration audio, returning "" when speech is
// unconfigured or unavailable.
func (s *StoryService) narrate(ctx context.Context, text string) string {
	if s.speech == nil || text == "" {
		return ""
	}
	audio, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		log.Printf("narration unavailable: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(audio)
}
