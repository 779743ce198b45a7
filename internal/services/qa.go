package services

import (
	"context"
	"encoding/base64"

	"github.com/verse2vision-story-api/internal/generation"
	"github.com/verse2vision-story-api/internal/models"
	"github.com/verse2vision-story-api/internal/prompts"
)

// DefaultTopK is how many verses ground an answer or an image explanation
// when no override is configured.
const DefaultTopK = 5

// QAService answers questions and explains images, grounded in retrieved
// verses.
type QAService struct {
	retrieval *RetrievalService
	textGen   generation.TextGenerator
	captioner generation.VisionCaptioner
	speech    generation.SpeechSynthesizer
	topK      int
}

// NewQAService creates a new QA service. captioner and speech may be nil;
// the corresponding features then report unavailability per request. topK
// below 1 falls back to DefaultTopK.
func NewQAService(
	retrieval *RetrievalService,
	textGen generation.TextGenerator,
	captioner generation.VisionCaptioner,
	speech generation.SpeechSynthesizer,
	topK int,
) *QAService {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &QAService{
		retrieval: retrieval,
		textGen:   textGen,
		captioner: captioner,
		speech:    speech,
		topK:      topK,
	}
}

// Ask answers a question using retrieved verse context.
func (s *QAService) Ask(ctx context.Context, question string) (*models.AskResponse, error) {
	results, err := s.retrieval.Retrieve(ctx, question, s.topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.AskResponse{Question: question}, nil
	}

	answer, err := s.textGen.Generate(ctx, prompts.BuildQA(question, results))
	if err != nil {
		return nil, err
	}

	resp := &models.AskResponse{
		Question: question,
		Answer:   answer,
		Sources:  ToScoredVerses(results),
	}
	if audio, ok := s.maybeNarrate(ctx, answer); ok {
		resp.AudioB64 = audio
	}
	return resp, nil
}

// AnalyzeImage captions an image, retrieves verses matching the caption, and
// explains the image through them.
func (s *QAService) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*models.ImageAnalysisResponse, error) {
	if s.captioner == nil {
		return nil, models.ErrGeneration
	}

	caption, err := s.captioner.Caption(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}

	results, err := s.retrieval.Retrieve(ctx, caption, s.topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.ImageAnalysisResponse{Caption: caption}, nil
	}

	narrative, err := s.textGen.Generate(ctx, prompts.BuildImageToText(caption, results))
	if err != nil {
		return nil, err
	}

	resp := &models.ImageAnalysisResponse{
		Caption:   caption,
		Narrative: narrative,
		Sources:   ToScoredVerses(results),
	}
	if audio, ok := s.maybeNarrate(ctx, narrative); ok {
		resp.AudioB64 = audio
	}
	return resp, nil
}

func (s *QAService) maybeNarrate(ctx context.Context, text string) (string, bool) {
	if s.speech == nil || text == "" {
		return "", false
	}
	audio, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(audio), true
}
