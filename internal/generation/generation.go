// Package generation defines the interfaces for external generative
// services. Implementations live in the provider subpackages and are
// swappable; services depend only on these interfaces.
package generation

import "context"

// TextGenerator produces freeform text from a prompt.
type TextGenerator interface {
	// Generate returns the model's completion for the prompt. Failures wrap
	// models.ErrGeneration.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces an image from a visual description.
// A failed generation is non-fatal to multi-scene stories: callers track
// per-scene success independently.
type ImageGenerator interface {
	// Generate returns encoded image bytes for the prompt.
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// VisionCaptioner describes an image in natural language.
type VisionCaptioner interface {
	// Caption returns a natural-language description of the image.
	Caption(ctx context.Context, image []byte, mimeType string) (string, error)
}

// SpeechSynthesizer turns narration text into audio. Unavailability is
// non-fatal; callers treat a failure as "no audio".
type SpeechSynthesizer interface {
	// Synthesize returns encoded audio bytes for the text.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
