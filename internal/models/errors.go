package models

import "errors"

// Sentinel errors for the retrieval and generation pipeline. Callers
// discriminate with errors.Is; wrapped errors carry the details.
var (
	// Knowledge base loading (fatal to startup).
	ErrKBNotFound   = errors.New("knowledge base file not found")
	ErrKBMalformed  = errors.New("knowledge base file malformed")
	ErrMissingField = errors.New("knowledge base record missing required field")
	ErrDuplicateID  = errors.New("duplicate verse id in knowledge base")

	// Embedding store (build fatal to startup, ErrNotBuilt is a programmer error).
	ErrEmbeddingBuild = errors.New("embedding build failed")
	ErrNotBuilt       = errors.New("embedding store not built")

	// External generation (recoverable, per-request).
	ErrGeneration = errors.New("text generation failed")

	// Scene parsing. ErrPartialScenes is returned alongside the recovered
	// scenes and is non-fatal; ErrNoScenes means nothing was recoverable.
	ErrNoScenes      = errors.New("no scenes recoverable from response")
	ErrPartialScenes = errors.New("fewer scenes recovered than expected")

	// Credential resolution.
	ErrMissingCredential = errors.New("credential not found in any source")
)
