package models

// SemanticSearchRequest is the request for semantic verse search
type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"min=1,max=20"`
}

// ScoredVerse is one semantic search hit
type ScoredVerse struct {
	VerseID       string  `json:"verse_id"`
	VerseNumber   int     `json:"verse_number"`
	MeaningSimple string  `json:"meaning_simple"`
	Score         float64 `json:"score"`
}

// SemanticSearchResponse is the response for semantic verse search
type SemanticSearchResponse struct {
	Query   string        `json:"query"`
	Results []ScoredVerse `json:"results"`
}

// TagMatch is one verse matched by tag/emotion keywords
type TagMatch struct {
	VerseID      string   `json:"verse_id"`
	VerseNumber  int      `json:"verse_number"`
	MatchedWords []string `json:"matched_words"`
	Score        float64  `json:"score"`
}

// HybridSearchRequest is the request for combined semantic + tag search
type HybridSearchRequest struct {
	Query      string `json:"query" validate:"required"`
	VerseLimit int    `json:"verse_limit" validate:"min=1,max=20"`
	TagLimit   int    `json:"tag_limit" validate:"min=1,max=20"`
}

// HybridSearchResponse is the response for combined semantic + tag search
type HybridSearchResponse struct {
	Query           string        `json:"query"`
	SemanticMatches []ScoredVerse `json:"semantic_matches"`
	TagMatches      []TagMatch    `json:"tag_matches"`
}

// AskRequest is the request for grounded question answering
type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// AskResponse is the response for grounded question answering
type AskResponse struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Sources  []ScoredVerse `json:"sources"`
	AudioB64 string        `json:"audio_b64,omitempty"`
}

// TextStoryRequest is the request for a narrative text story
type TextStoryRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// TextStoryResponse is the response for a narrative text story
type TextStoryResponse struct {
	Topic    string        `json:"topic"`
	Story    string        `json:"story"`
	Sources  []ScoredVerse `json:"sources"`
	AudioB64 string        `json:"audio_b64,omitempty"`
}

// VisualStoryRequest is the request for a multi-scene visual story
type VisualStoryRequest struct {
	Topic string `json:"topic" validate:"required"`
	TopK  int    `json:"top_k" validate:"min=1,max=5"`
}

// VisualStoryResponse is the response for a multi-scene visual story.
// Scenes keep their original ordinal positions even when some failed.
type VisualStoryResponse struct {
	Topic    string           `json:"topic"`
	Scenes   []GeneratedScene `json:"scenes"`
	Partial  bool             `json:"partial,omitempty"`
	AudioB64 string           `json:"audio_b64,omitempty"`
}

// ImageAnalysisResponse is the response for image analysis
type ImageAnalysisResponse struct {
	Caption   string        `json:"caption"`
	Narrative string        `json:"narrative"`
	Sources   []ScoredVerse `json:"sources"`
	AudioB64  string        `json:"audio_b64,omitempty"`
}
