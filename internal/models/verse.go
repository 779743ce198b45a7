package models

// VerseEntry is one record of the static knowledge base. Entries are immutable
// once loaded; Tags and Emotions are unordered free-form keyword sets.
type VerseEntry struct {
	ID                  string   `json:"id" db:"id"`
	VerseNumber         int      `json:"verse_number" db:"verse_number"`
	TextSanskrit        string   `json:"text_sanskrit" db:"text_sanskrit"`
	TextTransliteration string   `json:"text_transliteration" db:"text_transliteration"`
	MeaningSimple       string   `json:"meaning_simple_en" db:"meaning_simple_en"`
	MeaningDetailed     string   `json:"meaning_detailed_en" db:"meaning_detailed_en"`
	ImagePrompt         string   `json:"image_prompt_en" db:"image_prompt_en"`
	StorySeed           string   `json:"story_seed_en" db:"story_seed_en"`
	Tags                []string `json:"tags"`
	Emotions            []string `json:"emotion"`
}

// RetrievalResult pairs a verse with its similarity score for a query.
// Scores are cosine similarities; higher is more relevant.
type RetrievalResult struct {
	Entry VerseEntry `json:"entry"`
	Score float64    `json:"score"`
}

// SceneDescription is one unit of a multi-part visual story as parsed from a
// generation response. Position is the 1-based ordinal within the story.
type SceneDescription struct {
	Position          int    `json:"position"`
	VisualDescription string `json:"visual_description"`
	Subtitle          string `json:"subtitle"`
}

// GeneratedScene is a scene with its generated image. Failed scenes keep their
// original position so surviving scenes are never renumbered.
type GeneratedScene struct {
	ID                string `json:"id"`
	Position          int    `json:"position"`
	VisualDescription string `json:"visual_description"`
	Subtitle          string `json:"subtitle"`
	ImageB64          string `json:"image_b64,omitempty"`
	Failed            bool   `json:"failed,omitempty"`
}
