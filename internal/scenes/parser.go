// Package scenes extracts structured scene descriptions from freeform
// generation output. The upstream model's formatting is not contractually
// guaranteed, so parsing is a tolerant line-oriented scan for scene boundary
// markers and field labels rather than a strict grammar.
package scenes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/verse2vision-story-api/internal/models"
)

// ExpectedScenes is how many scenes a normal sequential-story response holds.
const ExpectedScenes = 3

var (
	// "Scene 2:", "SCENE 2", "**Image 2**", "Panel 2)", "Scene 1: The Great Leap"
	sceneBoundary = regexp.MustCompile(`(?i)^[\s*#>-]*(?:scene|image|panel)\s*(\d+)(?:[\s*:.)\-].*)?$`)
	// "2.", "2)", "2:"
	numberBoundary = regexp.MustCompile(`^\s*(\d+)\s*[.:)]\s*$`)
	// "Visual: ...", "visual description - ...", "**Description:** ..."
	visualLabel = regexp.MustCompile(`(?i)^[\s*>-]*(?:visual(?:\s+description)?|description)\s*[:\-]\s*(.*)$`)
	// "Subtitle: ...", "Caption - ..."
	subtitleLabel = regexp.MustCompile(`(?i)^[\s*>-]*(?:subtitle|caption)\s*[:\-]\s*(.*)$`)
)

type field int

const (
	fieldNone field = iota
	fieldVisual
	fieldSubtitle
)

// scene accumulates one block's fields during the scan.
type scene struct {
	number   int
	visual   []string
	subtitle []string
	current  field
}

func (s *scene) append(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	switch s.current {
	case fieldVisual:
		s.visual = append(s.visual, text)
	case fieldSubtitle:
		s.subtitle = append(s.subtitle, text)
	}
}

func (s *scene) wellFormed() bool {
	return len(s.visual) > 0 && len(s.subtitle) > 0
}

// ParseSequential extracts ordered scene descriptions from raw generation
// output. It returns as many well-formed scenes as it can recover: fewer than
// ExpectedScenes comes with models.ErrPartialScenes (non-fatal, the scenes are
// still valid), zero with models.ErrNoScenes.
func ParseSequential(raw string) ([]models.SceneDescription, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty response", models.ErrNoScenes)
	}

	var blocks []*scene
	var current *scene

	for _, line := range strings.Split(raw, "\n") {
		if m := sceneBoundary.FindStringSubmatch(line); m != nil {
			current = startScene(&blocks, m[1])
			continue
		}
		if m := numberBoundary.FindStringSubmatch(line); m != nil {
			current = startScene(&blocks, m[1])
			continue
		}
		if current == nil {
			// Preamble before the first boundary is ignored.
			continue
		}
		if m := visualLabel.FindStringSubmatch(line); m != nil {
			current.current = fieldVisual
			current.append(trimDecoration(m[1]))
			continue
		}
		if m := subtitleLabel.FindStringSubmatch(line); m != nil {
			current.current = fieldSubtitle
			current.append(trimDecoration(m[1]))
			continue
		}
		// Continuation of whichever field is open.
		current.append(trimDecoration(line))
	}

	var results []models.SceneDescription
	for i, block := range blocks {
		if !block.wellFormed() {
			continue
		}
		position := block.number
		if position <= 0 {
			position = i + 1
		}
		results = append(results, models.SceneDescription{
			Position:          position,
			VisualDescription: strings.Join(block.visual, " "),
			Subtitle:          strings.Join(block.subtitle, " "),
		})
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no well-formed scene blocks", models.ErrNoScenes)
	}
	if len(results) < ExpectedScenes {
		return results, fmt.Errorf("%w: recovered %d of %d",
			models.ErrPartialScenes, len(results), ExpectedScenes)
	}
	return results, nil
}

func startScene(blocks *[]*scene, number string) *scene {
	n, _ := strconv.Atoi(number)
	s := &scene{number: n}
	*blocks = append(*blocks, s)
	return s
}

// trimDecoration strips markdown emphasis left around captured values.
func trimDecoration(s string) string {
	return strings.Trim(strings.TrimSpace(s), "*_ ")
}
