package scenes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verse2vision-story-api/internal/models"
)

func TestParseSequential_ThreeScenes(t *testing.T) {
	raw := `Scene 1:
Visual: A young monkey leaps toward the rising sun over the ocean.
Subtitle: Hanuman sets out on his great journey.

Scene 2:
Visual: A vast mountain glowing with healing herbs under moonlight.
Subtitle: He finds the mountain of medicine.

Scene 3:
Visual: The monkey carries the whole mountain across the night sky.
Subtitle: Hanuman brings the mountain home.`

	scenes, err := ParseSequential(raw)
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	for i, scene := range scenes {
		assert.Equal(t, i+1, scene.Position)
		assert.NotEmpty(t, scene.VisualDescription)
		assert.NotEmpty(t, scene.Subtitle)
	}
	assert.Contains(t, scenes[0].VisualDescription, "rising sun")
	assert.Equal(t, "Hanuman brings the mountain home.", scenes[2].Subtitle)
}

func TestParseSequential_FormattingDrift(t *testing.T) {
	// Casing, markdown emphasis, alternate labels, numbering style.
	raw := `Here are your scenes!

**SCENE 1**
**Visual Description:** A temple courtyard at dawn.
**Caption:** The day begins with a prayer.

2.
description - A river crossing in heavy rain.
subtitle - The travellers press on together.

Image 3:
Visual: A festival of lamps filling the town square.
Subtitle: Light returns to every home.`

	scenes, err := ParseSequential(raw)
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	assert.Equal(t, "A temple courtyard at dawn.", scenes[0].VisualDescription)
	assert.Equal(t, "The day begins with a prayer.", scenes[0].Subtitle)
	assert.Equal(t, 2, scenes[1].Position)
	assert.Equal(t, "The travellers press on together.", scenes[1].Subtitle)
	assert.Equal(t, 3, scenes[2].Position)
}

func TestParseSequential_TitledHeaders(t *testing.T) {
	// Headers often carry a title after the number; it is not a field.
	raw := `Scene 1: The Great Leap
Visual: A monkey springs from a cliff toward the sea.
Subtitle: The journey begins.

**Scene 2: The Mountain of Herbs**
Visual: A glowing peak under the stars.
Subtitle: Hope grows on the mountainside.

Scene 3 - The Return
Visual: The hero flies home at dawn.
Subtitle: The kingdom rejoices.`

	scenes, err := ParseSequential(raw)
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	for i, scene := range scenes {
		assert.Equal(t, i+1, scene.Position)
	}
	assert.Equal(t, "A monkey springs from a cliff toward the sea.", scenes[0].VisualDescription)
	assert.Equal(t, "Hope grows on the mountainside.", scenes[1].Subtitle)
	assert.NotContains(t, scenes[2].VisualDescription, "The Return")
}

func TestParseSequential_MultilineFields(t *testing.T) {
	raw := `Scene 1:
Visual: A forest clearing where
a deer drinks from a stream.
Subtitle: Peace in the forest.

Scene 2:
Visual: x
Subtitle: y

Scene 3:
Visual: z
Subtitle: w`

	scenes, err := ParseSequential(raw)
	require.NoError(t, err)
	assert.Equal(t, "A forest clearing where a deer drinks from a stream.",
		scenes[0].VisualDescription)
}

func TestParseSequential_PartialRecovery(t *testing.T) {
	// Two well-formed blocks plus a malformed trailing fragment.
	raw := `Scene 1:
Visual: A boat on a calm river.
Subtitle: The crossing begins.

Scene 2:
Visual: A storm gathers on the horizon.
Subtitle: Courage is tested.

Scene 3:
Visual: unfinished`

	scenes, err := ParseSequential(raw)
	require.ErrorIs(t, err, models.ErrPartialScenes)
	require.Len(t, scenes, 2)
	assert.Equal(t, 1, scenes[0].Position)
	assert.Equal(t, 2, scenes[1].Position)
}

func TestParseSequential_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\t\n  "} {
		_, err := ParseSequential(raw)
		assert.ErrorIs(t, err, models.ErrNoScenes)
	}
}

func TestParseSequential_NoRecoverableScenes(t *testing.T) {
	_, err := ParseSequential("The model refused to answer in the requested format.")
	assert.ErrorIs(t, err, models.ErrNoScenes)
}

func TestParseSequential_PreambleIgnored(t *testing.T) {
	raw := `Sure! Here is a three-scene story:

Scene 1:
Visual: a
Subtitle: b

Scene 2:
Visual: c
Subtitle: d

Scene 3:
Visual: e
Subtitle: f

Hope you like it!`

	scenes, err := ParseSequential(raw)
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	// Trailing chatter attaches to the last open field, not a new scene.
	assert.Equal(t, 3, scenes[2].Position)
}
