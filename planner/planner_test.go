package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortreel/types"
)

func TestParseTimeline(t *testing.T) {
	raw := `{"timeline":[
		{"visual_query":"golden retriever close-up","text_overlay":"MEET MAX","script":"Max is no ordinary dog.","duration":6},
		{"visual_query":"golden retriever running beach wide shot","text_overlay":"","script":"Every morning he runs five miles.","duration":8}
	]}`

	scenes, err := ParseTimeline(raw)
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, "golden retriever close-up", scenes[0].VisualQuery)
	assert.Equal(t, "MEET MAX", scenes[0].TextOverlay)
	assert.Equal(t, 6, scenes[0].DurationHint)
}

func TestParseTimelineStripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"timeline\":[{\"visual_query\":\"q\",\"script\":\"s\",\"duration\":5}]}\n```"

	scenes, err := ParseTimeline(raw)
	require.NoError(t, err)
	assert.Len(t, scenes, 1)
}

func TestParseTimelineRejectsNonJSON(t *testing.T) {
	_, err := ParseTimeline("Sure! Here is your timeline: ...")
	assert.Error(t, err)
}

func TestValidateEmptyTimeline(t *testing.T) {
	err := Validate(nil)
	assert.ErrorIs(t, err, ErrEmptyTimeline)

	_, err = ParseTimeline(`{"timeline":[]}`)
	assert.ErrorIs(t, err, ErrEmptyTimeline)
}

func TestValidateSceneContract(t *testing.T) {
	err := Validate([]types.Scene{{VisualQuery: "  ", Script: "s"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "visual_query")

	err = Validate([]types.Scene{
		{VisualQuery: "q", Script: "s"},
		{VisualQuery: "q2", Script: ""},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene 1")
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON(`  {"a":1}  `))
}
