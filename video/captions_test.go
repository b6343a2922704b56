package video

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortreel/config"
	"shortreel/types"
)

func testCaptionsConfig() config.CaptionsConfig {
	return config.CaptionsConfig{
		Font:          "/fonts/sans.ttf",
		FontSize:      60,
		TitleFontSize: 90,
		StrokeWidth:   4,
		TitleY:        200,
		CaptionY:      1500,
		MinVisibleSec: 0.1,
		WordLevel:     true,
	}
}

func TestCaptionFiltersTitlePersistsWholeScene(t *testing.T) {
	scene := types.Scene{TextOverlay: "The Verdict"}
	narr := types.NarrationResult{DurationSec: 6.5}

	filters := CaptionFilters(scene, narr, testCaptionsConfig())

	require.Len(t, filters, 1)
	assert.Contains(t, filters[0], "text='The Verdict'")
	assert.Contains(t, filters[0], "fontsize=90")
	assert.Contains(t, filters[0], "y=200")
	assert.Contains(t, filters[0], "between(t,0.000,6.500)")
}

func TestCaptionFiltersWordLevelTimings(t *testing.T) {
	narr := types.NarrationResult{
		DurationSec: 2.0,
		Words: []types.WordTiming{
			{Word: "Hello", StartS: 0.0, EndS: 0.5},
			{Word: "world", StartS: 0.5, EndS: 1.2},
		},
	}

	filters := CaptionFilters(types.Scene{}, narr, testCaptionsConfig())

	require.Len(t, filters, 2)
	assert.Contains(t, filters[0], "text='Hello'")
	assert.Contains(t, filters[0], "between(t,0.000,0.500)")
	assert.Contains(t, filters[1], "between(t,0.500,1.200)")
	assert.Contains(t, filters[1], "y=1500")
}

func TestCaptionFiltersMinVisibleClamp(t *testing.T) {
	narr := types.NarrationResult{
		DurationSec: 2.0,
		Words:       []types.WordTiming{{Word: "a", StartS: 1.0, EndS: 1.02}},
	}

	filters := CaptionFilters(types.Scene{}, narr, testCaptionsConfig())

	require.Len(t, filters, 1)
	assert.Contains(t, filters[0], "between(t,1.000,1.100)", "a 20ms window is stretched to the minimum")
}

func TestCaptionFiltersFullScriptFallback(t *testing.T) {
	scene := types.Scene{Script: "No timings came back."}
	narr := types.NarrationResult{DurationSec: 3.0}

	filters := CaptionFilters(scene, narr, testCaptionsConfig())

	require.Len(t, filters, 1)
	assert.Contains(t, filters[0], "No timings came back")
	assert.Contains(t, filters[0], "between(t,0.000,3.000)")
}

func TestCaptionFiltersWordLevelDisabled(t *testing.T) {
	cfg := testCaptionsConfig()
	cfg.WordLevel = false
	scene := types.Scene{Script: "whole script"}
	narr := types.NarrationResult{
		DurationSec: 3.0,
		Words:       []types.WordTiming{{Word: "whole", StartS: 0, EndS: 1}},
	}

	filters := CaptionFilters(scene, narr, cfg)

	require.Len(t, filters, 1)
	assert.Contains(t, filters[0], "text='whole script'")
}

func TestCaptionFiltersEmptySceneHasNoFilters(t *testing.T) {
	assert.Empty(t, CaptionFilters(types.Scene{}, types.NarrationResult{DurationSec: 2}, testCaptionsConfig()))
}

func TestEscapeDrawtext(t *testing.T) {
	got := escapeDrawtext(`it's 100%: a,b\c`)
	assert.Equal(t, `it\'s 100\%\: a\,b\\c`, got)
	assert.False(t, strings.ContainsRune(got, ';'))
}
