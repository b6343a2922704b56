package video

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"shortreel/config"
)

func testVideoConfig() config.VideoConfig {
	return config.VideoConfig{Width: 1080, Height: 1920, FPS: 24, Preset: "fast", CRF: 23}
}

func TestCoverCropFilter(t *testing.T) {
	assert.Equal(t,
		"scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920,setsar=1",
		coverCropFilter(1080, 1920))
}

func TestLoopCount(t *testing.T) {
	// 3s source into a 10s slot needs the input four times
	assert.Equal(t, 4, loopCount(3, 10))
	// source already covers the slot: one pass, -t trims
	assert.Equal(t, 1, loopCount(12, 10))
	assert.Equal(t, 2, loopCount(10, 10))
	// unmeasurable source degrades to a single pass
	assert.Equal(t, 1, loopCount(0, 10))
	assert.Equal(t, 1, loopCount(-1, 10))
}

func TestFillerArgs(t *testing.T) {
	f := NewFitter(testVideoConfig(), zerolog.Nop())
	args := f.fillerArgs(4.5, "out.mp4")

	assert.Contains(t, args, "lavfi")
	assert.Contains(t, args, "color=c=black:s=1080x1920")
	assert.Contains(t, args, "4.500")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestStillArgsHoldAndCrop(t *testing.T) {
	f := NewFitter(testVideoConfig(), zerolog.Nop())
	args := f.stillArgs("cat.jpg", 3.2, "out.mp4")

	assert.Contains(t, args, "-loop")
	assert.Contains(t, args, "cat.jpg")
	assert.Contains(t, args, "3.200")
	assert.Contains(t, args, coverCropFilter(1080, 1920))
	assert.Contains(t, args, "-an", "fitted clips carry no audio")
}

func TestClipArgsTrimLongSource(t *testing.T) {
	f := NewFitter(testVideoConfig(), zerolog.Nop())
	args := f.clipArgs("clip.mp4", 12.0, 5.0, "out.mp4")

	assert.NotContains(t, args, "-stream_loop", "source longer than target is trimmed, not looped")
	assert.Contains(t, args, "5.000")
	assert.Contains(t, args, coverCropFilter(1080, 1920))
}

func TestClipArgsLoopShortSource(t *testing.T) {
	f := NewFitter(testVideoConfig(), zerolog.Nop())
	args := f.clipArgs("clip.mp4", 3.0, 10.0, "out.mp4")

	assert.Contains(t, args, "-stream_loop")
	assert.Contains(t, args, "4")
	assert.Contains(t, args, "10.000")
}

func TestFormatSec(t *testing.T) {
	assert.Equal(t, "2.000", formatSec(2))
	assert.Equal(t, "0.333", formatSec(1.0/3.0))
}
