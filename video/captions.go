package video

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"shortreel/config"
	"shortreel/types"
)

// Compositor burns captions over a fitted visual and attaches the narration
// audio track. Caption elements never alter the clip's duration.
type Compositor struct {
	video    config.VideoConfig
	captions config.CaptionsConfig
	log      zerolog.Logger
}

// NewCompositor creates a Compositor
func NewCompositor(video config.VideoConfig, captions config.CaptionsConfig, log zerolog.Logger) *Compositor {
	return &Compositor{
		video:    video,
		captions: captions,
		log:      log.With().Str("component", "captions").Logger(),
	}
}

// Burn composites title and captions over fittedVideo, muxes in the
// narration audio, and writes a clip of exactly the narration duration
func (c *Compositor) Burn(ctx context.Context, fittedVideo string, scene types.Scene, narr types.NarrationResult, outFile string) error {
	args := []string{"-y",
		"-i", fittedVideo,
		"-i", narr.AudioPath,
	}

	if filters := CaptionFilters(scene, narr, c.captions); len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}

	args = append(args,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "libx264",
		"-preset", c.video.Preset,
		"-crf", strconv.Itoa(c.video.CRF),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-t", formatSec(narr.DurationSec),
		outFile,
	)

	c.log.Debug().Int("scene", narr.SceneIndex).Int("words", len(narr.Words)).Str("out", outFile).
		Msg("compositing captions")
	return runFFmpeg(ctx, args)
}

// CaptionFilters builds the drawtext chain for one scene: a persistent top
// title from the overlay text, then either one caption element per word
// (when timings exist) or the full script held for the whole scene. Word
// windows shorter than MinVisibleSec are stretched to it so no caption
// flashes imperceptibly.
func CaptionFilters(scene types.Scene, narr types.NarrationResult, cfg config.CaptionsConfig) []string {
	var filters []string

	if title := strings.TrimSpace(scene.TextOverlay); title != "" {
		filters = append(filters, drawtext(cfg, title, cfg.TitleFontSize, cfg.TitleY, 0, narr.DurationSec))
	}

	if cfg.WordLevel && len(narr.Words) > 0 {
		for _, w := range narr.Words {
			end := w.EndS
			if end-w.StartS < cfg.MinVisibleSec {
				end = w.StartS + cfg.MinVisibleSec
			}
			filters = append(filters, drawtext(cfg, w.Word, cfg.FontSize, cfg.CaptionY, w.StartS, end))
		}
		return filters
	}

	if script := strings.TrimSpace(scene.Script); script != "" {
		filters = append(filters, drawtext(cfg, script, cfg.FontSize, cfg.CaptionY, 0, narr.DurationSec))
	}
	return filters
}

func drawtext(cfg config.CaptionsConfig, text string, size, y int, start, end float64) string {
	return fmt.Sprintf(
		"drawtext=fontfile=%s:text='%s':fontsize=%d:fontcolor=white:borderw=%d:bordercolor=black:x=(w-text_w)/2:y=%d:enable='between(t,%.3f,%.3f)'",
		cfg.Font, escapeDrawtext(text), size, cfg.StrokeWidth, y, start, end,
	)
}

var drawtextEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
	`%`, `\%`,
	`,`, `\,`,
)

func escapeDrawtext(s string) string {
	return drawtextEscaper.Replace(s)
}
