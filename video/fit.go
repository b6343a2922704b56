package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"shortreel/config"
	"shortreel/types"
)

// Fitter normalizes a resolved asset into a clip of exactly the target
// duration at the target frame. Images are held, short videos looped, long
// videos trimmed from the start, missing assets replaced with solid filler.
type Fitter struct {
	cfg config.VideoConfig
	log zerolog.Logger
}

// NewFitter creates a Fitter for the configured frame
func NewFitter(cfg config.VideoConfig, log zerolog.Logger) *Fitter {
	return &Fitter{
		cfg: cfg,
		log: log.With().Str("component", "fit").Logger(),
	}
}

// Fit renders the asset to outFile at exactly durationSec
func (f *Fitter) Fit(ctx context.Context, asset types.ResolvedAsset, durationSec float64, outFile string) error {
	var args []string
	switch asset.Kind {
	case types.AssetNone:
		args = f.fillerArgs(durationSec, outFile)
	case types.AssetImage:
		args = f.stillArgs(asset.LocalPath, durationSec, outFile)
	case types.AssetVideo:
		srcDur, err := mediaDuration(asset.LocalPath)
		if err != nil {
			// assume same length if we can't measure; trim path handles it
			srcDur = durationSec
		}
		args = f.clipArgs(asset.LocalPath, srcDur, durationSec, outFile)
	default:
		return fmt.Errorf("unknown asset kind %q", asset.Kind)
	}

	f.log.Debug().Str("kind", string(asset.Kind)).Float64("sec", durationSec).Str("out", outFile).
		Msg("fitting visual")
	return runFFmpeg(ctx, args)
}

// coverCropFilter scales the source to cover the target frame and center
// crops the overflow: a relatively wider source is scaled to the target
// height and loses width, a taller one is scaled to the target width and
// loses height. No letterboxing, no distortion.
func coverCropFilter(w, h int) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1", w, h, w, h)
}

// loopCount returns how many extra input repetitions cover the target
// duration; -t trims the overshoot
func loopCount(srcDur, targetDur float64) int {
	if srcDur <= 0 {
		return 1
	}
	return int(targetDur/srcDur) + 1
}

func (f *Fitter) fillerArgs(dur float64, outFile string) []string {
	args := []string{"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d", f.cfg.Width, f.cfg.Height),
		"-t", formatSec(dur),
	}
	return append(args, f.encodeArgs(outFile)...)
}

func (f *Fitter) stillArgs(imgPath string, dur float64, outFile string) []string {
	args := []string{"-y",
		"-loop", "1",
		"-i", imgPath,
		"-t", formatSec(dur),
		"-vf", coverCropFilter(f.cfg.Width, f.cfg.Height),
	}
	return append(args, f.encodeArgs(outFile)...)
}

func (f *Fitter) clipArgs(clipPath string, srcDur, dur float64, outFile string) []string {
	var args []string
	if srcDur >= dur {
		args = []string{"-y", "-i", clipPath}
	} else {
		args = []string{"-y",
			"-stream_loop", strconv.Itoa(loopCount(srcDur, dur)),
			"-i", clipPath,
		}
	}
	args = append(args,
		"-t", formatSec(dur),
		"-vf", coverCropFilter(f.cfg.Width, f.cfg.Height),
	)
	return append(args, f.encodeArgs(outFile)...)
}

func (f *Fitter) encodeArgs(outFile string) []string {
	return []string{
		"-c:v", "libx264",
		"-preset", f.cfg.Preset,
		"-crf", strconv.Itoa(f.cfg.CRF),
		"-r", strconv.Itoa(f.cfg.FPS),
		"-pix_fmt", "yuv420p",
		"-an",
		outFile,
	}
}

func formatSec(sec float64) string {
	return fmt.Sprintf("%.3f", sec)
}

func runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s: %w", args[len(args)-1], err)
	}
	return nil
}

// mediaDuration measures a file's duration with ffprobe
func mediaDuration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}
