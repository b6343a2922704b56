package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"shortreel/types"
)

// Synthesizer turns script text into one audio file plus word timings
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outFile string) ([]types.WordTiming, error)
}

// Narrator produces per-scene narration. Each scene gets its own audio file
// so the scene's visual duration can be derived exactly from its narration;
// there is never one audio file for the whole video.
type Narrator struct {
	tts Synthesizer
	log zerolog.Logger
}

// NewNarrator creates a Narrator on top of a TTS engine
func NewNarrator(tts Synthesizer, log zerolog.Logger) *Narrator {
	return &Narrator{
		tts: tts,
		log: log.With().Str("component", "audio").Logger(),
	}
}

// Narrate synthesizes one scene's script. Failure here is fatal to the run;
// there is no substitute for missing narration.
func (n *Narrator) Narrate(ctx context.Context, index int, script, outFile string) (types.NarrationResult, error) {
	timings, err := n.tts.Synthesize(ctx, script, outFile)
	if err != nil {
		return types.NarrationResult{}, fmt.Errorf("scene %d narration: %w", index, err)
	}

	dur, err := audioDuration(outFile)
	if err != nil {
		if len(timings) == 0 {
			return types.NarrationResult{}, fmt.Errorf("scene %d narration duration: %w", index, err)
		}
		dur = timings[len(timings)-1].EndS
		n.log.Warn().Err(err).Int("scene", index).Float64("fallback_sec", dur).
			Msg("ffprobe failed, using last word boundary as duration")
	}

	n.log.Info().Int("scene", index).Float64("sec", dur).Int("words", len(timings)).
		Msg("narration ready")

	return types.NarrationResult{
		SceneIndex:  index,
		AudioPath:   outFile,
		DurationSec: dur,
		Words:       timings,
	}, nil
}

// audioDuration measures the real audio length with ffprobe
func audioDuration(audioFile string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}
