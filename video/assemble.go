package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Assembler concatenates per-scene composited clips into the final
// deliverable. The clips share codec settings, so the streams are copied;
// concat introduces no gaps and no overlaps.
type Assembler struct {
	log zerolog.Logger
}

// NewAssembler creates an Assembler
func NewAssembler(log zerolog.Logger) *Assembler {
	return &Assembler{log: log.With().Str("component", "assemble").Logger()}
}

// Concat joins clips in order into outFile
func (a *Assembler) Concat(ctx context.Context, clips []string, outFile string) error {
	if len(clips) == 0 {
		return fmt.Errorf("no clips to concatenate")
	}

	// the list file lives next to the clips, inside the temp workspace
	listFile := filepath.Join(filepath.Dir(clips[0]), "concat_list.txt")
	if err := os.WriteFile(listFile, []byte(ConcatList(clips)), 0644); err != nil {
		return err
	}

	a.log.Info().Int("clips", len(clips)).Str("out", outFile).Msg("concatenating timeline")
	return runFFmpeg(ctx, []string{"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-movflags", "+faststart",
		outFile,
	})
}

// ConcatList renders the ffmpeg concat demuxer file body
func ConcatList(clips []string) string {
	lines := make([]string, len(clips))
	for i, clip := range clips {
		lines[i] = fmt.Sprintf("file '%s'", clip)
	}
	return strings.Join(lines, "\n")
}
