package video

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"shortreel/config"
	"shortreel/types"
)

// Editor chains fitting and caption compositing for one scene
type Editor struct {
	fitter     *Fitter
	compositor *Compositor
	log        zerolog.Logger
}

// NewEditor creates an Editor
func NewEditor(video config.VideoConfig, captions config.CaptionsConfig, log zerolog.Logger) *Editor {
	return &Editor{
		fitter:     NewFitter(video, log),
		compositor: NewCompositor(video, captions, log),
		log:        log.With().Str("component", "editor").Logger(),
	}
}

// RenderScene produces the composited clip for one scene: the asset fitted
// to the narration's exact duration, captions and audio burned in. A broken
// downloaded asset degrades to filler rather than failing the scene.
func (e *Editor) RenderScene(ctx context.Context, index int, scene types.Scene, asset types.ResolvedAsset, narr types.NarrationResult, workDir string) (string, error) {
	fitted := filepath.Join(workDir, fmt.Sprintf("fitted_%03d.mp4", index))

	if err := e.fitter.Fit(ctx, asset, narr.DurationSec, fitted); err != nil {
		if asset.Kind == types.AssetNone {
			return "", err
		}
		e.log.Warn().Err(err).Int("scene", index).Str("asset", asset.LocalPath).
			Msg("asset unusable, substituting filler")
		filler := types.ResolvedAsset{SceneIndex: index, Kind: types.AssetNone}
		if err := e.fitter.Fit(ctx, filler, narr.DurationSec, fitted); err != nil {
			return "", err
		}
	}

	outFile := filepath.Join(workDir, fmt.Sprintf("scene_%03d.mp4", index))
	if err := e.compositor.Burn(ctx, fitted, scene, narr, outFile); err != nil {
		return "", err
	}
	return outFile, nil
}
