package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"shortreel/planner"
	"shortreel/types"
)

// Resolver finds one local asset per scene; failures are scene-local and
// surface as AssetNone, never as errors
type Resolver interface {
	ResolveScene(ctx context.Context, index int, scene types.Scene, destDir string) types.ResolvedAsset
}

// Narrator synthesizes one scene's narration; failure is fatal to the run
type Narrator interface {
	Narrate(ctx context.Context, index int, script, outFile string) (types.NarrationResult, error)
}

// Renderer fits and composites one scene into a clip of the narration's
// exact duration
type Renderer interface {
	RenderScene(ctx context.Context, index int, scene types.Scene, asset types.ResolvedAsset, narr types.NarrationResult, workDir string) (string, error)
}

// Concatenator joins the composited clips into the deliverable
type Concatenator interface {
	Concat(ctx context.Context, clips []string, outFile string) error
}

// Store uploads the deliverable somewhere durable; best-effort
type Store interface {
	Upload(ctx context.Context, localPath, id string) (string, error)
}

// Recorder appends finished runs to the video library
type Recorder interface {
	Append(rec types.VideoRecord) error
}

// Controller owns the temp workspace lifecycle and drives one run through
// the pipeline states. The temp directory is removed unconditionally at run
// end, success or failure.
type Controller struct {
	planner   planner.Planner
	resolver  Resolver
	narrator  Narrator
	renderer  Renderer
	assembler Concatenator
	store     Store    // optional
	library   Recorder // optional
	observer  Observer // optional

	tempBase   string
	resultBase string
	workers    int
	log        zerolog.Logger
}

// Options carries the controller's optional collaborators
type Options struct {
	Store    Store
	Library  Recorder
	Observer Observer
}

// New wires a Controller
func New(pl planner.Planner, resolver Resolver, narrator Narrator, renderer Renderer, assembler Concatenator,
	tempBase, resultBase string, workers int, opts Options, log zerolog.Logger) *Controller {
	if workers < 1 {
		workers = 1
	}
	return &Controller{
		planner:    pl,
		resolver:   resolver,
		narrator:   narrator,
		renderer:   renderer,
		assembler:  assembler,
		store:      opts.Store,
		library:    opts.Library,
		observer:   opts.Observer,
		tempBase:   tempBase,
		resultBase: resultBase,
		workers:    workers,
		log:        log.With().Str("component", "session").Logger(),
	}
}

// Run turns a free-text brief into a finished video and returns its library
// record. A nil error means the deliverable exists in the result directory;
// a non-nil error is a fatal, attributed failure. Either way the session's
// temp workspace no longer exists when Run returns.
func (c *Controller) Run(ctx context.Context, prompt string) (rec *types.VideoRecord, runErr error) {
	id := sessionID(prompt)
	tempDir := filepath.Join(c.tempBase, id)
	resultDir := filepath.Join(c.resultBase, id)

	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	if err := os.MkdirAll(resultDir, 0755); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("create result dir: %w", err)
	}

	// cleanup is unconditional and always the last action of a run
	defer func() {
		if runErr != nil {
			c.emit(id, StateFailed, -1, runErr.Error())
		}
		os.RemoveAll(tempDir)
		c.emit(id, StateCleaned, -1, "temp workspace removed")
	}()

	c.emit(id, StateInit, -1, "session started")

	scenes, err := c.planner.Plan(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	if err := planner.Validate(scenes); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	// resolution and narration run per scene in a bounded pool; the shared
	// SeenIDSet inside the resolver is the only cross-scene state
	c.emit(id, StateResolving, -1, fmt.Sprintf("resolving %d scenes", len(scenes)))
	c.emit(id, StateSynthesizing, -1, "synthesizing narration per scene")

	assets := make([]types.ResolvedAsset, len(scenes))
	narrs := make([]types.NarrationResult, len(scenes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range scenes {
		i := i
		g.Go(func() error {
			assets[i] = c.resolver.ResolveScene(gctx, i, scenes[i], tempDir)
			c.emit(id, StateResolving, i, fmt.Sprintf("asset: %s", assets[i].Kind))

			audioFile := filepath.Join(tempDir, fmt.Sprintf("audio_%03d.mp3", i))
			narr, err := c.narrator.Narrate(gctx, i, scenes[i].Script, audioFile)
			if err != nil {
				return err
			}
			narrs[i] = narr
			c.emit(id, StateSynthesizing, i, fmt.Sprintf("narration %.2fs", narr.DurationSec))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// outputs are assembled in original scene order regardless of which
	// worker finished first
	c.emit(id, StateCompositing, -1, "fitting visuals and compositing captions")
	clips := make([]string, len(scenes))
	for i := range scenes {
		clip, err := c.renderer.RenderScene(ctx, i, scenes[i], assets[i], narrs[i], tempDir)
		if err != nil {
			return nil, fmt.Errorf("render scene %d: %w", i, err)
		}
		clips[i] = clip
		c.emit(id, StateCompositing, i, "clip ready")
	}

	c.emit(id, StateAssembling, -1, "concatenating timeline")
	finalPath := filepath.Join(resultDir, "final.mp4")
	if err := c.assembler.Concat(ctx, clips, finalPath); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	record := types.VideoRecord{
		ID:        id,
		Prompt:    prompt,
		LocalPath: finalPath,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Scenes:    scenes,
	}

	// publishing and the library entry are best-effort; the run already
	// succeeded with a local-only artifact
	if c.store != nil {
		url, err := c.store.Upload(ctx, finalPath, id)
		if err != nil {
			c.log.Warn().Err(err).Msg("artifact upload failed, keeping local-only result")
		} else {
			record.ArtifactURL = url
		}
	}
	c.emit(id, StatePublished, -1, record.ArtifactURL)

	if c.library != nil {
		if err := c.library.Append(record); err != nil {
			c.log.Warn().Err(err).Msg("library append failed")
		}
	}

	return &record, nil
}

func (c *Controller) emit(session string, state State, scene int, msg string) {
	if c.observer == nil {
		return
	}
	c.observer.Progress(Event{Session: session, State: state, Scene: scene, Message: msg})
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(text string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(text), "_"), "_")
}

func sessionID(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > 30 {
		runes = runes[:30]
	}

	id := time.Now().Format("20060102_150405")
	if slug := slugify(string(runes)); slug != "" {
		id += "_" + slug
	}
	// same-second runs with the same prompt must not share a workspace
	return id + "_" + uuid.NewString()[:8]
}
