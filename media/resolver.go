package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shortreel/types"
)

const maxDownloadBytes = 200 * 1024 * 1024

// Searcher is the aggregator's surface as the resolver sees it
type Searcher interface {
	Search(ctx context.Context, query string) []types.Candidate
}

// Accepter is the verifier's surface as the resolver sees it
type Accepter interface {
	Accept(ctx context.Context, previewURL, query string) bool
}

// Resolver walks a scene's ranked candidates through verification until one
// is accepted and downloaded. Candidates pass through a small state machine:
// searching -> verifying -> accepted | exhausted. Every failure along the
// way is scene-local; the resolver never returns an error, only AssetNone.
type Resolver struct {
	search   Searcher
	verify   Accepter
	seen     *SeenIDSet
	client   *http.Client
	maxBytes int64
	log      zerolog.Logger
}

// NewResolver creates a Resolver sharing the run's SeenIDSet
func NewResolver(search Searcher, verify Accepter, seen *SeenIDSet, log zerolog.Logger) *Resolver {
	return &Resolver{
		search:   search,
		verify:   verify,
		seen:     seen,
		client:   &http.Client{Timeout: 60 * time.Second},
		maxBytes: maxDownloadBytes,
		log:      log.With().Str("component", "resolver").Logger(),
	}
}

// ResolveScene finds one local asset for the scene, or AssetNone when the
// candidate list is exhausted
func (r *Resolver) ResolveScene(ctx context.Context, index int, scene types.Scene, destDir string) types.ResolvedAsset {
	none := types.ResolvedAsset{SceneIndex: index, Kind: types.AssetNone}

	candidates := r.search.Search(ctx, scene.VisualQuery)
	if len(candidates) == 0 {
		r.log.Warn().Int("scene", index).Str("query", scene.VisualQuery).Msg("no candidates from any source")
		return none
	}

	for _, cand := range candidates {
		if r.seen.Contains(cand.ID) {
			continue
		}

		path := filepath.Join(destDir, AssetFilename(scene.VisualQuery, cand))

		// idempotent re-run: a file downloaded for this id+query earlier is
		// accepted without re-verification
		if _, err := os.Stat(path); err == nil {
			if !r.seen.Claim(cand.ID) {
				continue
			}
			r.log.Info().Int("scene", index).Str("id", cand.ID).Msg("reusing existing download")
			return types.ResolvedAsset{SceneIndex: index, LocalPath: path, Kind: cand.Kind}
		}

		if !r.verify.Accept(ctx, cand.PreviewURL, scene.VisualQuery) {
			r.log.Debug().Int("scene", index).Str("id", cand.ID).Msg("candidate rejected")
			continue
		}

		// claim before downloading so a concurrent resolver can't accept the
		// same id; release again if the download falls through
		if !r.seen.Claim(cand.ID) {
			continue
		}
		if err := r.download(ctx, cand.DownloadURL, path); err != nil {
			r.seen.Release(cand.ID)
			r.log.Warn().Err(err).Int("scene", index).Str("id", cand.ID).
				Msg("download failed, trying next candidate")
			continue
		}

		r.log.Info().Int("scene", index).Str("id", cand.ID).Str("path", path).Msg("asset accepted")
		return types.ResolvedAsset{SceneIndex: index, LocalPath: path, Kind: cand.Kind}
	}

	r.log.Warn().Int("scene", index).Str("query", scene.VisualQuery).Msg("candidates exhausted, scene gets filler")
	return none
}

func (r *Resolver) download(ctx context.Context, fileURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	// read one byte past the cap so a truncated file is never mistaken for
	// a complete asset
	n, err := io.Copy(f, io.LimitReader(resp.Body, r.maxBytes+1))
	if err == nil && n > r.maxBytes {
		err = fmt.Errorf("asset exceeds %d byte cap", r.maxBytes)
	}
	if err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	return f.Close()
}

// AssetFilename builds the deterministic local name for a candidate:
// the query's first 10 characters plus the provider-scoped id
func AssetFilename(query string, cand types.Candidate) string {
	trunc := query
	if len(trunc) > 10 {
		trunc = trunc[:10]
	}
	trunc = strings.ReplaceAll(trunc, " ", "_")

	ext := ".jpg"
	if cand.Kind == types.AssetVideo {
		ext = ".mp4"
	}
	return fmt.Sprintf("%s_%s%s", trunc, cand.ID, ext)
}
