package media

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"shortreel/config"
	"shortreel/types"
)

// Aggregator queries the providers in priority order and normalizes their
// results into one candidate list. A failing provider contributes nothing;
// it never aborts the aggregate.
type Aggregator struct {
	primaries   []Provider
	secondaries []Provider
	floor       int
	log         zerolog.Logger
}

// NewAggregator wires an explicit provider set. Secondaries are consulted
// only while the running candidate count is below floor.
func NewAggregator(primaries, secondaries []Provider, floor int, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		primaries:   primaries,
		secondaries: secondaries,
		floor:       floor,
		log:         log.With().Str("component", "media").Logger(),
	}
}

// FromEnv builds the production provider set. A source whose API key is not
// configured is left out entirely.
func FromEnv(cfg config.MediaConfig, log zerolog.Logger) *Aggregator {
	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second

	var primaries, secondaries []Provider
	if key := os.Getenv("PEXELS_API_KEY"); key != "" {
		primaries = append(primaries,
			NewPexelsVideos(key, cfg.PerPage, timeout),
			NewPexelsPhotos(key, cfg.PerPage, timeout),
		)
	} else {
		log.Warn().Msg("PEXELS_API_KEY missing, Pexels disabled")
	}
	if key := os.Getenv("SERPAPI_KEY"); key != "" {
		secondaries = append(secondaries, NewSerpImages(key, timeout))
	}
	if key := os.Getenv("PIXABAY_API_KEY"); key != "" {
		secondaries = append(secondaries, NewPixabayVideos(key, cfg.PerPage, timeout))
	}

	return NewAggregator(primaries, secondaries, cfg.MinCandidates, log)
}

// Search returns candidates in source-priority order, ids prefixed with the
// provider name so they are unique across sources.
func (a *Aggregator) Search(ctx context.Context, query string) []types.Candidate {
	var out []types.Candidate

	collect := func(p Provider) {
		results, err := p.Search(ctx, query)
		if err != nil {
			a.log.Warn().Err(err).Str("provider", p.Name()).Str("query", query).
				Msg("provider search failed, skipping")
			return
		}
		for _, c := range results {
			c.ID = p.Name() + "_" + c.ID
			out = append(out, c)
		}
	}

	for _, p := range a.primaries {
		collect(p)
	}
	for _, p := range a.secondaries {
		if len(out) >= a.floor {
			break
		}
		collect(p)
	}

	a.log.Debug().Str("query", query).Int("candidates", len(out)).Msg("aggregate search done")
	return out
}
