package media

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"shortreel/types"
)

type stubProvider struct {
	name    string
	results []types.Candidate
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, query string) ([]types.Candidate, error) {
	s.calls++
	return s.results, s.err
}

func videoCandidates(n int) []types.Candidate {
	out := make([]types.Candidate, n)
	for i := range out {
		out[i] = types.Candidate{
			ID:          string(rune('a' + i)),
			Kind:        types.AssetVideo,
			DownloadURL: "http://example.com/dl",
			PreviewURL:  "http://example.com/prev",
		}
	}
	return out
}

func TestAggregatorPrefixesAndOrders(t *testing.T) {
	first := &stubProvider{name: "one", results: videoCandidates(2)}
	second := &stubProvider{name: "two", results: videoCandidates(1)}

	agg := NewAggregator([]Provider{first, second}, nil, 5, zerolog.Nop())
	got := agg.Search(context.Background(), "dog running")

	assert.Len(t, got, 3)
	assert.Equal(t, "one_a", got[0].ID)
	assert.Equal(t, "one_b", got[1].ID)
	assert.Equal(t, "two_a", got[2].ID)
}

func TestAggregatorProviderFailureIsIsolated(t *testing.T) {
	broken := &stubProvider{name: "broken", err: errors.New("HTTP 500")}
	healthy := &stubProvider{name: "ok", results: videoCandidates(2)}

	agg := NewAggregator([]Provider{broken, healthy}, nil, 5, zerolog.Nop())
	got := agg.Search(context.Background(), "dog")

	assert.Len(t, got, 2)
	assert.Equal(t, "ok_a", got[0].ID)
}

func TestAggregatorSecondarySkippedAboveFloor(t *testing.T) {
	primary := &stubProvider{name: "primary", results: videoCandidates(5)}
	secondary := &stubProvider{name: "secondary", results: videoCandidates(3)}

	agg := NewAggregator([]Provider{primary}, []Provider{secondary}, 5, zerolog.Nop())
	got := agg.Search(context.Background(), "dog")

	assert.Len(t, got, 5)
	assert.Zero(t, secondary.calls, "secondary must not be queried at or above the floor")
}

func TestAggregatorSecondaryQueriedBelowFloor(t *testing.T) {
	primary := &stubProvider{name: "primary", results: videoCandidates(2)}
	secondaryA := &stubProvider{name: "seca", results: videoCandidates(4)}
	secondaryB := &stubProvider{name: "secb", results: videoCandidates(4)}

	agg := NewAggregator([]Provider{primary}, []Provider{secondaryA, secondaryB}, 5, zerolog.Nop())
	got := agg.Search(context.Background(), "dog")

	assert.Equal(t, 1, secondaryA.calls)
	assert.Zero(t, secondaryB.calls, "floor reached after first secondary")
	assert.Len(t, got, 6)
}

func TestAggregatorAllProvidersEmpty(t *testing.T) {
	agg := NewAggregator(
		[]Provider{&stubProvider{name: "a"}},
		[]Provider{&stubProvider{name: "b"}},
		5, zerolog.Nop())

	assert.Empty(t, agg.Search(context.Background(), "dog"))
}
