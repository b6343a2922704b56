package media

import (
	"context"
	"net/http"
	"time"

	"shortreel/types"
)

const userAgent = "Mozilla/5.0 (compatible; shortreel/1.0)"

// Provider searches one media source for candidate assets.
// IDs returned here are provider-local; the aggregator prefixes them.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]types.Candidate, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
