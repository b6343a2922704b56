package media

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"time"

	"shortreel/types"
)

const defaultSerpBaseURL = "https://serpapi.com"

// SerpImages searches the open web for images via SerpAPI's Google Images
// engine. Web results carry no stable identifier, so the image URL's hash
// stands in for one.
type SerpImages struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerpImages creates the web-image provider
func NewSerpImages(apiKey string, timeout time.Duration) *SerpImages {
	return &SerpImages{
		apiKey:  apiKey,
		baseURL: defaultSerpBaseURL,
		client:  newHTTPClient(timeout),
	}
}

func (s *SerpImages) Name() string { return "webimg" }

type serpResponse struct {
	ImagesResults []struct {
		Original  string `json:"original"`
		Thumbnail string `json:"thumbnail"`
	} `json:"images_results"`
}

func (s *SerpImages) Search(ctx context.Context, query string) ([]types.Candidate, error) {
	reqURL := fmt.Sprintf("%s/search.json?engine=google_images&q=%s&num=10&api_key=%s",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned HTTP %d", resp.StatusCode)
	}

	var result serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var candidates []types.Candidate
	for _, img := range result.ImagesResults {
		if img.Original == "" {
			continue
		}
		preview := img.Thumbnail
		if preview == "" {
			preview = img.Original
		}
		candidates = append(candidates, types.Candidate{
			ID:          hashID(img.Original),
			Kind:        types.AssetImage,
			DownloadURL: img.Original,
			PreviewURL:  preview,
		})
	}
	return candidates, nil
}

func hashID(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}
