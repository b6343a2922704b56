package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shortreel/types"
)

const defaultPixabayBaseURL = "https://pixabay.com"

// PixabayVideos is the secondary stock-video source, consulted only when the
// primaries leave the candidate pool below the floor
type PixabayVideos struct {
	apiKey  string
	baseURL string
	perPage int
	client  *http.Client
}

// NewPixabayVideos creates the Pixabay video provider
func NewPixabayVideos(apiKey string, perPage int, timeout time.Duration) *PixabayVideos {
	return &PixabayVideos{
		apiKey:  apiKey,
		baseURL: defaultPixabayBaseURL,
		perPage: perPage,
		client:  newHTTPClient(timeout),
	}
}

func (p *PixabayVideos) Name() string { return "pixabay" }

type pixabayResponse struct {
	Hits []struct {
		ID        int    `json:"id"`
		PictureID string `json:"picture_id"`
		Videos    struct {
			Large struct {
				URL string `json:"url"`
			} `json:"large"`
		} `json:"videos"`
	} `json:"hits"`
}

func (p *PixabayVideos) Search(ctx context.Context, query string) ([]types.Candidate, error) {
	reqURL := fmt.Sprintf("%s/api/videos/?key=%s&q=%s&per_page=%d&orientation=vertical",
		p.baseURL, url.QueryEscape(p.apiKey), url.QueryEscape(query), p.perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pixabay returned HTTP %d", resp.StatusCode)
	}

	var result pixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var candidates []types.Candidate
	for _, hit := range result.Hits {
		if hit.Videos.Large.URL == "" {
			continue
		}
		candidates = append(candidates, types.Candidate{
			ID:          strconv.Itoa(hit.ID),
			Kind:        types.AssetVideo,
			DownloadURL: hit.Videos.Large.URL,
			PreviewURL:  fmt.Sprintf("https://i.vimeocdn.com/video/%s_295x166.jpg", hit.PictureID),
		})
	}
	return candidates, nil
}
