package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"shortreel/types"
)

const defaultPexelsBaseURL = "https://api.pexels.com"

// PexelsVideos is the primary stock-video source
type PexelsVideos struct {
	apiKey  string
	baseURL string
	perPage int
	client  *http.Client
}

// NewPexelsVideos creates the Pexels video provider
func NewPexelsVideos(apiKey string, perPage int, timeout time.Duration) *PexelsVideos {
	return &PexelsVideos{
		apiKey:  apiKey,
		baseURL: defaultPexelsBaseURL,
		perPage: perPage,
		client:  newHTTPClient(timeout),
	}
}

func (p *PexelsVideos) Name() string { return "pexelsv" }

type pexelsVideoResponse struct {
	Videos []struct {
		ID         int    `json:"id"`
		Image      string `json:"image"`
		VideoFiles []struct {
			Link   string `json:"link"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"video_files"`
	} `json:"videos"`
}

func (p *PexelsVideos) Search(ctx context.Context, query string) ([]types.Candidate, error) {
	reqURL := fmt.Sprintf("%s/videos/search?query=%s&per_page=%d&orientation=portrait",
		p.baseURL, url.QueryEscape(query), p.perPage)

	var result pexelsVideoResponse
	if err := p.get(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	var candidates []types.Candidate
	for _, v := range result.Videos {
		files := v.VideoFiles
		if len(files) == 0 {
			continue
		}
		// largest rendition first
		sort.Slice(files, func(i, j int) bool {
			return files[i].Width*files[i].Height > files[j].Width*files[j].Height
		})
		candidates = append(candidates, types.Candidate{
			ID:          strconv.Itoa(v.ID),
			Kind:        types.AssetVideo,
			DownloadURL: files[0].Link,
			PreviewURL:  v.Image,
		})
	}
	return candidates, nil
}

func (p *PexelsVideos) get(ctx context.Context, reqURL string, out interface{}) error {
	return pexelsGet(ctx, p.client, p.apiKey, reqURL, out)
}

// PexelsPhotos is the primary stock-image source
type PexelsPhotos struct {
	apiKey  string
	baseURL string
	perPage int
	client  *http.Client
}

// NewPexelsPhotos creates the Pexels photo provider
func NewPexelsPhotos(apiKey string, perPage int, timeout time.Duration) *PexelsPhotos {
	return &PexelsPhotos{
		apiKey:  apiKey,
		baseURL: defaultPexelsBaseURL,
		perPage: perPage,
		client:  newHTTPClient(timeout),
	}
}

func (p *PexelsPhotos) Name() string { return "pexelsi" }

type pexelsPhotoResponse struct {
	Photos []struct {
		ID  int `json:"id"`
		Src struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

func (p *PexelsPhotos) Search(ctx context.Context, query string) ([]types.Candidate, error) {
	reqURL := fmt.Sprintf("%s/v1/search?query=%s&per_page=%d&orientation=portrait",
		p.baseURL, url.QueryEscape(query), p.perPage)

	var result pexelsPhotoResponse
	if err := pexelsGet(ctx, p.client, p.apiKey, reqURL, &result); err != nil {
		return nil, err
	}

	var candidates []types.Candidate
	for _, photo := range result.Photos {
		if photo.Src.Large == "" {
			continue
		}
		candidates = append(candidates, types.Candidate{
			ID:          strconv.Itoa(photo.ID),
			Kind:        types.AssetImage,
			DownloadURL: photo.Src.Large,
			// photos are their own preview
			PreviewURL: photo.Src.Large,
		})
	}
	return candidates, nil
}

func pexelsGet(ctx context.Context, client *http.Client, apiKey, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pexels returned HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
