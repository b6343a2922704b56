package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortreel/types"
)

func TestPexelsVideosPicksLargestRendition(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/videos/search", r.URL.Path)
		assert.Equal(t, "portrait", r.URL.Query().Get("orientation"))
		w.Write([]byte(`{"videos":[{"id":42,"image":"http://cdn/thumb.jpg","video_files":[
			{"link":"http://cdn/small.mp4","width":640,"height":360},
			{"link":"http://cdn/big.mp4","width":1080,"height":1920}
		]}]}`))
	}))
	defer srv.Close()

	p := NewPexelsVideos("test-key", 10, time.Second)
	p.baseURL = srv.URL

	got, err := p.Search(context.Background(), "dog running")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "test-key", gotAuth)
	assert.Equal(t, "42", got[0].ID)
	assert.Equal(t, types.AssetVideo, got[0].Kind)
	assert.Equal(t, "http://cdn/big.mp4", got[0].DownloadURL)
	assert.Equal(t, "http://cdn/thumb.jpg", got[0].PreviewURL)
}

func TestPexelsPhotosUsesLargeSrcAsPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		w.Write([]byte(`{"photos":[{"id":7,"src":{"large":"http://cdn/photo.jpg"}}]}`))
	}))
	defer srv.Close()

	p := NewPexelsPhotos("test-key", 10, time.Second)
	p.baseURL = srv.URL

	got, err := p.Search(context.Background(), "dog")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.AssetImage, got[0].Kind)
	assert.Equal(t, got[0].DownloadURL, got[0].PreviewURL)
}

func TestPexelsNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewPexelsVideos("test-key", 10, time.Second)
	p.baseURL = srv.URL

	_, err := p.Search(context.Background(), "dog")
	assert.Error(t, err)
}

func TestPixabayBuildsVimeoPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/", r.URL.Path)
		w.Write([]byte(`{"hits":[{"id":9,"picture_id":"abc123","videos":{"large":{"url":"http://cdn/v.mp4"}}}]}`))
	}))
	defer srv.Close()

	p := NewPixabayVideos("key", 15, time.Second)
	p.baseURL = srv.URL

	got, err := p.Search(context.Background(), "dog")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "9", got[0].ID)
	assert.Equal(t, "https://i.vimeocdn.com/video/abc123_295x166.jpg", got[0].PreviewURL)
}

func TestSerpImagesHashesURLAsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images_results":[
			{"original":"http://site/a.jpg","thumbnail":"http://site/a_t.jpg"},
			{"original":"http://site/b.jpg"}
		]}`))
	}))
	defer srv.Close()

	p := NewSerpImages("key", time.Second)
	p.baseURL = srv.URL

	got, err := p.Search(context.Background(), "dog")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, "http://site/a_t.jpg", got[0].PreviewURL)
	// no thumbnail falls back to the original
	assert.Equal(t, "http://site/b.jpg", got[1].PreviewURL)
	assert.Equal(t, hashID("http://site/a.jpg"), got[0].ID, "ids are stable across searches")
}
