package publish

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"shortreel/config"
)

// YouTube publishes the deliverable as a Short via the Data API v3
type YouTube struct {
	cfg config.PublishConfig
	log zerolog.Logger
}

// NewYouTube creates the publisher. Returns nil when OAuth credentials are
// not configured.
func NewYouTube(cfg config.PublishConfig, log zerolog.Logger) *YouTube {
	if os.Getenv("YOUTUBE_CLIENT_ID") == "" ||
		os.Getenv("YOUTUBE_CLIENT_SECRET") == "" ||
		os.Getenv("YOUTUBE_REFRESH_TOKEN") == "" {
		log.Warn().Msg("youtube env not set, uploads disabled")
		return nil
	}
	return &YouTube{cfg: cfg, log: log.With().Str("component", "youtube").Logger()}
}

// Upload publishes the video and returns its watch URL
func (y *YouTube) Upload(ctx context.Context, localPath, id string) (string, error) {
	client, err := oauthClient(ctx)
	if err != nil {
		return "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("youtube service: %w", err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       "shortreel " + id,
			Description: "Generated with shortreel",
			CategoryId:  y.cfg.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           y.cfg.Visibility,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	url := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	y.log.Info().Str("url", url).Msg("published to YouTube")
	return url, nil
}

func oauthClient(ctx context.Context) (*http.Client, error) {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		ClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}
	token := &oauth2.Token{
		RefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}
