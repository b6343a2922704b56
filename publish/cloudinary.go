package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const defaultCloudinaryBaseURL = "https://api.cloudinary.com"

// Cloudinary uploads the deliverable with an unsigned upload preset
type Cloudinary struct {
	cloudName    string
	uploadPreset string
	baseURL      string
	client       *http.Client
	log          zerolog.Logger
}

// NewCloudinary creates the uploader. Returns nil when the environment
// isn't configured; the run then keeps a local-only artifact.
func NewCloudinary(log zerolog.Logger) *Cloudinary {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	preset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	if cloudName == "" || preset == "" {
		log.Warn().Msg("cloudinary env not set, uploads disabled")
		return nil
	}
	return &Cloudinary{
		cloudName:    cloudName,
		uploadPreset: preset,
		baseURL:      defaultCloudinaryBaseURL,
		client:       &http.Client{Timeout: 5 * time.Minute},
		log:          log.With().Str("component", "cloudinary").Logger(),
	}
}

// Upload sends the video and returns its hosted URL. The multipart body is
// streamed through a pipe so the deliverable is never held in memory.
func (c *Cloudinary) Upload(ctx context.Context, localPath, id string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		part, err := w.CreateFormFile("file", id+".mp4")
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := w.WriteField("upload_preset", c.uploadPreset); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := w.WriteField("public_id", id); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(w.Close())
	}()

	reqURL := fmt.Sprintf("%s/v1_1/%s/video/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary returned HTTP %d", resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response missing secure_url")
	}

	c.log.Info().Str("url", result.SecureURL).Msg("artifact uploaded")
	return result.SecureURL, nil
}
