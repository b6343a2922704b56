package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"shortreel/config"
	"shortreel/types"
)

// ErrEmptyTimeline means the planner produced no usable scenes — fatal input error
var ErrEmptyTimeline = errors.New("planner returned an empty timeline")

// Planner turns a free-text brief into an ordered scene list
type Planner interface {
	Plan(ctx context.Context, brief string) ([]types.Scene, error)
}

const systemPrompt = `You are an expert short-form video director. You plan viral vertical videos (YouTube Shorts / Reels) for professional creators.

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.
The output is an object with a single "timeline" key holding an array of scenes:

{"timeline": [
  {
    "visual_query": "string (EXACT stock-footage search term)",
    "text_overlay": "string (1-3 words, BIG & BOLD, punchy)",
    "script": "string (narration, 1-2 short sentences)",
    "duration": int (seconds)
  }
]}

Rules:
1. visual_query must be concrete and filmable. If the script names a specific subject or breed, the query MUST include that exact name. Convert abstractions: "happiness" becomes "dog looking happy".
2. Every scene gets a DISTINCT camera angle or shot type (close-up face, wide shot running, low angle, side profile). Never repeat the same visual_query twice.
3. Keep the script punchy and fast-paced, 8-15 seconds per scene when read aloud.`

// Director plans timelines with a chat model
type Director struct {
	client      *openai.Client
	model       string
	temperature float32
	maxScenes   int
	log         zerolog.Logger
}

// New creates a Director. apiKey must be set; the caller decides what to do when it isn't.
func New(apiKey string, cfg config.PlannerConfig, log zerolog.Logger) (*Director, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("planner: missing API key")
	}
	return &Director{
		client:      openai.NewClient(apiKey),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxScenes:   cfg.MaxScenes,
		log:         log.With().Str("component", "planner").Logger(),
	}, nil
}

// Plan generates and validates a scene timeline for the brief
func (d *Director) Plan(ctx context.Context, brief string) ([]types.Scene, error) {
	d.log.Info().Str("brief", truncate(brief, 60)).Msg("planning timeline")

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.model,
		Temperature: d.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"Create a video timeline of at most %d scenes for this request:\n\n%s\n\nReturn ONLY the JSON object.",
				d.maxScenes, brief)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("planner request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("planner returned no choices")
	}

	scenes, err := ParseTimeline(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(scenes) > d.maxScenes {
		scenes = scenes[:d.maxScenes]
	}
	d.log.Info().Int("scenes", len(scenes)).Msg("timeline ready")
	return scenes, nil
}

type timelineJSON struct {
	Timeline []types.Scene `json:"timeline"`
}

// ParseTimeline decodes a model response into scenes and validates them
func ParseTimeline(raw string) ([]types.Scene, error) {
	var parsed timelineJSON
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse timeline JSON: %w", err)
	}
	if err := Validate(parsed.Timeline); err != nil {
		return nil, err
	}
	return parsed.Timeline, nil
}

// Validate enforces the scene contract: every scene needs a visual query and
// a script. A malformed scene list is a fatal input error.
func Validate(scenes []types.Scene) error {
	if len(scenes) == 0 {
		return ErrEmptyTimeline
	}
	for i, s := range scenes {
		if strings.TrimSpace(s.VisualQuery) == "" {
			return fmt.Errorf("scene %d: missing visual_query", i)
		}
		if strings.TrimSpace(s.Script) == "" {
			return fmt.Errorf("scene %d: missing script", i)
		}
	}
	return nil
}

// cleanJSON strips markdown fences if the model wraps its response in ```json ... ```
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
