package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Media    MediaConfig    `yaml:"media"`
	Verify   VerifyConfig   `yaml:"verify"`
	Audio    AudioConfig    `yaml:"audio"`
	Video    VideoConfig    `yaml:"video"`
	Captions CaptionsConfig `yaml:"captions"`
	Planner  PlannerConfig  `yaml:"planner"`
	Publish  PublishConfig  `yaml:"publish"`
	Paths    PathsConfig    `yaml:"paths"`
	Workers  int            `yaml:"workers"`
}

type MediaConfig struct {
	MinCandidates     int `yaml:"min_candidates"` // floor below which secondary sources are queried
	PerPage           int `yaml:"per_page"`
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

type VerifyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	FailOpen bool   `yaml:"fail_open"`
	Model    string `yaml:"model"`
}

type AudioConfig struct {
	Voice string `yaml:"voice"`
	Rate  string `yaml:"rate"`
}

type VideoConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Preset string `yaml:"preset"`
	CRF    int    `yaml:"crf"`
}

type CaptionsConfig struct {
	Font          string  `yaml:"font"`
	FontSize      int     `yaml:"font_size"`
	TitleFontSize int     `yaml:"title_font_size"`
	StrokeWidth   int     `yaml:"stroke_width"`
	TitleY        int     `yaml:"title_y"`
	CaptionY      int     `yaml:"caption_y"`
	MinVisibleSec float64 `yaml:"min_visible_sec"`
	WordLevel     bool    `yaml:"word_level"`
}

type PlannerConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxScenes   int     `yaml:"max_scenes"`
}

type PublishConfig struct {
	Target     string `yaml:"target"` // cloudinary | youtube | none
	Visibility string `yaml:"visibility"`
	CategoryID string `yaml:"category_id"`
}

type PathsConfig struct {
	TempBase   string `yaml:"temp_base"`
	ResultBase string `yaml:"result_base"`
	Library    string `yaml:"library"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Media: MediaConfig{
			MinCandidates:     5,
			PerPage:           10,
			RequestTimeoutSec: 20,
		},
		Verify: VerifyConfig{
			Enabled:  true,
			FailOpen: true,
			Model:    "gpt-4o-mini",
		},
		Audio: AudioConfig{
			Voice: "en-US-ChristopherNeural",
			Rate:  "+15%",
		},
		Video: VideoConfig{
			Width:  1080,
			Height: 1920,
			FPS:    24,
			Preset: "fast",
			CRF:    23,
		},
		Captions: CaptionsConfig{
			Font:          "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			FontSize:      60,
			TitleFontSize: 90,
			StrokeWidth:   4,
			TitleY:        200,
			CaptionY:      1500,
			MinVisibleSec: 0.1,
			WordLevel:     true,
		},
		Planner: PlannerConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxScenes:   8,
		},
		Publish: PublishConfig{
			Target:     "none",
			Visibility: "unlisted",
			CategoryID: "15",
		},
		Paths: PathsConfig{
			TempBase:   "data/temp",
			ResultBase: "data/results",
			Library:    "data/library.json",
		},
		Workers: 2,
	}
}

// Load reads a YAML config file over the defaults, so a partial file
// only overrides the keys it names
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
