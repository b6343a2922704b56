package types

// AssetKind tags what a visual asset is
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetImage AssetKind = "image"
	AssetNone  AssetKind = "none"
)

// Scene is one planned segment of the output video, produced by the planner
type Scene struct {
	VisualQuery  string `json:"visual_query"`
	TextOverlay  string `json:"text_overlay"`
	Script       string `json:"script"`
	DurationHint int    `json:"duration"` // planner estimate; superseded by measured narration
}

// Candidate is a provisional media asset returned by a search provider.
// ID is source-prefixed so it is unique across providers.
type Candidate struct {
	ID          string    `json:"id"`
	Kind        AssetKind `json:"kind"`
	DownloadURL string    `json:"download_url"`
	PreviewURL  string    `json:"preview_url"`
}

// ResolvedAsset is the resolver's verdict for one scene.
// LocalPath is empty and Kind is AssetNone when no candidate was accepted.
type ResolvedAsset struct {
	SceneIndex int       `json:"scene_index"`
	LocalPath  string    `json:"local_path"`
	Kind       AssetKind `json:"kind"`
}

// WordTiming is one spoken word's window, in seconds from audio start
type WordTiming struct {
	Word   string  `json:"word"`
	StartS float64 `json:"start"`
	EndS   float64 `json:"end"`
}

// NarrationResult is one scene's synthesized narration
type NarrationResult struct {
	SceneIndex  int          `json:"scene_index"`
	AudioPath   string       `json:"audio_path"`
	DurationSec float64      `json:"duration_sec"`
	Words       []WordTiming `json:"words"`
}

// VideoRecord is one append-only library entry for a finished run
type VideoRecord struct {
	ID          string  `json:"id"`
	Prompt      string  `json:"prompt"`
	LocalPath   string  `json:"local_path"`
	ArtifactURL string  `json:"artifact_url,omitempty"`
	Timestamp   string  `json:"timestamp"`
	Scenes      []Scene `json:"scenes"`
}
