package domain

import "time"

// GenerationStatus enumerates the generation lifecycle states. Transitions are
// monotonic: pending -> processing -> {completed, failed}. Terminal states are
// final; a finished generation is never re-opened.
type GenerationStatus string

const (
	GenerationStatusPending    GenerationStatus = "pending"
	GenerationStatusProcessing GenerationStatus = "processing"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

const (
	// DefaultBatchSize is the pose count used when the request leaves it unset.
	DefaultBatchSize = 3
	// MaxBatchSize caps what the record type permits; the public request shape
	// clamps lower (see MaxRequestPoses).
	MaxBatchSize = 10
	// MaxRequestPoses is the public request-shape ceiling.
	MaxRequestPoses = 3
)

// Generation is one request to synthesize a batch of model photos for a
// garment+model pair.
type Generation struct {
	ID             string
	GarmentID      string
	TargetModelID  string
	Status         GenerationStatus
	PromptUsed     string
	NegativePrompt string
	BatchSize      int
	ErrorMessage   string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Terminal reports whether the generation reached a final state.
func (g *Generation) Terminal() bool {
	return g.Status == GenerationStatusCompleted || g.Status == GenerationStatusFailed
}

// Progress maps status onto the coarse three-point progress scale exposed to
// clients: pending=0, processing=50, completed=100, failed=0.
func (g *Generation) Progress() int {
	switch g.Status {
	case GenerationStatusProcessing:
		return 50
	case GenerationStatusCompleted:
		return 100
	default:
		return 0
	}
}

// AspectRatio enumerates supported output framings.
type AspectRatio string

const (
	AspectSquare   AspectRatio = "1:1"
	AspectPortrait AspectRatio = "4:5"
	AspectStory    AspectRatio = "3:4"
)

// DefaultAspectRatio tags freshly generated outputs.
const DefaultAspectRatio = AspectSquare

// OutputImage is one synthesized photograph. Immutable once created except for
// the two consumer-facing counters.
type OutputImage struct {
	ID            string
	GenerationID  string
	ImageURL      string
	AspectRatio   AspectRatio
	IsFavorite    bool
	DownloadCount int
	CreatedAt     time.Time
}

// ClampBatchSize normalizes a requested pose count into the record range.
func ClampBatchSize(n int) int {
	if n <= 0 {
		return DefaultBatchSize
	}
	if n > MaxBatchSize {
		return MaxBatchSize
	}
	return n
}
