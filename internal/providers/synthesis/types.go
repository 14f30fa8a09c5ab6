package synthesis

import "context"

// Fixed diffusion parameters shared by both providers.
const (
	inferenceSteps = 30
	guidanceScale  = 7.5
	strength       = 0.8
	outputWidth    = 1024
	outputHeight   = 1024
)

// poses is the fixed ordered camera-angle cycle. Batches larger than the list
// wrap around.
var poses = []string{"front", "side_45", "back"}

// PoseForIndex returns the camera angle for the i-th image of a batch.
func PoseForIndex(i int) string {
	if i < 0 {
		i = 0
	}
	return poses[i%len(poses)]
}

// Request carries everything one pose synthesis needs: the prompt pair, the
// garment photo, its cut-out mask, and the camera angle.
type Request struct {
	Prompt         string
	NegativePrompt string
	ImageURL       string
	MaskURL        string
	Pose           string
	Seed           int
}

// Result is the normalized outcome of one pose synthesis: where the provider
// parked the image and the provider-side identifier.
type Result struct {
	URL      string
	RemoteID string
	Pose     string
}

// Provider is the uniform contract over the two remote synthesis services.
// One pose in, one image out; implementations differ only in transport shape
// (direct response vs. submit-and-poll).
type Provider interface {
	Generate(ctx context.Context, req Request) (*Result, error)
	Name() string
}
