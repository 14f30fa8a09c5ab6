package vision

import (
	"context"
	"errors"
	"fmt"
)

// Segmentation is the cut-out outcome for one garment photo.
type Segmentation struct {
	MaskURL         string
	Confidence      float64
	GarmentDetected bool
}

type segmentationRequest struct {
	ImageURL            string  `json:"image_url"`
	ModelType           string  `json:"model_type"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

type segmentationResponse struct {
	MaskURL    string  `json:"mask_url"`
	Confidence float64 `json:"confidence"`
	Detected   *bool   `json:"detected"`
	Output     struct {
		MaskURL string `json:"mask_url"`
	} `json:"output"`
}

// SegmentGarment derives a binary mask isolating the garment from its
// background. Unlike detection, failures propagate: a missing mask is a hard
// blocker for downstream generation.
func (c *Client) SegmentGarment(ctx context.Context, imageURL string) (*Segmentation, error) {
	var decoded segmentationResponse
	err := c.postJSON(ctx, "/v1/models/fal-ai/image-segmentation", segmentationRequest{
		ImageURL:            imageURL,
		ModelType:           segmentationModel,
		ConfidenceThreshold: segmentationThreshold,
	}, &decoded)
	if err != nil {
		return nil, fmt.Errorf("segment garment: %w", err)
	}

	maskURL := decoded.MaskURL
	if maskURL == "" {
		maskURL = decoded.Output.MaskURL
	}
	if maskURL == "" {
		return nil, errors.New("vision: empty mask url")
	}

	segmentation := &Segmentation{
		MaskURL:         maskURL,
		Confidence:      decoded.Confidence,
		GarmentDetected: true,
	}
	if segmentation.Confidence == 0 {
		segmentation.Confidence = 0.8
	}
	if decoded.Detected != nil {
		segmentation.GarmentDetected = *decoded.Detected
	}
	return segmentation, nil
}
