package vision

import (
	"context"
	"strings"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

// BoundingBox locates the garment inside the source photo.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detection is the classification outcome for one garment photo.
type Detection struct {
	Category    domain.GarmentCategory
	Confidence  float64
	BoundingBox BoundingBox
}

type classificationRequest struct {
	ImageURL   string   `json:"image_url"`
	ModelName  string   `json:"model_name"`
	Categories []string `json:"categories"`
}

type classificationResponse struct {
	Label       string       `json:"label"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"bounding_box"`
}

// DetectGarmentType classifies a garment photo into the closed category
// vocabulary. Remote failures never propagate: detection degrades quality, it
// must not block intake, so errors collapse into a default result.
func (c *Client) DetectGarmentType(ctx context.Context, imageURL string) Detection {
	var decoded classificationResponse
	err := c.postJSON(ctx, "/v1/models/fal-ai/image-classification", classificationRequest{
		ImageURL:   imageURL,
		ModelName:  classificationModel,
		Categories: categoryHint,
	}, &decoded)
	if err != nil {
		c.logger.Warn().Err(err).Str("image_url", imageURL).Msg("vision: detection failed, using default category")
		return defaultDetection()
	}

	detection := Detection{
		Category:   MapCategory(decoded.Label),
		Confidence: decoded.Confidence,
	}
	if detection.Confidence == 0 {
		detection.Confidence = 0.8
	}
	if decoded.BoundingBox != nil {
		detection.BoundingBox = *decoded.BoundingBox
	} else {
		detection.BoundingBox = BoundingBox{Width: 100, Height: 100}
	}
	return detection
}

// MapCategory resolves a raw classifier label into the closed category enum.
// Rules are checked in priority order; the first match wins.
func MapCategory(label string) domain.GarmentCategory {
	lower := strings.ToLower(label)

	switch {
	case strings.Contains(lower, "dress"), strings.Contains(lower, "gown"):
		return domain.CategoryDress
	case strings.Contains(lower, "jacket"), strings.Contains(lower, "coat"), strings.Contains(lower, "blazer"):
		return domain.CategoryOuterwear
	case strings.Contains(lower, "pants"), strings.Contains(lower, "skirt"), strings.Contains(lower, "shorts"):
		return domain.CategoryBottom
	default:
		// Shirts, t-shirts, blouses and anything unrecognized.
		return domain.CategoryTop
	}
}

func defaultDetection() Detection {
	return Detection{
		Category:    domain.CategoryTop,
		Confidence:  0.5,
		BoundingBox: BoundingBox{Width: 100, Height: 100},
	}
}
