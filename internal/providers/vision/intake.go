package vision

import (
	"context"
	"sync"
)

// IntakeResult merges the two concurrent vision outcomes for one upload.
type IntakeResult struct {
	Detection    Detection
	Segmentation *Segmentation
}

// ProcessGarmentImage runs detection and segmentation concurrently and returns
// once both complete. The two calls are independent: detection failing cannot
// abort segmentation and vice versa. Only segmentation errors surface, since
// detection substitutes a default result on failure; the returned result is
// always populated with the detection outcome so intake can still record the
// category on a garment it marks failed.
func (c *Client) ProcessGarmentImage(ctx context.Context, imageURL string) (*IntakeResult, error) {
	var (
		wg           sync.WaitGroup
		detection    Detection
		segmentation *Segmentation
		segErr       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		detection = c.DetectGarmentType(ctx, imageURL)
	}()
	go func() {
		defer wg.Done()
		segmentation, segErr = c.SegmentGarment(ctx, imageURL)
	}()
	wg.Wait()

	return &IntakeResult{Detection: detection, Segmentation: segmentation}, segErr
}
