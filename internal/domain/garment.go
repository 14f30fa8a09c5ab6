package domain

import "time"

// GarmentCategory enumerates the closed garment vocabulary.
type GarmentCategory string

const (
	CategoryTop       GarmentCategory = "TOP"
	CategoryBottom    GarmentCategory = "BOTTOM"
	CategoryDress     GarmentCategory = "DRESS"
	CategoryOuterwear GarmentCategory = "OUTERWEAR"
)

// GarmentStatus enumerates the garment intake lifecycle.
type GarmentStatus string

const (
	GarmentStatusUploaded  GarmentStatus = "uploaded"
	GarmentStatusSegmented GarmentStatus = "segmented"
	GarmentStatusFailed    GarmentStatus = "failed"
)

// Garment is one uploaded item. It is mutated exactly once, by garment
// intake, and never re-segmented automatically.
type Garment struct {
	ID               string
	OwnerID          string
	OriginalImageURL string
	Category         GarmentCategory
	DetectedColor    string
	MaskImageURL     string
	Status           GarmentStatus
	CreatedAt        time.Time
}

// Segmented reports whether the garment carries a usable mask and can be
// used as generation input.
func (g *Garment) Segmented() bool {
	return g != nil && g.Status == GarmentStatusSegmented && g.MaskImageURL != ""
}
