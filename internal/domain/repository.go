package domain

import "context"

// GarmentRepository defines persistence for garments.
type GarmentRepository interface {
	Create(ctx context.Context, garment *Garment) error
	GetByID(ctx context.Context, id string) (*Garment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Garment, error)
	Delete(ctx context.Context, id string) error
}

// GenerationRepository defines persistence for generations. UpdateStatus is the
// only mutation path; the background worker is its sole writer.
type GenerationRepository interface {
	Create(ctx context.Context, generation *Generation) error
	GetByID(ctx context.Context, id string) (*Generation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Generation, error)
	UpdateStatus(ctx context.Context, id string, status GenerationStatus, errMsg *string) error
}

// OutputImageRepository handles persistence for synthesized outputs.
type OutputImageRepository interface {
	Create(ctx context.Context, image *OutputImage) error
	ListByGenerationID(ctx context.Context, generationID string) ([]OutputImage, error)
	SetFavorite(ctx context.Context, id string, favorite bool) error
	IncrementDownloads(ctx context.Context, id string) error
}

// VirtualModelRepository exposes the static model catalog.
type VirtualModelRepository interface {
	GetByID(ctx context.Context, id string) (*VirtualModel, error)
	List(ctx context.Context) ([]VirtualModel, error)
	Upsert(ctx context.Context, model *VirtualModel) error
}
