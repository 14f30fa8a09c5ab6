package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

// OutputImageRepositoryPG implements domain.OutputImageRepository.
type OutputImageRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewOutputImageRepository creates an output-image repository backed by PostgreSQL.
func NewOutputImageRepository(pool *pgxpool.Pool) *OutputImageRepositoryPG {
	return &OutputImageRepositoryPG{pool: pool}
}

// Create inserts a synthesized output record.
func (r *OutputImageRepositoryPG) Create(ctx context.Context, image *domain.OutputImage) error {
	query := `
INSERT INTO output_images (id, generation_id, image_url, aspect_ratio, is_favorite, download_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		image.ID,
		image.GenerationID,
		image.ImageURL,
		image.AspectRatio,
		image.IsFavorite,
		image.DownloadCount,
		image.CreatedAt,
	)
	return err
}

// ListByGenerationID returns a generation's outputs in creation order.
func (r *OutputImageRepositoryPG) ListByGenerationID(ctx context.Context, generationID string) ([]domain.OutputImage, error) {
	query := `
SELECT id, generation_id, image_url, aspect_ratio, is_favorite, download_count, created_at
FROM output_images
WHERE generation_id = $1
ORDER BY created_at;
`
	rows, err := r.pool.Query(ctx, query, generationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.OutputImage
	for rows.Next() {
		var image domain.OutputImage
		if err := rows.Scan(
			&image.ID,
			&image.GenerationID,
			&image.ImageURL,
			&image.AspectRatio,
			&image.IsFavorite,
			&image.DownloadCount,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

// SetFavorite flips the consumer-facing favorite flag.
func (r *OutputImageRepositoryPG) SetFavorite(ctx context.Context, id string, favorite bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE output_images SET is_favorite = $2 WHERE id = $1;`, id, favorite)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementDownloads bumps the download counter.
func (r *OutputImageRepositoryPG) IncrementDownloads(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE output_images SET download_count = download_count + 1 WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
