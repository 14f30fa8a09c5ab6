package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

// GarmentRepositoryPG implements domain.GarmentRepository.
type GarmentRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGarmentRepository creates a garment repository backed by PostgreSQL.
func NewGarmentRepository(pool *pgxpool.Pool) *GarmentRepositoryPG {
	return &GarmentRepositoryPG{pool: pool}
}

// Create inserts a new garment record.
func (r *GarmentRepositoryPG) Create(ctx context.Context, garment *domain.Garment) error {
	query := `
INSERT INTO garments (id, owner_id, original_image_url, category, detected_color, mask_image_url, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.pool.Exec(ctx, query,
		garment.ID,
		garment.OwnerID,
		garment.OriginalImageURL,
		garment.Category,
		garment.DetectedColor,
		nullableString(garment.MaskImageURL),
		garment.Status,
		garment.CreatedAt,
	)
	return err
}

// GetByID fetches a garment by its identifier.
func (r *GarmentRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Garment, error) {
	query := `
SELECT id, owner_id, original_image_url, category, detected_color, COALESCE(mask_image_url, ''), status, created_at
FROM garments
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var garment domain.Garment
	if err := row.Scan(
		&garment.ID,
		&garment.OwnerID,
		&garment.OriginalImageURL,
		&garment.Category,
		&garment.DetectedColor,
		&garment.MaskImageURL,
		&garment.Status,
		&garment.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &garment, nil
}

// ListByOwner returns the owner's garments, newest first.
func (r *GarmentRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Garment, error) {
	query := `
SELECT id, owner_id, original_image_url, category, detected_color, COALESCE(mask_image_url, ''), status, created_at
FROM garments
WHERE owner_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var garments []domain.Garment
	for rows.Next() {
		var garment domain.Garment
		if err := rows.Scan(
			&garment.ID,
			&garment.OwnerID,
			&garment.OriginalImageURL,
			&garment.Category,
			&garment.DetectedColor,
			&garment.MaskImageURL,
			&garment.Status,
			&garment.CreatedAt,
		); err != nil {
			return nil, err
		}
		garments = append(garments, garment)
	}
	return garments, rows.Err()
}

// Delete removes a garment; generations and outputs cascade at the schema level.
func (r *GarmentRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM garments WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
