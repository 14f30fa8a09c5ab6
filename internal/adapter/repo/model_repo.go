package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

// VirtualModelRepositoryPG implements domain.VirtualModelRepository.
type VirtualModelRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewVirtualModelRepository creates a virtual-model repository backed by PostgreSQL.
func NewVirtualModelRepository(pool *pgxpool.Pool) *VirtualModelRepositoryPG {
	return &VirtualModelRepositoryPG{pool: pool}
}

// GetByID fetches a virtual model by its identifier. Unknown identifiers are a
// hard ErrNotFound; there is deliberately no silent default model.
func (r *VirtualModelRepositoryPG) GetByID(ctx context.Context, id string) (*domain.VirtualModel, error) {
	query := `
SELECT id, name, gender, body_type, ethnicity, style_tags, COALESCE(image_url, '')
FROM virtual_models
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var model domain.VirtualModel
	if err := row.Scan(
		&model.ID,
		&model.Name,
		&model.Gender,
		&model.BodyType,
		&model.Ethnicity,
		&model.StyleTags,
		&model.ImageURL,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// List returns the full model catalog.
func (r *VirtualModelRepositoryPG) List(ctx context.Context) ([]domain.VirtualModel, error) {
	query := `
SELECT id, name, gender, body_type, ethnicity, style_tags, COALESCE(image_url, '')
FROM virtual_models
ORDER BY name;
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []domain.VirtualModel
	for rows.Next() {
		var model domain.VirtualModel
		if err := rows.Scan(
			&model.ID,
			&model.Name,
			&model.Gender,
			&model.BodyType,
			&model.Ethnicity,
			&model.StyleTags,
			&model.ImageURL,
		); err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	return models, rows.Err()
}

// Upsert creates or refreshes a catalog entry; used by the seeder.
func (r *VirtualModelRepositoryPG) Upsert(ctx context.Context, model *domain.VirtualModel) error {
	query := `
INSERT INTO virtual_models (id, name, gender, body_type, ethnicity, style_tags, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    gender = EXCLUDED.gender,
    body_type = EXCLUDED.body_type,
    ethnicity = EXCLUDED.ethnicity,
    style_tags = EXCLUDED.style_tags,
    image_url = EXCLUDED.image_url;
`
	_, err := r.pool.Exec(ctx, query,
		model.ID,
		model.Name,
		model.Gender,
		model.BodyType,
		model.Ethnicity,
		model.StyleTags,
		nullableString(model.ImageURL),
	)
	return err
}
