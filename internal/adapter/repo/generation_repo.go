package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

// GenerationRepositoryPG implements domain.GenerationRepository.
type GenerationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a generation repository backed by PostgreSQL.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{pool: pool}
}

// Create inserts a new generation record.
func (r *GenerationRepositoryPG) Create(ctx context.Context, generation *domain.Generation) error {
	query := `
INSERT INTO generations (id, garment_id, target_model_id, status, prompt_used, negative_prompt, batch_size, error_message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.pool.Exec(ctx, query,
		generation.ID,
		generation.GarmentID,
		generation.TargetModelID,
		generation.Status,
		generation.PromptUsed,
		generation.NegativePrompt,
		generation.BatchSize,
		generation.ErrorMessage,
		generation.CreatedAt,
	)
	return err
}

// GetByID fetches a generation by its identifier.
func (r *GenerationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	row := r.pool.QueryRow(ctx, selectGeneration+` WHERE id = $1;`, id)
	generation, err := scanGeneration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return generation, nil
}

// ListByOwner returns generations whose garment belongs to the owner, newest first.
func (r *GenerationRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Generation, error) {
	query := selectGeneration + `
 JOIN garments ON garments.id = generations.garment_id
 WHERE garments.owner_id = $1
 ORDER BY generations.created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var generations []domain.Generation
	for rows.Next() {
		generation, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, *generation)
	}
	return generations, rows.Err()
}

// UpdateStatus advances the lifecycle. The completion timestamp is set
// exactly when the status becomes completed and never cleared afterwards.
func (r *GenerationRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.GenerationStatus, errMsg *string) error {
	query := `
UPDATE generations
SET status = $2,
    error_message = COALESCE($3, error_message),
    completed_at = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query, id, status, errMsg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const selectGeneration = `
SELECT generations.id, generations.garment_id, generations.target_model_id, generations.status,
       generations.prompt_used, COALESCE(generations.negative_prompt, ''), generations.batch_size,
       COALESCE(generations.error_message, ''), generations.created_at, generations.completed_at
FROM generations`

func scanGeneration(row pgx.Row) (*domain.Generation, error) {
	var generation domain.Generation
	if err := row.Scan(
		&generation.ID,
		&generation.GarmentID,
		&generation.TargetModelID,
		&generation.Status,
		&generation.PromptUsed,
		&generation.NegativePrompt,
		&generation.BatchSize,
		&generation.ErrorMessage,
		&generation.CreatedAt,
		&generation.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &generation, nil
}
