package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the repositories depend on. Statements are
// idempotent so every binary can run this at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS virtual_models (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			gender TEXT NOT NULL,
			body_type TEXT NOT NULL,
			ethnicity TEXT NOT NULL,
			style_tags TEXT[] NOT NULL DEFAULT '{}',
			image_url TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS garments (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			original_image_url TEXT NOT NULL,
			category TEXT NOT NULL,
			detected_color TEXT NOT NULL DEFAULT '',
			mask_image_url TEXT,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_garments_owner ON garments (owner_id, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS generations (
			id TEXT PRIMARY KEY,
			garment_id TEXT NOT NULL REFERENCES garments (id) ON DELETE CASCADE,
			target_model_id TEXT NOT NULL REFERENCES virtual_models (id),
			status TEXT NOT NULL,
			prompt_used TEXT NOT NULL,
			negative_prompt TEXT,
			batch_size INT NOT NULL,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS idx_generations_garment ON generations (garment_id, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS output_images (
			id TEXT PRIMARY KEY,
			generation_id TEXT NOT NULL REFERENCES generations (id) ON DELETE CASCADE,
			image_url TEXT NOT NULL,
			aspect_ratio TEXT NOT NULL,
			is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			download_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_output_images_generation ON output_images (generation_id, created_at);`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
