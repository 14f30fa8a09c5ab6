package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/ainaphakhruddin/airchives/internal/adapter/repo"
	"github.com/ainaphakhruddin/airchives/internal/domain"
	"github.com/ainaphakhruddin/airchives/internal/infra"
)

// Stock virtual models available to every account.
var stockModels = []domain.VirtualModel{
	{
		ID:        "sienna_01",
		Name:      "Sienna",
		Gender:    "FEMALE",
		BodyType:  "Athletic",
		Ethnicity: "Mediterranean",
		StyleTags: []string{"Streetwear", "Urban", "Casual"},
		ImageURL:  "https://example.com/models/sienna.jpg",
	},
	{
		ID:        "alex_01",
		Name:      "Alex",
		Gender:    "NON_BINARY",
		BodyType:  "Slim",
		Ethnicity: "East Asian",
		StyleTags: []string{"Minimalist", "Luxury", "Modern"},
		ImageURL:  "https://example.com/models/alex.jpg",
	},
	{
		ID:        "marcus_01",
		Name:      "Marcus",
		Gender:    "MALE",
		BodyType:  "Muscular",
		Ethnicity: "African American",
		StyleTags: []string{"Athletic", "Streetwear", "Urban"},
		ImageURL:  "https://example.com/models/marcus.jpg",
	},
	{
		ID:        "ghost_mannequin_01",
		Name:      "Ghost Mannequin",
		Gender:    "NON_BINARY",
		BodyType:  "Standard",
		Ethnicity: "N/A",
		StyleTags: []string{"Invisible", "Mannequin", "Professional"},
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed: db connection failed")
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("seed: schema bootstrap failed")
	}

	models := repo.NewVirtualModelRepository(pool)
	for i := range stockModels {
		if err := models.Upsert(ctx, &stockModels[i]); err != nil {
			logger.Fatal().Err(err).Str("model_id", stockModels[i].ID).Msg("seed: upsert failed")
		}
	}
	logger.Info().Int("models", len(stockModels)).Msg("seed: virtual models ready")
}
