package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ainaphakhruddin/airchives/internal/domain"
	"github.com/ainaphakhruddin/airchives/internal/infra"
	"github.com/ainaphakhruddin/airchives/internal/pipeline"
	"github.com/ainaphakhruddin/airchives/internal/providers/vision"
	"github.com/ainaphakhruddin/airchives/internal/storage"
)

// GarmentProcessor is the intake boundary: run detection and segmentation for
// one uploaded image.
type GarmentProcessor interface {
	ProcessGarmentImage(ctx context.Context, imageURL string) (*vision.IntakeResult, error)
}

// GenerationStarter accepts a generation request and returns the pending record.
type GenerationStarter interface {
	Start(ctx context.Context, req pipeline.Request) (*domain.Generation, error)
}

// App bundles handler dependencies.
type App struct {
	Garments    domain.GarmentRepository
	Generations domain.GenerationRepository
	Outputs     domain.OutputImageRepository
	Models      domain.VirtualModelRepository
	Vision      GarmentProcessor
	Pipeline    GenerationStarter
	Store       *storage.FileStore
	Config      *infra.Config
	Logger      infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) data(w http.ResponseWriter, code int, v any) {
	a.json(w, code, map[string]any{"success": true, "data": v})
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// ownerID scopes listings. Authentication is handled upstream; the gateway
// forwards the resolved owner in this header.
func ownerID(r *http.Request) string {
	if owner := r.Header.Get("X-Owner-ID"); owner != "" {
		return owner
	}
	return "anonymous"
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
