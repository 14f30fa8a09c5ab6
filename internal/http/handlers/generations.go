package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ainaphakhruddin/airchives/internal/domain"
	"github.com/ainaphakhruddin/airchives/internal/pipeline"
	"github.com/ainaphakhruddin/airchives/internal/prompt"
	"github.com/ainaphakhruddin/airchives/internal/providers/synthesis"
	"github.com/ainaphakhruddin/airchives/pkg/zip"
)

type generateRequest struct {
	GarmentID      string `json:"garmentId"`
	TargetModelID  string `json:"targetModelId"`
	Background     string `json:"background"`
	Poses          int    `json:"poses"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt"`
}

// CreateGeneration accepts a generation request. The response carries only the
// pending record; synthesis runs behind the queue.
func (a *App) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	generation, err := a.Pipeline.Start(r.Context(), pipeline.Request{
		GarmentID:      req.GarmentID,
		TargetModelID:  req.TargetModelID,
		Background:     prompt.Normalize(req.Background),
		Poses:          req.Poses,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrGarmentNotReady):
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "not_found", err.Error())
		case errors.Is(err, synthesis.ErrNotConfigured):
			a.error(w, http.StatusServiceUnavailable, "not_configured", err.Error())
		default:
			a.error(w, http.StatusInternalServerError, "internal", "failed to start generation")
		}
		return
	}

	a.data(w, http.StatusAccepted, map[string]any{
		"generationId":  generation.ID,
		"status":        generation.Status,
		"estimatedTime": 30,
	})
}

// GetGeneration returns the full status payload for one generation, including
// its outputs and the coarse progress mapping.
func (a *App) GetGeneration(w http.ResponseWriter, r *http.Request) {
	generation, err := a.Generations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "generation not found")
		return
	}
	images, err := a.Outputs.ListByGenerationID(r.Context(), generation.ID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load images")
		return
	}

	imageItems := make([]map[string]any, 0, len(images))
	for _, image := range images {
		imageItems = append(imageItems, map[string]any{
			"id":            image.ID,
			"url":           image.ImageURL,
			"aspectRatio":   image.AspectRatio,
			"isFavorite":    image.IsFavorite,
			"downloadCount": image.DownloadCount,
		})
	}

	a.data(w, http.StatusOK, map[string]any{
		"id":             generation.ID,
		"status":         generation.Status,
		"progress":       generation.Progress(),
		"images":         imageItems,
		"prompt":         generation.PromptUsed,
		"negativePrompt": generation.NegativePrompt,
		"createdAt":      generation.CreatedAt,
		"completedAt":    generation.CompletedAt,
		"errorMessage":   generation.ErrorMessage,
	})
}

// ListGenerations returns the owner's generations, newest first.
func (a *App) ListGenerations(w http.ResponseWriter, r *http.Request) {
	generations, err := a.Generations.ListByOwner(r.Context(), ownerID(r))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list generations")
		return
	}
	items := make([]map[string]any, 0, len(generations))
	for i := range generations {
		generation := &generations[i]
		images, err := a.Outputs.ListByGenerationID(r.Context(), generation.ID)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load images")
			return
		}
		items = append(items, map[string]any{
			"id":          generation.ID,
			"garmentId":   generation.GarmentID,
			"status":      generation.Status,
			"progress":    generation.Progress(),
			"imageCount":  len(images),
			"createdAt":   generation.CreatedAt,
			"completedAt": generation.CompletedAt,
		})
	}
	a.data(w, http.StatusOK, items)
}

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// FavoriteImage flips the consumer-facing favorite flag on one output.
func (a *App) FavoriteImage(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Outputs.SetFavorite(r.Context(), chi.URLParam(r, "imageID"), req.Favorite); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "image not found")
		return
	}
	a.data(w, http.StatusOK, map[string]bool{"favorite": req.Favorite})
}

// DownloadGeneration streams all locally stored outputs of a generation as a
// zip archive and bumps their download counters.
func (a *App) DownloadGeneration(w http.ResponseWriter, r *http.Request) {
	generation, err := a.Generations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "generation not found")
		return
	}
	images, err := a.Outputs.ListByGenerationID(r.Context(), generation.ID)
	if err != nil || len(images) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no images for generation")
		return
	}

	var assets []zip.Asset
	for _, image := range images {
		key, ok := a.storageKeyFor(image.ImageURL)
		if !ok {
			continue
		}
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("generations: missing stored output")
			continue
		}
		assets = append(assets, zip.Asset{Filename: fmt.Sprintf("%s-%s.png", generation.ID, image.ID), Data: data})
		if err := a.Outputs.IncrementDownloads(r.Context(), image.ID); err != nil {
			a.Logger.Warn().Err(err).Str("image_id", image.ID).Msg("generations: failed to count download")
		}
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no stored images for generation")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=generation-%s.zip", generation.ID))
	_, _ = w.Write(zip.ArchiveAssets(assets))
}
