package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

const maxUploadBytes = 50 << 20

type createGarmentRequest struct {
	ImageURL string `json:"imageUrl"`
}

// CreateGarment registers one uploaded garment photo and runs intake on it:
// detection and segmentation in parallel, then a single persisted outcome.
// Accepts either a multipart upload (field "image") stored locally or a JSON
// body pointing at an already-hosted image.
func (a *App) CreateGarment(w http.ResponseWriter, r *http.Request) {
	imageURL, err := a.resolveUpload(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	result, intakeErr := a.Vision.ProcessGarmentImage(r.Context(), imageURL)
	if result == nil {
		a.error(w, http.StatusBadGateway, "intake_failed", intakeErr.Error())
		return
	}

	garment := &domain.Garment{
		ID:               uuid.NewString(),
		OwnerID:          ownerID(r),
		OriginalImageURL: imageURL,
		Category:         result.Detection.Category,
		DetectedColor:    "auto-detected",
		Status:           domain.GarmentStatusFailed,
		CreatedAt:        time.Now().UTC(),
	}
	if intakeErr == nil && result.Segmentation != nil {
		garment.MaskImageURL = result.Segmentation.MaskURL
		if result.Segmentation.GarmentDetected {
			garment.Status = domain.GarmentStatusSegmented
		}
	} else if intakeErr != nil {
		a.Logger.Warn().Err(intakeErr).Str("image_url", imageURL).Msg("garments: segmentation failed")
	}

	if err := a.Garments.Create(r.Context(), garment); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to save garment")
		return
	}

	a.data(w, http.StatusCreated, map[string]any{
		"id":         garment.ID,
		"url":        garment.OriginalImageURL,
		"maskUrl":    garment.MaskImageURL,
		"category":   garment.Category,
		"confidence": result.Detection.Confidence,
		"status":     garment.Status,
	})
}

// resolveUpload returns the image URL intake should run on, storing multipart
// payloads first.
func (a *App) resolveUpload(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", fmt.Errorf("invalid multipart payload")
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return "", fmt.Errorf("image file is required")
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return "", fmt.Errorf("read upload: %v", err)
		}
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext == "" {
			ext = ".png"
		}
		key, err := a.Store.Write(r.Context(), fmt.Sprintf("garments/%s%s", uuid.NewString(), ext), data)
		if err != nil {
			return "", fmt.Errorf("store upload: %v", err)
		}
		return strings.TrimRight(a.Config.StorageBaseURL, "/") + "/" + key, nil
	}

	var req createGarmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		return "", fmt.Errorf("imageUrl is required")
	}
	return strings.TrimSpace(req.ImageURL), nil
}

// GetGarment returns one garment with its generation summaries.
func (a *App) GetGarment(w http.ResponseWriter, r *http.Request) {
	garment, err := a.Garments.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "garment not found")
		return
	}
	a.data(w, http.StatusOK, a.garmentPayload(r, garment))
}

// ListGarments returns the owner's garments, newest first.
func (a *App) ListGarments(w http.ResponseWriter, r *http.Request) {
	garments, err := a.Garments.ListByOwner(r.Context(), ownerID(r))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list garments")
		return
	}
	items := make([]map[string]any, 0, len(garments))
	for i := range garments {
		items = append(items, a.garmentPayload(r, &garments[i]))
	}
	a.data(w, http.StatusOK, items)
}

// DeleteGarment removes a garment, its stored artifacts, and (via schema
// cascade) its generations and outputs.
func (a *App) DeleteGarment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	garment, err := a.Garments.GetByID(r.Context(), id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "garment not found")
		return
	}

	for _, imageURL := range []string{garment.OriginalImageURL, garment.MaskImageURL} {
		if key, ok := a.storageKeyFor(imageURL); ok {
			if err := a.Store.Delete(r.Context(), key); err != nil {
				a.Logger.Warn().Err(err).Str("key", key).Msg("garments: failed to delete artifact")
			}
		}
	}

	if err := a.Garments.Delete(r.Context(), id); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete garment")
		return
	}
	a.data(w, http.StatusOK, map[string]string{"message": "garment deleted"})
}

// storageKeyFor maps a public artifact URL back onto a local storage key.
// Remote URLs (provider-hosted masks, external uploads) are left alone.
func (a *App) storageKeyFor(imageURL string) (string, bool) {
	base := strings.TrimRight(a.Config.StorageBaseURL, "/") + "/"
	if imageURL == "" || !strings.HasPrefix(imageURL, base) {
		return "", false
	}
	return strings.TrimPrefix(imageURL, base), true
}

func (a *App) garmentPayload(r *http.Request, garment *domain.Garment) map[string]any {
	payload := map[string]any{
		"id":            garment.ID,
		"imageUrl":      garment.OriginalImageURL,
		"maskUrl":       garment.MaskImageURL,
		"category":      garment.Category,
		"detectedColor": garment.DetectedColor,
		"status":        garment.Status,
		"createdAt":     garment.CreatedAt,
	}
	generations, err := a.Generations.ListByOwner(r.Context(), garment.OwnerID)
	if err != nil {
		return payload
	}
	summaries := make([]map[string]any, 0)
	for i := range generations {
		if generations[i].GarmentID != garment.ID {
			continue
		}
		summaries = append(summaries, map[string]any{
			"id":       generations[i].ID,
			"status":   generations[i].Status,
			"progress": generations[i].Progress(),
		})
	}
	payload["generations"] = summaries
	return payload
}
