package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

// intakeServer routes the two vision endpoints to separate handlers.
func intakeServer(t *testing.T, classify, segment http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/fal-ai/image-classification", classify)
	mux.HandleFunc("/v1/models/fal-ai/image-segmentation", segment)
	return httptest.NewServer(mux)
}

func TestProcessGarmentImageBothSucceed(t *testing.T) {
	srv := intakeServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"label": "maxi dress", "confidence": 0.95})
		},
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"mask_url": "https://cdn.example.com/mask.png", "confidence": 0.9})
		},
	)
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	result, err := client.ProcessGarmentImage(context.Background(), "https://example.com/garment.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Detection.Category != domain.CategoryDress {
		t.Fatalf("category = %q, want DRESS", result.Detection.Category)
	}
	if result.Segmentation == nil || result.Segmentation.MaskURL == "" {
		t.Fatalf("segmentation = %+v, want mask", result.Segmentation)
	}
}

func TestProcessGarmentImageDetectionFailureIsSwallowed(t *testing.T) {
	srv := intakeServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "classifier down", http.StatusBadGateway)
		},
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"mask_url": "https://cdn.example.com/mask.png"})
		},
	)
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	result, err := client.ProcessGarmentImage(context.Background(), "https://example.com/garment.jpg")
	if err != nil {
		t.Fatalf("detection failure must not fail intake: %v", err)
	}
	if result.Detection.Category != domain.CategoryTop || result.Detection.Confidence != 0.5 {
		t.Fatalf("detection = %+v, want default", result.Detection)
	}
	if result.Segmentation == nil {
		t.Fatalf("segmentation should still complete when detection fails")
	}
}

func TestProcessGarmentImageSegmentationFailurePropagates(t *testing.T) {
	srv := intakeServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"label": "denim jacket", "confidence": 0.9})
		},
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "segmenter down", http.StatusBadGateway)
		},
	)
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	result, err := client.ProcessGarmentImage(context.Background(), "https://example.com/garment.jpg")
	if err == nil || !strings.Contains(err.Error(), "segment garment") {
		t.Fatalf("err = %v, want segmentation error", err)
	}
	if result == nil {
		t.Fatalf("result must still be returned so the caller can record the category")
	}
	if result.Detection.Category != domain.CategoryOuterwear {
		t.Fatalf("category = %q, want OUTERWEAR from successful detection", result.Detection.Category)
	}
	if result.Segmentation != nil {
		t.Fatalf("segmentation = %+v, want nil on failure", result.Segmentation)
	}
}
