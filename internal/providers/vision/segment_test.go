package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSegmentGarmentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req segmentationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ConfidenceThreshold != segmentationThreshold {
			t.Errorf("confidence_threshold = %v, want %v", req.ConfidenceThreshold, segmentationThreshold)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"mask_url":   "https://cdn.example.com/mask.png",
			"confidence": 0.91,
		})
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	got, err := client.SegmentGarment(context.Background(), "https://example.com/garment.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MaskURL != "https://cdn.example.com/mask.png" {
		t.Fatalf("mask url = %q", got.MaskURL)
	}
	if got.Confidence != 0.91 {
		t.Fatalf("confidence = %v, want 0.91", got.Confidence)
	}
	if !got.GarmentDetected {
		t.Fatalf("garment detected should default to true")
	}
}

func TestSegmentGarmentNestedMaskURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"output": map[string]any{"mask_url": "https://cdn.example.com/nested-mask.png"},
		})
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	got, err := client.SegmentGarment(context.Background(), "https://example.com/garment.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MaskURL != "https://cdn.example.com/nested-mask.png" {
		t.Fatalf("mask url = %q", got.MaskURL)
	}
	if got.Confidence != 0.8 {
		t.Fatalf("confidence = %v, want 0.8 default", got.Confidence)
	}
}

func TestSegmentGarmentNoGarmentDetected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"mask_url": "https://cdn.example.com/mask.png",
			"detected": false,
		})
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	got, err := client.SegmentGarment(context.Background(), "https://example.com/garment.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GarmentDetected {
		t.Fatalf("expected detected=false to pass through")
	}
}

func TestSegmentGarmentErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
		if _, err := client.SegmentGarment(context.Background(), "https://example.com/garment.jpg"); err == nil {
			t.Fatalf("expected error on 503")
		}
	})

	t.Run("empty mask url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"confidence": 0.9})
		}))
		defer srv.Close()

		client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
		_, err := client.SegmentGarment(context.Background(), "https://example.com/garment.jpg")
		if err == nil || !strings.Contains(err.Error(), "empty mask url") {
			t.Fatalf("err = %v, want empty mask url", err)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		client := NewClient(Options{})
		if _, err := client.SegmentGarment(context.Background(), "https://example.com/garment.jpg"); err == nil {
			t.Fatalf("expected error without api key")
		}
	})
}
