package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

func TestMapCategory(t *testing.T) {
	cases := []struct {
		label string
		want  domain.GarmentCategory
	}{
		{"summer dress", domain.CategoryDress},
		{"Evening Gown", domain.CategoryDress},
		{"denim jacket", domain.CategoryOuterwear},
		{"trench coat", domain.CategoryOuterwear},
		{"wool blazer", domain.CategoryOuterwear},
		{"cargo pants", domain.CategoryBottom},
		{"pleated skirt", domain.CategoryBottom},
		{"denim shorts", domain.CategoryBottom},
		{"t-shirt", domain.CategoryTop},
		{"silk blouse", domain.CategoryTop},
		{"", domain.CategoryTop},
		// Multiple keywords resolve by priority, not position in the label.
		{"jacket over dress", domain.CategoryDress},
		{"skirt with jacket", domain.CategoryOuterwear},
	}
	for _, tc := range cases {
		if got := MapCategory(tc.label); got != tc.want {
			t.Fatalf("MapCategory(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestDetectGarmentTypeFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	got := client.DetectGarmentType(context.Background(), "https://example.com/garment.jpg")

	if got.Category != domain.CategoryTop {
		t.Fatalf("category = %q, want default TOP", got.Category)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want 0.5", got.Confidence)
	}
	if got.BoundingBox.Width != 100 || got.BoundingBox.Height != 100 {
		t.Fatalf("bounding box = %+v, want 100x100 default", got.BoundingBox)
	}
}

func TestDetectGarmentTypeMapsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Key test-key" {
			t.Errorf("authorization = %q, want Key test-key", got)
		}
		var req classificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ModelName != classificationModel {
			t.Errorf("model_name = %q, want %q", req.ModelName, classificationModel)
		}
		json.NewEncoder(w).Encode(classificationResponse{
			Label:       "leather jacket",
			Confidence:  0.93,
			BoundingBox: &BoundingBox{X: 10, Y: 20, Width: 200, Height: 300},
		})
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	got := client.DetectGarmentType(context.Background(), "https://example.com/garment.jpg")

	if got.Category != domain.CategoryOuterwear {
		t.Fatalf("category = %q, want OUTERWEAR", got.Category)
	}
	if got.Confidence != 0.93 {
		t.Fatalf("confidence = %v, want 0.93", got.Confidence)
	}
	if got.BoundingBox.X != 10 || got.BoundingBox.Height != 300 {
		t.Fatalf("bounding box = %+v", got.BoundingBox)
	}
}

func TestDetectGarmentTypeDefaultsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classificationResponse{Label: "shirt"})
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	got := client.DetectGarmentType(context.Background(), "https://example.com/garment.jpg")

	if got.Confidence != 0.8 {
		t.Fatalf("confidence = %v, want 0.8 default", got.Confidence)
	}
	if got.BoundingBox.Width != 100 || got.BoundingBox.Height != 100 {
		t.Fatalf("bounding box = %+v, want 100x100 default", got.BoundingBox)
	}
}
