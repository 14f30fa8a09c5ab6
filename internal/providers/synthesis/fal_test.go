package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFalGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Key fal-key" {
			t.Errorf("authorization = %q, want Key fal-key", got)
		}
		var req falRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.NumInferenceSteps != inferenceSteps {
			t.Errorf("num_inference_steps = %d, want %d", req.NumInferenceSteps, inferenceSteps)
		}
		if req.GuidanceScale != guidanceScale {
			t.Errorf("guidance_scale = %v, want %v", req.GuidanceScale, guidanceScale)
		}
		if req.Strength != strength {
			t.Errorf("strength = %v, want %v", req.Strength, strength)
		}
		if req.Width != outputWidth || req.Height != outputHeight {
			t.Errorf("size = %dx%d, want %dx%d", req.Width, req.Height, outputWidth, outputHeight)
		}
		if req.ControlnetCondition != "side_45" {
			t.Errorf("controlnet_condition = %q, want side_45", req.ControlnetCondition)
		}
		if req.MaskURL != "https://cdn.example.com/mask.png" {
			t.Errorf("mask_url = %q", req.MaskURL)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"url": "https://cdn.fal.ai/out.png", "id": "img-1"}},
		})
	}))
	defer srv.Close()

	provider := NewFal(FalOptions{APIKey: "fal-key", BaseURL: srv.URL})
	got, err := provider.Generate(context.Background(), Request{
		Prompt:   "a prompt",
		ImageURL: "https://cdn.example.com/garment.jpg",
		MaskURL:  "https://cdn.example.com/mask.png",
		Pose:     "side_45",
		Seed:     42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.URL != "https://cdn.fal.ai/out.png" {
		t.Fatalf("url = %q", got.URL)
	}
	if got.RemoteID != "img-1" {
		t.Fatalf("remote id = %q, want img-1", got.RemoteID)
	}
	if got.Pose != "side_45" {
		t.Fatalf("pose = %q, want side_45", got.Pose)
	}
}

func TestFalGenerateErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "mask resolution mismatch"})
	}))
	defer srv.Close()

	provider := NewFal(FalOptions{APIKey: "fal-key", BaseURL: srv.URL})
	_, err := provider.Generate(context.Background(), Request{Pose: "front"})
	if err == nil || !strings.Contains(err.Error(), "mask resolution mismatch") {
		t.Fatalf("err = %v, want provider detail", err)
	}
}

func TestFalGenerateEmptyImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"images": []any{}})
	}))
	defer srv.Close()

	provider := NewFal(FalOptions{APIKey: "fal-key", BaseURL: srv.URL})
	if _, err := provider.Generate(context.Background(), Request{Pose: "front"}); err == nil {
		t.Fatalf("expected error on empty images")
	}
}

func TestFalGenerateWithoutCredentials(t *testing.T) {
	provider := NewFal(FalOptions{})
	_, err := provider.Generate(context.Background(), Request{Pose: "front"})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestPoseForIndexCycles(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "front"},
		{1, "side_45"},
		{2, "back"},
		{3, "front"},
		{5, "back"},
		{-1, "front"},
	}
	for _, tc := range cases {
		if got := PoseForIndex(tc.index); got != tc.want {
			t.Fatalf("PoseForIndex(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}
