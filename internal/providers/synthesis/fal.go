package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ainaphakhruddin/airchives/internal/infra"
)

// ErrMissingCredentials indicates a provider was constructed without its API key.
var ErrMissingCredentials = errors.New("synthesis: api key is required")

// FalOptions configures the Fal synthesis provider.
type FalOptions struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Fal calls Fal's inpainting endpoint. The response body carries the result
// directly, so one request maps to one image; the client timeout is the only
// bound on the call.
type Fal struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type falRequest struct {
	Prompt              string  `json:"prompt"`
	NegativePrompt      string  `json:"negative_prompt"`
	ImageURL            string  `json:"image_url"`
	MaskURL             string  `json:"mask_url"`
	ControlnetCondition string  `json:"controlnet_condition"`
	NumInferenceSteps   int     `json:"num_inference_steps"`
	GuidanceScale       float64 `json:"guidance_scale"`
	Strength            float64 `json:"strength"`
	Seed                int     `json:"seed"`
	Width               int     `json:"width"`
	Height              int     `json:"height"`
}

type falResponse struct {
	Images []struct {
		URL string `json:"url"`
		ID  string `json:"id"`
	} `json:"images"`
	Detail string `json:"detail"`
}

// NewFal constructs the synchronous Fal provider.
func NewFal(opts FalOptions) *Fal {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 2 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.fal.ai"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Fal{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name identifies the provider in logs and stored metadata.
func (f *Fal) Name() string { return "fal" }

// HasCredentials reports whether the provider can perform remote calls.
func (f *Fal) HasCredentials() bool { return f.apiKey != "" }

// Generate performs one synchronous inpainting call for a single pose.
func (f *Fal) Generate(ctx context.Context, req Request) (*Result, error) {
	if !f.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	payload := falRequest{
		Prompt:              req.Prompt,
		NegativePrompt:      req.NegativePrompt,
		ImageURL:            req.ImageURL,
		MaskURL:             req.MaskURL,
		ControlnetCondition: req.Pose,
		NumInferenceSteps:   inferenceSteps,
		GuidanceScale:       guidanceScale,
		Strength:            strength,
		Seed:                req.Seed,
		Width:               outputWidth,
		Height:              outputHeight,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("fal: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/models/fal-ai/stable-diffusion-xl", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fal: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+f.apiKey)

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fal: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fal: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail falResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
			return nil, fmt.Errorf("fal: %s", detail.Detail)
		}
		return nil, fmt.Errorf("fal: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded falResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("fal: decode response: %w", err)
	}
	if len(decoded.Images) == 0 || decoded.Images[0].URL == "" {
		return nil, errors.New("fal: empty image url")
	}

	f.logger.Debug().
		Str("pose", req.Pose).
		Str("remote_id", decoded.Images[0].ID).
		Msg("fal: generated image")
	return &Result{
		URL:      decoded.Images[0].URL,
		RemoteID: decoded.Images[0].ID,
		Pose:     req.Pose,
	}, nil
}

var _ Provider = (*Fal)(nil)
