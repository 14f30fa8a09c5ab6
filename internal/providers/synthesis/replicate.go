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

// ErrPollTimeout marks a prediction that was still running when the poll
// budget ran out. Distinct from a provider-reported failure: the remote job
// may yet finish, but this pose gives up waiting.
var ErrPollTimeout = errors.New("replicate: gave up waiting for prediction")

const sdxlVersion = "stability-ai/stable-diffusion-xl-base-1.0:462fc9e22adc8c8d30db8e838f61d4fbedbcb9f5c3f7874f5774e7d9e814001"

// ReplicateOptions configures the polling Replicate provider.
type ReplicateOptions struct {
	APIToken        string
	BaseURL         string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	PollInterval    time.Duration
	PollMaxAttempts int
}

// Replicate submits a prediction and polls it to a terminal state. The remote
// API never returns results inline, so every pose costs one submit plus a
// status fetch per interval.
type Replicate struct {
	apiToken        string
	baseURL         string
	httpClient      *http.Client
	logger          *infra.Logger
	pollInterval    time.Duration
	pollMaxAttempts int
}

type predictionInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	Image             string  `json:"image"`
	Mask              string  `json:"mask"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	Strength          float64 `json:"strength"`
	Seed              int     `json:"seed"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type prediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
	Detail string   `json:"detail"`
}

// NewReplicate constructs the polling provider.
func NewReplicate(opts ReplicateOptions) *Replicate {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	attempts := opts.PollMaxAttempts
	if attempts <= 0 {
		attempts = 120
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Replicate{
		apiToken:        strings.TrimSpace(opts.APIToken),
		baseURL:         baseURL,
		httpClient:      httpClient,
		logger:          logger,
		pollInterval:    interval,
		pollMaxAttempts: attempts,
	}
}

// Name identifies the provider in logs and stored metadata.
func (r *Replicate) Name() string { return "replicate" }

// HasCredentials reports whether the provider can perform remote calls.
func (r *Replicate) HasCredentials() bool { return r.apiToken != "" }

// Generate submits one prediction and polls until it reaches a terminal state
// or the attempt budget is exhausted.
func (r *Replicate) Generate(ctx context.Context, req Request) (*Result, error) {
	if !r.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	pred, err := r.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	for attempt := 0; !terminal(pred.Status); attempt++ {
		if attempt >= r.pollMaxAttempts {
			return nil, fmt.Errorf("%w after %d attempts (prediction %s)", ErrPollTimeout, r.pollMaxAttempts, pred.ID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.pollInterval):
		}
		pred, err = r.fetch(ctx, pred.ID)
		if err != nil {
			return nil, err
		}
	}

	if pred.Status != "succeeded" {
		msg := pred.Error
		if msg == "" {
			msg = pred.Status
		}
		return nil, fmt.Errorf("replicate: prediction %s: %s", pred.ID, msg)
	}
	if len(pred.Output) == 0 || pred.Output[0] == "" {
		return nil, errors.New("replicate: prediction succeeded without output")
	}

	r.logger.Debug().
		Str("pose", req.Pose).
		Str("prediction_id", pred.ID).
		Msg("replicate: prediction succeeded")
	return &Result{
		URL:      pred.Output[0],
		RemoteID: pred.ID,
		Pose:     req.Pose,
	}, nil
}

func (r *Replicate) submit(ctx context.Context, req Request) (*prediction, error) {
	payload := predictionRequest{
		Version: sdxlVersion,
		Input: predictionInput{
			Prompt:            req.Prompt,
			NegativePrompt:    req.NegativePrompt,
			Image:             req.ImageURL,
			Mask:              req.MaskURL,
			NumInferenceSteps: inferenceSteps,
			GuidanceScale:     guidanceScale,
			Strength:          strength,
			Seed:              req.Seed,
			Width:             outputWidth,
			Height:            outputHeight,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Token "+r.apiToken)
	return r.do(httpReq)
}

func (r *Replicate) fetch(ctx context.Context, id string) (*prediction, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: build poll request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Token "+r.apiToken)
	return r.do(httpReq)
}

func (r *Replicate) do(req *http.Request) (*prediction, error) {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail prediction
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
			return nil, fmt.Errorf("replicate: %s", detail.Detail)
		}
		return nil, fmt.Errorf("replicate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var pred prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	return &pred, nil
}

// terminal reports whether a prediction status will never change again.
func terminal(status string) bool {
	switch status {
	case "starting", "processing", "":
		return false
	default:
		return true
	}
}

var _ Provider = (*Replicate)(nil)
