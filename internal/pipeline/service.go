// Package pipeline drives a generation from accepted request to terminal
// state: pending -> processing -> {completed, failed}. Acceptance is cheap and
// synchronous; everything network-bound happens behind the queue.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ainaphakhruddin/airchives/internal/domain"
	"github.com/ainaphakhruddin/airchives/internal/infra"
	"github.com/ainaphakhruddin/airchives/internal/prompt"
	"github.com/ainaphakhruddin/airchives/internal/providers/synthesis"
	"github.com/ainaphakhruddin/airchives/internal/queue"
)

// ImageStore is the artifact-publisher boundary: durable storage for
// generated output bytes.
type ImageStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Options wires the service dependencies.
type Options struct {
	Garments       domain.GarmentRepository
	Generations    domain.GenerationRepository
	Outputs        domain.OutputImageRepository
	Models         domain.VirtualModelRepository
	Provider       synthesis.Provider
	Store          ImageStore
	Queue          queue.Queue
	StorageBaseURL string
	HTTPClient     *http.Client
	Logger         infra.Logger
}

// Service orchestrates generations. The background worker is the only writer
// of a generation past pending, so per-phase last-writer-wins updates suffice.
type Service struct {
	garments       domain.GarmentRepository
	generations    domain.GenerationRepository
	outputs        domain.OutputImageRepository
	models         domain.VirtualModelRepository
	provider       synthesis.Provider
	store          ImageStore
	queue          queue.Queue
	storageBaseURL string
	httpClient     *http.Client
	logger         infra.Logger
}

// NewService constructs the generation orchestrator.
func NewService(opts Options) *Service {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Service{
		garments:       opts.Garments,
		generations:    opts.Generations,
		outputs:        opts.Outputs,
		models:         opts.Models,
		provider:       opts.Provider,
		store:          opts.Store,
		queue:          opts.Queue,
		storageBaseURL: strings.TrimRight(opts.StorageBaseURL, "/"),
		httpClient:     httpClient,
		logger:         opts.Logger,
	}
}

// Request is the accepted generation request shape.
type Request struct {
	GarmentID      string
	TargetModelID  string
	Background     prompt.Background
	Poses          int
	Prompt         string
	NegativePrompt string
}

// Start validates the request, creates the generation in pending state, and
// enqueues it for background processing. It returns without waiting for any
// synthesis work: provider calls take tens of seconds each and must not block
// the request path.
func (s *Service) Start(ctx context.Context, req Request) (*domain.Generation, error) {
	if req.GarmentID == "" || req.TargetModelID == "" {
		return nil, fmt.Errorf("%w: garmentId and targetModelId are required", domain.ErrValidation)
	}
	if s.provider == nil {
		return nil, synthesis.ErrNotConfigured
	}

	garment, err := s.garments.GetByID(ctx, req.GarmentID)
	if err != nil {
		return nil, fmt.Errorf("load garment: %w", err)
	}
	if !garment.Segmented() {
		return nil, domain.ErrGarmentNotReady
	}

	model, err := s.models.GetByID(ctx, req.TargetModelID)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	poses := req.Poses
	if poses <= 0 {
		poses = domain.DefaultBatchSize
	}
	if poses > domain.MaxRequestPoses {
		poses = domain.MaxRequestPoses
	}

	promptUsed, negative := prompt.Build(model, req.Background, req.Prompt, req.NegativePrompt)

	generation := &domain.Generation{
		ID:             uuid.NewString(),
		GarmentID:      garment.ID,
		TargetModelID:  model.ID,
		Status:         domain.GenerationStatusPending,
		PromptUsed:     promptUsed,
		NegativePrompt: negative,
		BatchSize:      domain.ClampBatchSize(poses),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.generations.Create(ctx, generation); err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}

	if err := s.queue.Enqueue(ctx, generation.ID); err != nil {
		// The record exists but nothing will ever process it; fail it now
		// rather than leave a pending generation nobody owns.
		s.MarkFailed(ctx, generation.ID, fmt.Sprintf("enqueue: %v", err))
		return nil, fmt.Errorf("enqueue generation: %w", err)
	}

	s.logger.Info().
		Str("generation_id", generation.ID).
		Str("garment_id", garment.ID).
		Int("batch_size", generation.BatchSize).
		Msg("pipeline: generation accepted")
	return generation, nil
}

// Process runs one generation to a terminal state. Every error path ends in a
// persisted failed status; partial outputs already persisted are kept.
func (s *Service) Process(ctx context.Context, generationID string) error {
	generation, err := s.generations.GetByID(ctx, generationID)
	if err != nil {
		return fmt.Errorf("load generation: %w", err)
	}
	if generation.Terminal() {
		// Queue redelivery after a crash; finished generations never re-open.
		s.logger.Warn().Str("generation_id", generationID).Msg("pipeline: skipping terminal generation")
		return nil
	}
	if s.provider == nil {
		return s.failWith(ctx, generationID, synthesis.ErrNotConfigured)
	}

	if err := s.generations.UpdateStatus(ctx, generationID, domain.GenerationStatusProcessing, nil); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	garment, err := s.garments.GetByID(ctx, generation.GarmentID)
	if err != nil {
		return s.failWith(ctx, generationID, fmt.Errorf("load garment: %w", err))
	}

	results, err := s.fanOut(ctx, generation, garment)
	if err != nil {
		return s.failWith(ctx, generationID, err)
	}

	for i, result := range results {
		if err := s.publish(ctx, generation, result, i); err != nil {
			return s.failWith(ctx, generationID, err)
		}
	}

	if err := s.generations.UpdateStatus(ctx, generationID, domain.GenerationStatusCompleted, nil); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	s.logger.Info().
		Str("generation_id", generationID).
		Int("images", len(results)).
		Msg("pipeline: generation completed")
	return nil
}

// fanOut issues one provider call per pose concurrently and collects all
// results. A single pose failure fails the batch; the first error wins and its
// message is captured verbatim.
func (s *Service) fanOut(ctx context.Context, generation *domain.Generation, garment *domain.Garment) ([]*synthesis.Result, error) {
	var (
		wg      sync.WaitGroup
		results = make([]*synthesis.Result, generation.BatchSize)
		errs    = make([]error, generation.BatchSize)
	)

	for i := 0; i < generation.BatchSize; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				// A panicking provider fails its pose instead of killing the
				// worker process mid-batch.
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("internal error: %v", r)
				}
			}()
			pose := synthesis.PoseForIndex(i)
			results[i], errs[i] = s.provider.Generate(ctx, synthesis.Request{
				Prompt:         generation.PromptUsed,
				NegativePrompt: generation.NegativePrompt,
				ImageURL:       garment.OriginalImageURL,
				MaskURL:        garment.MaskImageURL,
				Pose:           pose,
				Seed:           deterministicSeed(generation.ID, pose, i),
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// publish downloads one synthesized image from its remote location, persists
// it to durable storage, and records the output against the generation.
func (s *Service) publish(ctx context.Context, generation *domain.Generation, result *synthesis.Result, index int) error {
	data, contentType, err := fetchImage(ctx, s.httpClient, result.URL)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("generated/%s/output-%02d%s", generation.ID, index+1, extensionForContentType(contentType))
	storedKey, err := s.store.Write(ctx, key, data)
	if err != nil {
		return fmt.Errorf("store output: %w", err)
	}

	output := &domain.OutputImage{
		ID:           uuid.NewString(),
		GenerationID: generation.ID,
		ImageURL:     s.storageBaseURL + "/" + storedKey,
		AspectRatio:  domain.DefaultAspectRatio,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.outputs.Create(ctx, output); err != nil {
		return fmt.Errorf("record output: %w", err)
	}
	return nil
}

// MarkFailed persists a terminal failed status with the given message. Used by
// the worker's error boundary as well as internal failure paths.
func (s *Service) MarkFailed(ctx context.Context, generationID, message string) {
	if err := s.generations.UpdateStatus(ctx, generationID, domain.GenerationStatusFailed, &message); err != nil {
		s.logger.Error().Err(err).Str("generation_id", generationID).Msg("pipeline: failed to persist failed status")
	}
}

func (s *Service) failWith(ctx context.Context, generationID string, cause error) error {
	s.logger.Error().Err(cause).Str("generation_id", generationID).Msg("pipeline: generation failed")
	s.MarkFailed(ctx, generationID, cause.Error())
	return cause
}

// deterministicSeed derives a stable positive seed from the generation, pose
// and index so re-running a batch reproduces its variations.
func deterministicSeed(values ...any) int {
	var parts []string
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	n := int(binary.BigEndian.Uint32(sum[:4]) % 1000000)
	if n <= 0 {
		n = 1
	}
	return n
}
