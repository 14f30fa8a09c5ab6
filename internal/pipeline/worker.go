package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ainaphakhruddin/airchives/internal/infra"
	"github.com/ainaphakhruddin/airchives/internal/queue"
)

// Worker consumes generation IDs from the queue and drives each one through
// the pipeline. It is the error boundary for background execution: no failure
// inside Process, including a panic, may leave a generation stuck in
// processing.
type Worker struct {
	service *Service
	queue   queue.Queue
	logger  infra.Logger
}

// NewWorker wires the background consumer.
func NewWorker(service *Service, q queue.Queue, logger infra.Logger) *Worker {
	return &Worker{service: service, queue: q, logger: logger}
}

// Run blocks consuming the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Msg("worker: started")
	for {
		id, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			w.logger.Error().Err(err).Msg("worker: dequeue failed")
			continue
		}
		w.Handle(ctx, id)
	}
}

// Handle processes one generation with a recover boundary: a panic still ends
// in a persisted failed record.
func (w *Worker) Handle(ctx context.Context, generationID string) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Str("generation_id", generationID).Msgf("worker: panic recovered: %v", r)
			w.service.MarkFailed(ctx, generationID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	w.logger.Info().Str("generation_id", generationID).Msg("worker: picked generation")
	if err := w.service.Process(ctx, generationID); err != nil {
		w.logger.Error().Err(err).Str("generation_id", generationID).Msg("worker: generation failed")
	}
}
