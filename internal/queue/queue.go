// Package queue hands generation identifiers from the API process to the
// worker. The payload is just the ID; the worker re-reads the full record so
// a stale queue entry can never override persisted state.
package queue

import "context"

// Queue is the hand-off contract between request acceptance and background
// processing.
type Queue interface {
	Enqueue(ctx context.Context, generationID string) error
	// Dequeue blocks until an identifier is available or ctx is done.
	Dequeue(ctx context.Context) (string, error)
}
