package queue

import "context"

// MemoryQueue is a channel-backed queue for tests and single-process setups.
type MemoryQueue struct {
	ch chan string
}

// NewMemoryQueue creates a queue with the given buffer capacity.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 64
	}
	return &MemoryQueue{ch: make(chan string, capacity)}
}

// Enqueue pushes an ID, failing only when ctx is done before space frees up.
func (q *MemoryQueue) Enqueue(ctx context.Context, generationID string) error {
	select {
	case q.ch <- generationID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks until an ID is available or ctx is done.
func (q *MemoryQueue) Dequeue(ctx context.Context) (string, error) {
	select {
	case id := <-q.ch:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

var _ Queue = (*MemoryQueue)(nil)
