package outbox

import (
	"errors"
	"testing"
)

func TestMemoryQueue_EnqueueAndDrain(t *testing.T) {
	q := NewMemoryQueue(4)

	if err := q.Enqueue("k1", Record{Op: OpUpdateInstance, Payload: "a"}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := q.Enqueue("k2", Record{Op: OpUpdateTrade, Payload: "b"}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}

	rec := <-q.Records()
	if rec.Key != "k1" || rec.Op != OpUpdateInstance {
		t.Errorf("drained %+v, want k1/updateInstance first", rec)
	}
	if rec.EnqueuedAt.IsZero() {
		t.Error("EnqueuedAt not stamped")
	}
}

func TestMemoryQueue_FullQueueRejects(t *testing.T) {
	q := NewMemoryQueue(1)

	if err := q.Enqueue("k1", Record{Op: OpUpdateInstance}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	err := q.Enqueue("k2", Record{Op: OpUpdateInstance})
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("Enqueue() on full queue = %v, want ErrQueueFull", err)
	}

	// the overflowed record is dropped, not queued
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestMemoryQueue_ZeroSizeGetsMinimumCapacity(t *testing.T) {
	q := NewMemoryQueue(0)
	if err := q.Enqueue("k1", Record{Op: OpUpdateInstance}); err != nil {
		t.Errorf("Enqueue() error = %v", err)
	}
}
