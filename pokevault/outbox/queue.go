package outbox

import (
	"errors"
	"time"
)

type Op string

const (
	OpUpdateTrade    Op = "updateTrade"
	OpUpdateInstance Op = "updateInstance"
)

// Record is one durable-write request. Payload is the full post-transition
// snapshot of the record being persisted.
type Record struct {
	Key        string
	Op         Op
	Payload    any
	EnqueuedAt time.Time
	Attempts   int
}

// Queue is the durable-write path. Enqueue is fire-and-forget from the
// caller's point of view: errors are logged at the call site and never
// propagated into the state transition that produced the record. Delivery is
// at-least-once.
type Queue interface {
	Enqueue(key string, rec Record) error
}

var ErrQueueFull = errors.New("sync queue full")

// MemoryQueue is a bounded in-process queue drained by a Worker. In-memory
// state is updated before the enqueue, so a full queue widens the
// durability window but never blocks or corrupts the caller.
type MemoryQueue struct {
	records chan Record
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1
	}
	return &MemoryQueue{
		records: make(chan Record, size),
	}
}

func (q *MemoryQueue) Enqueue(key string, rec Record) error {
	rec.Key = key
	if rec.EnqueuedAt.IsZero() {
		rec.EnqueuedAt = time.Now()
	}
	select {
	case q.records <- rec:
		return nil
	default:
		return ErrQueueFull
	}
}

// Records exposes the drain side of the queue.
func (q *MemoryQueue) Records() <-chan Record {
	return q.records
}

func (q *MemoryQueue) Len() int {
	return len(q.records)
}
