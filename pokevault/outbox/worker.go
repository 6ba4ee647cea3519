package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trainerlab/pokevault/pokevault/config"
	"github.com/trainerlab/pokevault/pokevault/database/models"
	"github.com/trainerlab/pokevault/pokevault/database/repositories"
)

// Worker drains the durable-write queue into Postgres. Records are delivered
// at least once: a failed write is retried with backoff up to MaxRetries and
// then dropped with an error log, leaving the in-memory state ahead of
// storage until a later write to the same key reconciles it.
type Worker struct {
	queue      *MemoryQueue
	instances  repositories.InstanceRepository
	trades     repositories.TradeRepository
	syncLog    repositories.SyncLogRepository
	maxRetries int
	backoff    time.Duration
	drainers   int
}

func NewWorker(queue *MemoryQueue, instances repositories.InstanceRepository, trades repositories.TradeRepository, syncLog repositories.SyncLogRepository, maxRetries int) *Worker {
	if maxRetries <= 0 {
		maxRetries = config.DefaultSyncRetries
	}
	return &Worker{
		queue:      queue,
		instances:  instances,
		trades:     trades,
		syncLog:    syncLog,
		maxRetries: maxRetries,
		backoff:    config.SyncRetryBackoff,
		drainers:   2,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.drainers; i++ {
		g.Go(func() error {
			return w.drain(ctx)
		})
	}
	return g.Wait()
}

func (w *Worker) drain(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec := <-w.queue.Records():
			w.flush(ctx, rec)
		}
	}
}

func (w *Worker) flush(ctx context.Context, rec Record) {
	var err error
	for rec.Attempts = 1; rec.Attempts <= w.maxRetries; rec.Attempts++ {
		if err = w.write(ctx, rec); err == nil {
			break
		}
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Durable write failed, retrying",
			slog.String("type", "sync"),
			slog.String("key", rec.Key),
			slog.String("op", string(rec.Op)),
			slog.Int("attempt", rec.Attempts),
			slog.Any("error", err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.backoff * time.Duration(rec.Attempts)):
		}
	}
	if err != nil {
		slog.Error("Durable write dropped after retries",
			slog.String("type", "sync"),
			slog.String("key", rec.Key),
			slog.String("op", string(rec.Op)),
			slog.Any("error", err))
		return
	}

	if w.syncLog != nil {
		if logErr := w.syncLog.Append(ctx, rec.Key, string(rec.Op), rec.Payload, rec.Attempts); logErr != nil {
			slog.Warn("Failed to append sync log",
				slog.String("type", "sync"),
				slog.String("key", rec.Key),
				slog.Any("error", logErr))
		}
	}
}

func (w *Worker) write(ctx context.Context, rec Record) error {
	switch rec.Op {
	case OpUpdateInstance:
		inst, ok := rec.Payload.(*models.Instance)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", rec.Payload, rec.Op)
		}
		return w.instances.Upsert(ctx, inst)
	case OpUpdateTrade:
		trade, ok := rec.Payload.(*models.Trade)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", rec.Payload, rec.Op)
		}
		return w.trades.Upsert(ctx, trade)
	default:
		return fmt.Errorf("unknown operation %q", rec.Op)
	}
}
