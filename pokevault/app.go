package pokevault

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trainerlab/pokevault/pokevault/catalog"
	"github.com/trainerlab/pokevault/pokevault/collection"
	appconfig "github.com/trainerlab/pokevault/pokevault/config"
	"github.com/trainerlab/pokevault/pokevault/database"
	"github.com/trainerlab/pokevault/pokevault/database/repositories"
	"github.com/trainerlab/pokevault/pokevault/outbox"
	"github.com/trainerlab/pokevault/pokevault/trade"
	"github.com/trainerlab/pokevault/pokevault/utils"
)

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:       cfg,
		Version:   version,
		Commit:    commit,
		Processes: utils.NewBackgroundProcessManager(),
	}
}

// App wires the client core: catalog, ledger, reciprocal synchronizer, trade
// manager, and the durable-write path.
type App struct {
	Cfg        Config
	Version    string
	Commit     string
	DB         *database.DB
	Catalog    *catalog.Index
	Resolver   *catalog.Resolver
	Queue      *outbox.MemoryQueue
	Ledger     *collection.Ledger
	Buckets    *collection.Buckets
	Reciprocal *collection.Synchronizer
	Trades     *trade.Manager
	Worker     *outbox.Worker
	Processes  *utils.BackgroundProcessManager

	InstanceRepository repositories.InstanceRepository
	TradeRepository    repositories.TradeRepository
	SyncLogRepository  repositories.SyncLogRepository
}

// Setup opens the database and loads the variant catalog concurrently, then
// builds the in-memory components on top.
func (a *App) Setup(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dbConfig := database.DBConfig{
			Host:     a.Cfg.DB.Host,
			Port:     a.Cfg.DB.Port,
			User:     a.Cfg.DB.User,
			Password: a.Cfg.DB.Password,
			Database: a.Cfg.DB.Database,
			PoolSize: a.Cfg.DB.PoolSize,
		}
		db, err := database.New(gctx, dbConfig)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		if err := db.InitializeSchema(gctx); err != nil {
			db.Close()
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		a.DB = db
		return nil
	})

	g.Go(func() error {
		index, err := catalog.Load(a.Cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("catalog load failed: %w", err)
		}
		a.Catalog = index
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.InstanceRepository = repositories.NewInstanceRepository(a.DB.BunDB())
	a.TradeRepository = repositories.NewTradeRepository(a.DB.BunDB())
	a.SyncLogRepository = repositories.NewSyncLogRepository(a.DB.BunDB())

	queueSize := a.Cfg.Sync.QueueSize
	if queueSize <= 0 {
		queueSize = appconfig.DefaultSyncQueueSize
	}
	a.Queue = outbox.NewMemoryQueue(queueSize)

	a.Resolver = catalog.NewResolver(a.Catalog)
	a.Ledger = collection.NewLedger(a.Queue)
	a.Ledger.OnWrite(a.Resolver.Invalidate)
	a.Buckets = collection.NewBuckets()
	a.Reciprocal = collection.NewSynchronizer(a.Ledger, a.Buckets, a.Resolver)
	a.Trades = trade.NewManager(a.Ledger, a.Queue)

	a.Worker = outbox.NewWorker(a.Queue, a.InstanceRepository, a.TradeRepository, a.SyncLogRepository, a.Cfg.Sync.MaxRetries)
	return nil
}

// HydrateUser restores a trainer's instances and trades from storage into the
// in-memory components without re-enqueueing them.
func (a *App) HydrateUser(ctx context.Context, username string) error {
	insts, err := a.InstanceRepository.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to hydrate instances: %w", err)
	}
	a.Ledger.Hydrate(insts)
	for _, inst := range insts {
		switch {
		case inst.Wanted:
			a.Buckets.Put(collection.BucketWanted, inst)
		case inst.ForTrade:
			a.Buckets.Put(collection.BucketForTrade, inst)
		case inst.Caught:
			a.Buckets.Put(collection.BucketCaught, inst)
		default:
			a.Buckets.Put(collection.BucketMissing, inst)
		}
	}

	trades, err := a.TradeRepository.GetAllUserTrades(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to hydrate trades: %w", err)
	}
	a.Trades.Hydrate(trades)
	return nil
}

// Start launches the background sync drain.
func (a *App) Start() {
	a.Processes.StartProcess("sync-drain", "durable-write queue drain", func(ctx context.Context) {
		if err := a.Worker.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Sync worker exited",
				slog.String("type", "sync"),
				slog.Any("error", err))
		}
	})
}

// Shutdown stops background work and closes the database.
func (a *App) Shutdown(timeout time.Duration) {
	_ = a.Processes.Shutdown(timeout)
	if a.DB != nil {
		a.DB.Close()
	}
}
