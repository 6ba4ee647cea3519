package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

const defaultBatchSize = 500

// Migrator imports a legacy collection export into Postgres: trainers'
// instance lists and historical trades. Input is either JSON dump files in a
// data directory or a live Mongo database; when both are configured the
// Mongo collections win.
type Migrator struct {
	pgDB      *bun.DB
	dataDir   string
	mongoDB   *mongo.Database
	batchSize int
	collNames map[string]string
	stats     MigrationStats
}

type Option func(*Migrator)

func WithMongo(db *mongo.Database) Option {
	return func(m *Migrator) { m.mongoDB = db }
}

func WithBatchSize(n int) Option {
	return func(m *Migrator) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

func WithCollectionNames(names map[string]string) Option {
	return func(m *Migrator) {
		for k, v := range names {
			m.collNames[k] = v
		}
	}
}

func NewMigrator(pgDB *bun.DB, dataDir string, opts ...Option) *Migrator {
	m := &Migrator{
		pgDB:      pgDB,
		dataDir:   dataDir,
		batchSize: defaultBatchSize,
		collNames: map[string]string{
			"instances": "pokemon",
			"trades":    "trades",
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MigrateAll imports instances first, then trades, and logs a summary.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	m.stats = MigrationStats{StartedAt: time.Now()}

	if err := m.migrateInstances(ctx); err != nil {
		return fmt.Errorf("instance migration failed: %w", err)
	}
	if err := m.migrateTrades(ctx); err != nil {
		return fmt.Errorf("trade migration failed: %w", err)
	}

	slog.Info("Migration complete",
		slog.String("type", "db"),
		slog.Int("instances_read", m.stats.InstancesRead),
		slog.Int("instances_written", m.stats.InstancesWritten),
		slog.Int("instances_skipped", m.stats.InstancesSkipped),
		slog.Int("trades_read", m.stats.TradesRead),
		slog.Int("trades_written", m.stats.TradesWritten),
		slog.Int("trades_skipped", m.stats.TradesSkipped),
		slog.Duration("took", time.Since(m.stats.StartedAt)))
	return nil
}

// Stats returns the counters of the last run.
func (m *Migrator) Stats() MigrationStats {
	return m.stats
}

func (m *Migrator) migrateInstances(ctx context.Context) error {
	var legacy []LegacyInstance
	if err := m.load(ctx, "instances", "instances.json", &legacy); err != nil {
		return err
	}
	m.stats.InstancesRead = len(legacy)

	batch := make([]*models.Instance, 0, m.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (instance_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert instance batch: %w", err)
		}
		m.stats.InstancesWritten += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, li := range legacy {
		if li.InstanceID == "" || li.Username == "" {
			m.stats.InstancesSkipped++
			continue
		}
		batch = append(batch, convertInstance(li))
		if len(batch) >= m.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func (m *Migrator) migrateTrades(ctx context.Context) error {
	var legacy []LegacyTrade
	if err := m.load(ctx, "trades", "trades.json", &legacy); err != nil {
		return err
	}
	m.stats.TradesRead = len(legacy)

	batch := make([]*models.Trade, 0, m.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (trade_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert trade batch: %w", err)
		}
		m.stats.TradesWritten += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, lt := range legacy {
		if lt.TradeID == "" || lt.ProposedInstanceID == "" || lt.AcceptingInstanceID == "" {
			m.stats.TradesSkipped++
			continue
		}
		batch = append(batch, convertTrade(lt))
		if len(batch) >= m.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// load reads one legacy collection, preferring a live Mongo database over
// JSON dump files.
func (m *Migrator) load(ctx context.Context, collKey, jsonName string, out any) error {
	if m.mongoDB != nil {
		return m.loadMongo(ctx, m.collNames[collKey], out)
	}
	return m.loadJSON(jsonName, out)
}

func (m *Migrator) loadMongo(ctx context.Context, collName string, out any) error {
	cursor, err := m.mongoDB.Collection(collName).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collName, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collName, err)
	}
	return nil
}

func (m *Migrator) loadJSON(name string, out any) error {
	path := filepath.Join(m.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Legacy dump missing, skipping",
				slog.String("type", "db"),
				slog.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
