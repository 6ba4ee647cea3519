package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

type SyncLogRepository interface {
	Append(ctx context.Context, key, operation string, payload any, attempts int) error
	Recent(ctx context.Context, limit int) ([]*models.SyncRecord, error)
}

type syncLogRepository struct {
	db *bun.DB
}

func NewSyncLogRepository(db *bun.DB) SyncLogRepository {
	return &syncLogRepository{db: db}
}

func (r *syncLogRepository) Append(ctx context.Context, key, operation string, payload any, attempts int) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	rec := &models.SyncRecord{
		Key:       key,
		Operation: operation,
		Payload:   raw,
		Attempts:  attempts,
		FlushedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append sync record: %w", err)
	}
	return nil
}

func (r *syncLogRepository) Recent(ctx context.Context, limit int) ([]*models.SyncRecord, error) {
	var recs []*models.SyncRecord
	err := r.db.NewSelect().
		Model(&recs).
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync records: %w", err)
	}
	return recs, nil
}
