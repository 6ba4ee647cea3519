package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

type InstanceRepository interface {
	GetByInstanceID(ctx context.Context, instanceID string) (*models.Instance, error)
	GetByUsername(ctx context.Context, username string) ([]*models.Instance, error)
	Upsert(ctx context.Context, inst *models.Instance) error
	Count(ctx context.Context) (int, error)
}

type instanceRepository struct {
	db *bun.DB
}

func NewInstanceRepository(db *bun.DB) InstanceRepository {
	return &instanceRepository{db: db}
}

func (r *instanceRepository) GetByInstanceID(ctx context.Context, instanceID string) (*models.Instance, error) {
	inst := new(models.Instance)
	err := r.db.NewSelect().
		Model(inst).
		Where("instance_id = ?", instanceID).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("instance not found")
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	return inst, nil
}

func (r *instanceRepository) GetByUsername(ctx context.Context, username string) ([]*models.Instance, error) {
	var insts []*models.Instance
	err := r.db.NewSelect().
		Model(&insts).
		Where("username = ?", username).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get instances for user: %w", err)
	}
	return insts, nil
}

// Upsert writes the full instance snapshot keyed by instance_id, but never
// clobbers a newer row: last_update is the conflict guard, so replayed or
// reordered queue records cannot roll a record backwards.
func (r *instanceRepository) Upsert(ctx context.Context, inst *models.Instance) error {
	inst.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(inst).
		On("CONFLICT (instance_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("variant_id = EXCLUDED.variant_id").
		Set("species_id = EXCLUDED.species_id").
		Set("is_caught = EXCLUDED.is_caught").
		Set("is_for_trade = EXCLUDED.is_for_trade").
		Set("is_wanted = EXCLUDED.is_wanted").
		Set("mirror = EXCLUDED.mirror").
		Set("favorite = EXCLUDED.favorite").
		Set("most_wanted = EXCLUDED.most_wanted").
		Set("registered = EXCLUDED.registered").
		Set("shiny = EXCLUDED.shiny").
		Set("shadow = EXCLUDED.shadow").
		Set("mega = EXCLUDED.mega").
		Set("fused = EXCLUDED.fused").
		Set("dynamax = EXCLUDED.dynamax").
		Set("gigantamax = EXCLUDED.gigantamax").
		Set("costume_id = EXCLUDED.costume_id").
		Set("form = EXCLUDED.form").
		Set("stats = EXCLUDED.stats").
		Set("not_trade_list = EXCLUDED.not_trade_list").
		Set("not_wanted_list = EXCLUDED.not_wanted_list").
		Set("trade_filters = EXCLUDED.trade_filters").
		Set("last_update = EXCLUDED.last_update").
		Set("updated_at = EXCLUDED.updated_at").
		Where("i.last_update <= EXCLUDED.last_update").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert instance: %w", err)
	}
	return nil
}

func (r *instanceRepository) Count(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Instance)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count instances: %w", err)
	}
	return count, nil
}
