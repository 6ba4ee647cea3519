package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

type TradeRepository interface {
	GetByTradeID(ctx context.Context, tradeID string) (*models.Trade, error)
	GetUserTrades(ctx context.Context, username string, status models.TradeStatus) ([]*models.Trade, error)
	GetAllUserTrades(ctx context.Context, username string) ([]*models.Trade, error)
	GetOpenTradesForInstance(ctx context.Context, instanceID string) ([]*models.Trade, error)
	Upsert(ctx context.Context, trade *models.Trade) error
}

type tradeRepository struct {
	db *bun.DB
}

func NewTradeRepository(db *bun.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) GetByTradeID(ctx context.Context, tradeID string) (*models.Trade, error) {
	trade := new(models.Trade)
	err := r.db.NewSelect().
		Model(trade).
		Where("trade_id = ?", tradeID).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("trade not found")
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

func (r *tradeRepository) GetUserTrades(ctx context.Context, username string, status models.TradeStatus) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Where("(username_proposed = ? OR username_accepting = ?) AND trade_status = ?", username, username, status).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get user trades: %w", err)
	}
	return trades, nil
}

func (r *tradeRepository) GetAllUserTrades(ctx context.Context, username string) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Where("username_proposed = ? OR username_accepting = ?", username, username).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get all user trades: %w", err)
	}
	return trades, nil
}

func (r *tradeRepository) GetOpenTradesForInstance(ctx context.Context, instanceID string) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Where("(instance_id_user_proposed = ? OR instance_id_user_accepting = ?) AND trade_status IN (?, ?)",
			instanceID, instanceID, models.TradeProposed, models.TradePending).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get open trades for instance: %w", err)
	}
	return trades, nil
}

// Upsert writes the full trade snapshot keyed by trade_id. last_update guards
// against replayed queue records regressing a newer row.
func (r *tradeRepository) Upsert(ctx context.Context, trade *models.Trade) error {
	trade.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(trade).
		On("CONFLICT (trade_id) DO UPDATE").
		Set("trade_status = EXCLUDED.trade_status").
		Set("username_proposed = EXCLUDED.username_proposed").
		Set("username_accepting = EXCLUDED.username_accepting").
		Set("instance_id_user_proposed = EXCLUDED.instance_id_user_proposed").
		Set("instance_id_user_accepting = EXCLUDED.instance_id_user_accepting").
		Set("trade_proposal_date = EXCLUDED.trade_proposal_date").
		Set("trade_accepted_date = EXCLUDED.trade_accepted_date").
		Set("trade_completed_date = EXCLUDED.trade_completed_date").
		Set("trade_cancelled_date = EXCLUDED.trade_cancelled_date").
		Set("trade_cancelled_by = EXCLUDED.trade_cancelled_by").
		Set("trade_deleted_date = EXCLUDED.trade_deleted_date").
		Set("user_proposed_completion_confirmed = EXCLUDED.user_proposed_completion_confirmed").
		Set("user_accepting_completion_confirmed = EXCLUDED.user_accepting_completion_confirmed").
		Set("user_1_trade_satisfaction = EXCLUDED.user_1_trade_satisfaction").
		Set("user_2_trade_satisfaction = EXCLUDED.user_2_trade_satisfaction").
		Set("last_update = EXCLUDED.last_update").
		Set("updated_at = EXCLUDED.updated_at").
		Where("t.last_update <= EXCLUDED.last_update").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert trade: %w", err)
	}
	return nil
}
