package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TradeStatus string

const (
	TradeProposed  TradeStatus = "proposed"
	TradePending   TradeStatus = "pending"
	TradeCompleted TradeStatus = "completed"
	TradeCancelled TradeStatus = "cancelled"
	TradeDenied    TradeStatus = "denied"
	TradeDeleted   TradeStatus = "deleted"
)

// Terminal reports whether no further transition may leave the status.
func (s TradeStatus) Terminal() bool {
	switch s {
	case TradeCompleted, TradeDenied, TradeDeleted:
		return true
	}
	return false
}

// Trade is a proposed exchange of exactly two instances between two trainers.
// Denial reuses the deleted-date field: both mean "the proposal never
// happened", and the persisted shape predates this codebase.
type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID      int64       `bun:"id,pk,autoincrement" json:"-"`
	TradeID string      `bun:"trade_id,notnull,unique" json:"trade_id"`
	Status  TradeStatus `bun:"trade_status,notnull" json:"trade_status"`

	UsernameProposed  string `bun:"username_proposed,notnull" json:"username_proposed"`
	UsernameAccepting string `bun:"username_accepting,notnull" json:"username_accepting"`

	ProposedInstanceID  string `bun:"instance_id_user_proposed,notnull" json:"pokemon_instance_id_user_proposed"`
	AcceptingInstanceID string `bun:"instance_id_user_accepting,notnull" json:"pokemon_instance_id_user_accepting"`

	ProposalDate  *time.Time `bun:"trade_proposal_date" json:"trade_proposal_date,omitempty"`
	AcceptedDate  *time.Time `bun:"trade_accepted_date" json:"trade_accepted_date,omitempty"`
	CompletedDate *time.Time `bun:"trade_completed_date" json:"trade_completed_date,omitempty"`
	CancelledDate *time.Time `bun:"trade_cancelled_date" json:"trade_cancelled_date,omitempty"`
	CancelledBy   string     `bun:"trade_cancelled_by,type:text,default:''" json:"trade_cancelled_by,omitempty"`
	DeletedDate   *time.Time `bun:"trade_deleted_date" json:"trade_deleted_date,omitempty"`

	ProposerConfirmed bool `bun:"user_proposed_completion_confirmed,notnull,default:false" json:"user_proposed_completion_confirmed"`
	AccepterConfirmed bool `bun:"user_accepting_completion_confirmed,notnull,default:false" json:"user_accepting_completion_confirmed"`

	ProposerSatisfied *bool `bun:"user_1_trade_satisfaction" json:"user_1_trade_satisfaction,omitempty"`
	AccepterSatisfied *bool `bun:"user_2_trade_satisfaction" json:"user_2_trade_satisfaction,omitempty"`

	LastUpdate time.Time `bun:"last_update,notnull" json:"last_update"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"-"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"-"`
}

// Involves reports whether the trade references the given instance on either side.
func (t *Trade) Involves(instanceID string) bool {
	return t.ProposedInstanceID == instanceID || t.AcceptingInstanceID == instanceID
}

// Party reports whether username is one of the two named trainers.
func (t *Trade) Party(username string) bool {
	return t.UsernameProposed == username || t.UsernameAccepting == username
}

// Clone returns a copy safe to mutate without touching the stored record.
func (t *Trade) Clone() *Trade {
	dup := *t
	return &dup
}
