package trade

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trainerlab/pokevault/pokevault/collection"
	"github.com/trainerlab/pokevault/pokevault/database/models"
	"github.com/trainerlab/pokevault/pokevault/outbox"
)

var (
	ErrTradeNotFound     = errors.New("trade not found")
	ErrInvalidTransition = errors.New("invalid trade transition")
	ErrNotParty          = errors.New("user is not a party to this trade")
	ErrSelfTrade         = errors.New("cannot trade with yourself")
)

// Manager owns the trade lifecycle state machine. Transitions follow the
// fixed precondition table; anything else is rejected with
// ErrInvalidTransition. Every transition computes the full updated trade,
// merges it into the in-memory collection, then enqueues a durable update.
// The durable enqueue is fire-and-forget: failures are logged and the
// in-memory transition stands.
type Manager struct {
	mu     sync.RWMutex
	trades map[string]*models.Trade
	ledger *collection.Ledger
	queue  outbox.Queue
	now    func() time.Time
	newID  func() string
}

func NewManager(ledger *collection.Ledger, queue outbox.Queue) *Manager {
	return &Manager{
		trades: make(map[string]*models.Trade),
		ledger: ledger,
		queue:  queue,
		now:    time.Now,
		newID:  collection.NewID,
	}
}

// Hydrate loads trades without touching the durable path, for start-up
// restore from storage.
func (m *Manager) Hydrate(trades []*models.Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range trades {
		m.trades[t.TradeID] = t.Clone()
	}
}

// Get returns a copy of the trade.
func (m *Manager) Get(tradeID string) (*models.Trade, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trades[tradeID]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// ForUser returns copies of every trade the user is a party to, optionally
// filtered by status ("" means all).
func (m *Manager) ForUser(username string, status models.TradeStatus) []*models.Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Trade, 0)
	for _, t := range m.trades {
		if !t.Party(username) {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// Propose creates a new trade in proposed state.
func (m *Manager) Propose(currentUsername, accepting, proposedInstanceID, acceptingInstanceID string) (*models.Trade, error) {
	if currentUsername == accepting {
		return nil, ErrSelfTrade
	}

	now := m.now()
	t := &models.Trade{
		TradeID:             m.newID(),
		Status:              models.TradeProposed,
		UsernameProposed:    currentUsername,
		UsernameAccepting:   accepting,
		ProposedInstanceID:  proposedInstanceID,
		AcceptingInstanceID: acceptingInstanceID,
		ProposalDate:        &now,
		LastUpdate:          now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	m.mu.Lock()
	m.trades[t.TradeID] = t
	m.mu.Unlock()

	m.enqueue(t)
	slog.Info("Trade proposed",
		slog.String("type", "trade"),
		slog.String("trade_id", t.TradeID),
		slog.String("username", currentUsername))
	return t.Clone(), nil
}

// Accept moves a proposed trade to pending and cascades every other proposed
// trade touching either involved instance into deleted, in the same
// operation. Acceptance is what pins both instances to one live trade.
func (m *Manager) Accept(currentUsername, tradeID string) (*models.Trade, error) {
	m.mu.Lock()
	t, err := m.lockedTransition(currentUsername, tradeID, models.TradeProposed)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	now := m.now()
	t.Status = models.TradePending
	t.AcceptedDate = &now
	t.LastUpdate = now
	t.UpdatedAt = now

	cascaded := make([]*models.Trade, 0)
	for _, sibling := range m.trades {
		if sibling.TradeID == t.TradeID || sibling.Status != models.TradeProposed {
			continue
		}
		if sibling.Involves(t.ProposedInstanceID) || sibling.Involves(t.AcceptingInstanceID) {
			deleted := now
			sibling.Status = models.TradeDeleted
			sibling.DeletedDate = &deleted
			sibling.LastUpdate = now
			sibling.UpdatedAt = now
			cascaded = append(cascaded, sibling.Clone())
		}
	}
	result := t.Clone()
	m.mu.Unlock()

	m.enqueue(result)
	for _, sibling := range cascaded {
		m.enqueue(sibling)
	}

	slog.Info("Trade accepted",
		slog.String("type", "trade"),
		slog.String("trade_id", tradeID),
		slog.String("username", currentUsername),
		slog.Int("cascade_deleted", len(cascaded)))
	return result, nil
}

// Deny terminates a proposed trade from the accepting side. Denial reuses the
// deleted-date field; there is no separate denial timestamp in the persisted
// shape.
func (m *Manager) Deny(currentUsername, tradeID string) (*models.Trade, error) {
	return m.terminateProposal(currentUsername, tradeID, models.TradeDenied)
}

// Delete withdraws a proposed trade.
func (m *Manager) Delete(currentUsername, tradeID string) (*models.Trade, error) {
	return m.terminateProposal(currentUsername, tradeID, models.TradeDeleted)
}

func (m *Manager) terminateProposal(currentUsername, tradeID string, status models.TradeStatus) (*models.Trade, error) {
	m.mu.Lock()
	t, err := m.lockedTransition(currentUsername, tradeID, models.TradeProposed)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	now := m.now()
	t.Status = status
	t.DeletedDate = &now
	t.LastUpdate = now
	t.UpdatedAt = now
	result := t.Clone()
	m.mu.Unlock()

	m.enqueue(result)
	slog.Info("Trade terminated",
		slog.String("type", "trade"),
		slog.String("trade_id", tradeID),
		slog.String("username", currentUsername),
		slog.String("status", string(status)))
	return result, nil
}

// Cancel moves a pending trade to cancelled, recording who pulled out.
func (m *Manager) Cancel(currentUsername, tradeID string) (*models.Trade, error) {
	m.mu.Lock()
	t, err := m.lockedTransition(currentUsername, tradeID, models.TradePending)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	now := m.now()
	t.Status = models.TradeCancelled
	t.CancelledDate = &now
	t.CancelledBy = currentUsername
	t.LastUpdate = now
	t.UpdatedAt = now
	result := t.Clone()
	m.mu.Unlock()

	m.enqueue(result)
	slog.Info("Trade cancelled",
		slog.String("type", "trade"),
		slog.String("trade_id", tradeID),
		slog.String("username", currentUsername))
	return result, nil
}

// Complete records the calling party's completion confirmation. Once both
// parties have confirmed, the trade completes and ownership of the two
// instances is swapped in one atomic ledger patch: only the username field of
// each record changes.
func (m *Manager) Complete(currentUsername, tradeID string) (*models.Trade, error) {
	m.mu.Lock()
	t, err := m.lockedTransition(currentUsername, tradeID, models.TradePending)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	now := m.now()
	if currentUsername == t.UsernameProposed {
		t.ProposerConfirmed = true
	} else {
		t.AccepterConfirmed = true
	}
	t.LastUpdate = now
	t.UpdatedAt = now

	completing := t.ProposerConfirmed && t.AccepterConfirmed
	if completing {
		t.Status = models.TradeCompleted
		t.CompletedDate = &now
	}
	result := t.Clone()
	m.mu.Unlock()

	if completing {
		if err := m.swapOwnership(result); err != nil {
			// revert: the swap could not be applied, so the trade stays
			// pending with both confirmations held
			m.mu.Lock()
			if stored, ok := m.trades[tradeID]; ok {
				stored.Status = models.TradePending
				stored.CompletedDate = nil
			}
			m.mu.Unlock()
			return nil, fmt.Errorf("complete trade %s: %w", tradeID, err)
		}
	}

	m.enqueue(result)
	slog.Info("Trade completion confirmed",
		slog.String("type", "trade"),
		slog.String("trade_id", tradeID),
		slog.String("username", currentUsername),
		slog.Bool("completed", completing))
	return result, nil
}

func (m *Manager) swapOwnership(t *models.Trade) error {
	return m.ledger.Apply(map[string]collection.Patch{
		t.ProposedInstanceID:  {Username: collection.String(t.UsernameAccepting)},
		t.AcceptingInstanceID: {Username: collection.String(t.UsernameProposed)},
	})
}

// Repropose reopens a cancelled trade as a fresh proposal: acceptance and
// terminal timestamps reset, proposal date refreshed. If the re-proposing
// user was not the original proposer, the proposer and accepter roles (and
// their instances) swap sides.
func (m *Manager) Repropose(currentUsername, tradeID string) (*models.Trade, error) {
	m.mu.Lock()
	t, err := m.lockedTransition(currentUsername, tradeID, models.TradeCancelled)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	now := m.now()
	if currentUsername != t.UsernameProposed {
		t.UsernameProposed, t.UsernameAccepting = t.UsernameAccepting, t.UsernameProposed
		t.ProposedInstanceID, t.AcceptingInstanceID = t.AcceptingInstanceID, t.ProposedInstanceID
	}
	t.Status = models.TradeProposed
	t.ProposalDate = &now
	t.AcceptedDate = nil
	t.CompletedDate = nil
	t.CancelledDate = nil
	t.DeletedDate = nil
	t.CancelledBy = ""
	t.ProposerConfirmed = false
	t.AccepterConfirmed = false
	t.LastUpdate = now
	t.UpdatedAt = now
	result := t.Clone()
	m.mu.Unlock()

	m.enqueue(result)
	slog.Info("Trade re-proposed",
		slog.String("type", "trade"),
		slog.String("trade_id", tradeID),
		slog.String("username", currentUsername))
	return result, nil
}

// ToggleSatisfaction flips the calling party's post-completion thumbs-up.
// Only valid on completed trades; no status change ever results.
func (m *Manager) ToggleSatisfaction(currentUsername, tradeID string) (*models.Trade, error) {
	m.mu.Lock()
	t, err := m.lockedTransition(currentUsername, tradeID, models.TradeCompleted)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	now := m.now()
	if currentUsername == t.UsernameProposed {
		t.ProposerSatisfied = toggle(t.ProposerSatisfied)
	} else {
		t.AccepterSatisfied = toggle(t.AccepterSatisfied)
	}
	t.LastUpdate = now
	t.UpdatedAt = now
	result := t.Clone()
	m.mu.Unlock()

	m.enqueue(result)
	return result, nil
}

func toggle(b *bool) *bool {
	v := b == nil || !*b
	return &v
}

// lockedTransition validates the precondition table: the trade exists, the
// caller is a party, and the status matches. Callers hold m.mu.
func (m *Manager) lockedTransition(currentUsername, tradeID string, want models.TradeStatus) (*models.Trade, error) {
	t, ok := m.trades[tradeID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", tradeID, ErrTradeNotFound)
	}
	if !t.Party(currentUsername) {
		return nil, fmt.Errorf("%s on %s: %w", currentUsername, tradeID, ErrNotParty)
	}
	if t.Status != want {
		return nil, fmt.Errorf("%s is %s, want %s: %w", tradeID, t.Status, want, ErrInvalidTransition)
	}
	return t, nil
}

func (m *Manager) enqueue(t *models.Trade) {
	if m.queue == nil {
		return
	}
	err := m.queue.Enqueue(t.TradeID, outbox.Record{
		Op:      outbox.OpUpdateTrade,
		Payload: t,
	})
	if err != nil {
		slog.Error("Failed to enqueue trade update",
			slog.String("type", "sync"),
			slog.String("trade_id", t.TradeID),
			slog.Any("error", err))
	}
}
