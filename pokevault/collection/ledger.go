package collection

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trainerlab/pokevault/pokevault/database/models"
	"github.com/trainerlab/pokevault/pokevault/outbox"
)

var (
	ErrInstanceNotFound = errors.New("instance not found")
	ErrStaleWrite       = errors.New("stale write rejected")
)

// Patch is a partial update of one instance. Nil fields are left untouched;
// non-nil maps replace the stored map wholesale (exclusion-map updates are
// computed clone-and-replace, never merged key by key).
type Patch struct {
	Username  *string
	VariantID *string
	SpeciesID *int

	Caught     *bool
	ForTrade   *bool
	Wanted     *bool
	Mirror     *bool
	Favorite   *bool
	MostWanted *bool
	Registered *bool

	Shiny      *bool
	Shadow     *bool
	Mega       *bool
	Fused      *bool
	Dynamax    *bool
	Gigantamax *bool
	CostumeID  *string
	Form       *string

	Stats *models.InstanceStats

	NotTradeList  map[string]bool
	NotWantedList map[string]bool
	TradeFilters  map[string]bool

	// LastUpdate is the writer's version stamp. A patch older than the stored
	// record is rejected as stale; zero means "stamp with now".
	LastUpdate *time.Time
}

// Pointer helpers for building patches.
func Bool(b bool) *bool       { return &b }
func String(s string) *string { return &s }
func Int(i int) *int          { return &i }

// Ledger is the authoritative in-memory map of instance id to instance
// record, and the single sanctioned mutation path for instance state. Every
// successful write also enqueues a durable update so in-memory and durable
// state cannot diverge beyond the queue's window.
type Ledger struct {
	mu        sync.RWMutex
	instances map[string]*models.Instance
	queue     outbox.Queue
	onWrite   []func(instanceID string)
	now       func() time.Time
}

func NewLedger(queue outbox.Queue) *Ledger {
	return &Ledger{
		instances: make(map[string]*models.Instance),
		queue:     queue,
		now:       time.Now,
	}
}

// OnWrite registers a hook called with the id of every written instance.
// Used to invalidate resolver caches.
func (l *Ledger) OnWrite(fn func(instanceID string)) {
	l.onWrite = append(l.onWrite, fn)
}

// Get returns a copy of the instance. Mutating the copy has no effect;
// writes go through Apply.
func (l *Ledger) Get(instanceID string) (*models.Instance, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	inst, ok := l.instances[instanceID]
	if !ok {
		return nil, false
	}
	return inst.Clone(), true
}

// All returns copies of every instance, no particular order.
func (l *Ledger) All() []*models.Instance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*models.Instance, 0, len(l.instances))
	for _, inst := range l.instances {
		out = append(out, inst.Clone())
	}
	return out
}

// ForUser returns copies of every instance owned by username.
func (l *Ledger) ForUser(username string) []*models.Instance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*models.Instance, 0)
	for _, inst := range l.instances {
		if inst.Username == username {
			out = append(out, inst.Clone())
		}
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.instances)
}

// Put registers a new or hydrated instance record and enqueues its durable
// write. Existing records with the same id are replaced outright; partial
// updates go through Apply.
func (l *Ledger) Put(inst *models.Instance) {
	now := l.now()
	stored := inst.Clone()
	if stored.LastUpdate.IsZero() {
		stored.LastUpdate = now
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	l.mu.Lock()
	l.instances[stored.InstanceID] = stored
	l.mu.Unlock()

	l.notifyWrite(stored.InstanceID)
	l.enqueue(stored)
}

// Hydrate loads records without touching the durable path, for start-up
// restore from storage.
func (l *Ledger) Hydrate(insts []*models.Instance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, inst := range insts {
		l.instances[inst.InstanceID] = inst.Clone()
	}
}

// Apply merges the patch map atomically: every id is validated (presence and
// version) before any record is touched, so a multi-record effect such as a
// trade's ownership swap is all-or-nothing. One durable update is enqueued
// per touched id; enqueue failures are logged and the in-memory write stands.
func (l *Ledger) Apply(patches map[string]Patch) error {
	if len(patches) == 0 {
		return nil
	}

	now := l.now()

	l.mu.Lock()
	for id, patch := range patches {
		stored, ok := l.instances[id]
		if !ok {
			l.mu.Unlock()
			return fmt.Errorf("apply %s: %w", id, ErrInstanceNotFound)
		}
		if patch.LastUpdate != nil && stored.LastUpdate.After(*patch.LastUpdate) {
			l.mu.Unlock()
			return fmt.Errorf("apply %s: %w", id, ErrStaleWrite)
		}
	}

	touched := make([]*models.Instance, 0, len(patches))
	for id, patch := range patches {
		inst := l.instances[id]
		mergePatch(inst, patch)
		if patch.LastUpdate != nil {
			inst.LastUpdate = *patch.LastUpdate
		} else {
			inst.LastUpdate = now
		}
		inst.UpdatedAt = now
		touched = append(touched, inst.Clone())
	}
	l.mu.Unlock()

	for _, inst := range touched {
		l.notifyWrite(inst.InstanceID)
		l.enqueue(inst)
	}
	return nil
}

func (l *Ledger) notifyWrite(instanceID string) {
	for _, fn := range l.onWrite {
		fn(instanceID)
	}
}

func (l *Ledger) enqueue(inst *models.Instance) {
	if l.queue == nil {
		return
	}
	err := l.queue.Enqueue(inst.InstanceID, outbox.Record{
		Op:      outbox.OpUpdateInstance,
		Payload: inst,
	})
	if err != nil {
		slog.Error("Failed to enqueue instance update",
			slog.String("type", "sync"),
			slog.String("instance_id", inst.InstanceID),
			slog.Any("error", err))
	}
}

func mergePatch(inst *models.Instance, p Patch) {
	if p.Username != nil {
		inst.Username = *p.Username
	}
	if p.VariantID != nil {
		inst.VariantID = *p.VariantID
	}
	if p.SpeciesID != nil {
		inst.SpeciesID = *p.SpeciesID
	}
	if p.Caught != nil {
		inst.Caught = *p.Caught
	}
	if p.ForTrade != nil {
		inst.ForTrade = *p.ForTrade
	}
	if p.Wanted != nil {
		inst.Wanted = *p.Wanted
	}
	if p.Mirror != nil {
		inst.Mirror = *p.Mirror
	}
	if p.Favorite != nil {
		inst.Favorite = *p.Favorite
	}
	if p.MostWanted != nil {
		inst.MostWanted = *p.MostWanted
	}
	if p.Registered != nil {
		inst.Registered = *p.Registered
	}
	if p.Shiny != nil {
		inst.Shiny = *p.Shiny
	}
	if p.Shadow != nil {
		inst.Shadow = *p.Shadow
	}
	if p.Mega != nil {
		inst.Mega = *p.Mega
	}
	if p.Fused != nil {
		inst.Fused = *p.Fused
	}
	if p.Dynamax != nil {
		inst.Dynamax = *p.Dynamax
	}
	if p.Gigantamax != nil {
		inst.Gigantamax = *p.Gigantamax
	}
	if p.CostumeID != nil {
		inst.CostumeID = *p.CostumeID
	}
	if p.Form != nil {
		inst.Form = *p.Form
	}
	if p.Stats != nil {
		stats := *p.Stats
		inst.Stats = &stats
	}
	if p.NotTradeList != nil {
		inst.NotTradeList = cloneBoolMapLocal(p.NotTradeList)
	}
	if p.NotWantedList != nil {
		inst.NotWantedList = cloneBoolMapLocal(p.NotWantedList)
	}
	if p.TradeFilters != nil {
		inst.TradeFilters = cloneBoolMapLocal(p.TradeFilters)
	}
}

func cloneBoolMapLocal(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
